package editor

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
)

// Directory is the slice of the directory service the workflow drives.
type Directory interface {
	List(ctx context.Context, p domain.PageRequest) ([]domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (domain.User, bool, error)
	Save(ctx context.Context, u domain.User) (domain.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}
