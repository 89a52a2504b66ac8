package directory

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
)

// UserRepo is the persistence port. Update must compare-and-swap on Version.
type UserRepo interface {
	List(ctx context.Context, p domain.PageRequest) ([]domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Update(ctx context.Context, u domain.User) (domain.User, error)
}

// UserCache is a best-effort read-through cache keyed by user id.
// Entries are not required to keep the password hash.
type UserCache interface {
	Get(ctx context.Context, id int64) (domain.User, bool, error)
	Set(ctx context.Context, u domain.User) error
	Delete(ctx context.Context, id int64) error
}

type EventPublisher interface {
	PublishUserSaved(ctx context.Context, evt UserSavedEvent) error
}

type UserSavedEvent struct {
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Enabled    bool      `json:"enabled"`
	Version    int64     `json:"version"`
	Created    bool      `json:"created"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RoutingKey is user.created for inserts and user.updated otherwise.
func (e UserSavedEvent) RoutingKey() string {
	if e.Created {
		return "user.created"
	}
	return "user.updated"
}

type Clock interface {
	Now() time.Time
}
