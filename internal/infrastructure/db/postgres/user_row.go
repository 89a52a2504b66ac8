package postgres

import (
	"database/sql"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
)

const userColumns = `id, username, name, email, password_hash, enabled, date_of_birth, role, sector, locality, version, created_at, updated_at`

type userRow struct {
	ID           int64
	Username     string
	Name         string
	Email        string
	PasswordHash string
	Enabled      bool
	DateOfBirth  sql.NullTime
	Role         string
	Sector       string
	Locality     string
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (userRow, error) {
	var ur userRow
	err := s.Scan(
		&ur.ID,
		&ur.Username,
		&ur.Name,
		&ur.Email,
		&ur.PasswordHash,
		&ur.Enabled,
		&ur.DateOfBirth,
		&ur.Role,
		&ur.Sector,
		&ur.Locality,
		&ur.Version,
		&ur.CreatedAt,
		&ur.UpdatedAt,
	)
	return ur, err
}

func toDomainUser(ur userRow) domain.User {
	u := domain.User{
		ID:           ur.ID,
		Username:     ur.Username,
		FullName:     ur.Name,
		Email:        ur.Email,
		PasswordHash: ur.PasswordHash,
		Enabled:      ur.Enabled,
		Role:         ur.Role,
		Sector:       ur.Sector,
		Locality:     ur.Locality,
		Version:      ur.Version,
		CreatedAt:    ur.CreatedAt,
		UpdatedAt:    ur.UpdatedAt,
	}
	if ur.DateOfBirth.Valid {
		d := ur.DateOfBirth.Time.UTC()
		u.DateOfBirth = &d
	}
	return u
}

func dobArg(u domain.User) sql.NullTime {
	if u.DateOfBirth == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *u.DateOfBirth, Valid: true}
}
