package postgres

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedUsers inserts a dev admin plus a few sample accounts. Duplicates are ignored.
func SeedUsers(ctx context.Context, repo SeederRepo, hasher SeederHasher) int {
	type seedUser struct {
		Username string
		FullName string
		Email    string
		Role     string
		Pass     string
		Sector   string
		Locality string
		Born     string
	}

	seeds := []seedUser{
		{Username: "admin", FullName: "Default Admin", Email: "admin@example.com", Role: "admin", Pass: "AdminPassword123!", Sector: "IT", Locality: "HQ"},
		{Username: "moderator", FullName: "Mia Moderator", Email: "moderator@example.com", Role: "moderator", Pass: "ModeratorPassword123!", Sector: "Support", Locality: "North", Born: "1990-04-12"},
		{Username: "user", FullName: "Uma User", Email: "user@example.com", Role: "user", Pass: "UserPassword123!", Sector: "Sales", Locality: "South", Born: "1985-11-03"},
	}

	created := 0
	for _, s := range seeds {
		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			log.Warn().Err(err).Str("username", s.Username).Msg("seed hash failed")
			continue
		}

		u := domain.User{
			Username:     s.Username,
			FullName:     s.FullName,
			Email:        s.Email,
			PasswordHash: hash,
			Enabled:      true,
			Role:         s.Role,
			Sector:       s.Sector,
			Locality:     s.Locality,
		}
		if s.Born != "" {
			if d, err := time.Parse(domain.DateLayout, s.Born); err == nil {
				u.DateOfBirth = &d
			}
		}

		if _, err := repo.Create(ctx, u); err != nil {
			// restart safe
			continue
		}
		created++
	}

	log.Info().Int("created", created).Msg("users seeded")
	return created
}
