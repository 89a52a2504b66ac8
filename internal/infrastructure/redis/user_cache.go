package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
)

const userKeyPrefix = "useradmin:user:"

// cachedUser never carries the password hash.
type cachedUser struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Enabled     bool      `json:"enabled"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	Role        string    `json:"role"`
	Sector      string    `json:"sector"`
	Locality    string    `json:"locality"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserCache is the directory's read-through record cache.
type UserCache struct {
	c   *Client
	ttl time.Duration
}

func NewUserCache(c *Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &UserCache{c: c, ttl: ttl}
}

func userKey(id int64) string {
	return userKeyPrefix + strconv.FormatInt(id, 10)
}

func (uc *UserCache) Get(ctx context.Context, id int64) (domain.User, bool, error) {
	var cu cachedUser
	ok, err := uc.c.GetJSON(ctx, userKey(id), &cu)
	if err != nil {
		return domain.User{}, false, domain.ErrRedisUnavailable(err)
	}
	if !ok {
		return domain.User{}, false, nil
	}

	u := domain.User{
		ID:        cu.ID,
		Username:  cu.Username,
		FullName:  cu.FullName,
		Email:     cu.Email,
		Enabled:   cu.Enabled,
		Role:      cu.Role,
		Sector:    cu.Sector,
		Locality:  cu.Locality,
		Version:   cu.Version,
		CreatedAt: cu.CreatedAt,
		UpdatedAt: cu.UpdatedAt,
	}
	if cu.DateOfBirth != "" {
		d, err := time.Parse(domain.DateLayout, cu.DateOfBirth)
		if err != nil {
			// corrupt entry, treat as miss
			_ = uc.Delete(ctx, id)
			return domain.User{}, false, nil
		}
		u.DateOfBirth = &d
	}
	return u, true, nil
}

func (uc *UserCache) Set(ctx context.Context, u domain.User) error {
	cu := cachedUser{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Enabled:   u.Enabled,
		Role:      u.Role,
		Sector:    u.Sector,
		Locality:  u.Locality,
		Version:   u.Version,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.DateOfBirth != nil {
		cu.DateOfBirth = u.DateOfBirth.Format(domain.DateLayout)
	}
	if err := uc.c.SetJSON(ctx, userKey(u.ID), cu, uc.ttl); err != nil {
		return domain.ErrRedisUnavailable(err)
	}
	return nil
}

func (uc *UserCache) Delete(ctx context.Context, id int64) error {
	if err := uc.c.Delete(ctx, userKey(id)); err != nil {
		return domain.ErrRedisUnavailable(err)
	}
	return nil
}
