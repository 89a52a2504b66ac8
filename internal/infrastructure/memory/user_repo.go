package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
)

type UserRepo struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]domain.User
	byEmail    map[string]int64
	byUsername map[string]int64
	now        func() time.Time
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:       make(map[int64]domain.User),
		byEmail:    make(map[string]int64),
		byUsername: make(map[string]int64),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// sortedLocked returns all users ordered by id. Caller holds r.mu.
func (r *UserRepo) sortedLocked() []domain.User {
	out := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *UserRepo) List(ctx context.Context, p domain.PageRequest) ([]domain.User, error) {
	p = p.Normalize()

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sortedLocked()
	from := p.Offset()
	if from >= len(all) {
		return []domain.User{}, nil
	}
	to := from + p.Size
	if to > len(all) {
		to = len(all)
	}
	return all[from:to], nil
}

func (r *UserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u.Clone(), nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[u.Username]; exists {
		return domain.User{}, domain.ErrUsernameAlreadyExists()
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	r.nextID++
	now := r.now()
	u.ID = r.nextID
	u.Version = 1
	u.CreatedAt = now
	u.UpdatedAt = now

	u = u.Clone()
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	r.byUsername[u.Username] = u.ID
	return u.Clone(), nil
}

func (r *UserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[u.ID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if cur.Version != u.Version {
		return domain.User{}, domain.ErrOptimisticLock()
	}
	if id, exists := r.byUsername[u.Username]; exists && id != u.ID {
		return domain.User{}, domain.ErrUsernameAlreadyExists()
	}
	if id, exists := r.byEmail[u.Email]; exists && id != u.ID {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	if u.PasswordHash == "" {
		u.PasswordHash = cur.PasswordHash
	}
	u.Version = cur.Version + 1
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = r.now()

	delete(r.byEmail, cur.Email)
	delete(r.byUsername, cur.Username)

	u = u.Clone()
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	r.byUsername[u.Username] = u.ID
	return u.Clone(), nil
}

func (r *UserRepo) Ping(ctx context.Context) error { return nil }
