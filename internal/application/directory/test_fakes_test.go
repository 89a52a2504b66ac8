package directory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
)

type auditEntry struct {
	action string
	fields map[string]string
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.User

	getErr    error
	createErr error
	updateErr error
	listErr   error

	creates int
	updates int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]domain.User{}}
}

func (f *fakeUserRepo) put(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
	if u.ID > f.nextID {
		f.nextID = u.ID
	}
}

func (f *fakeUserRepo) sorted() []domain.User {
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeUserRepo) List(ctx context.Context, p domain.PageRequest) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	all := f.sorted()
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

func (f *fakeUserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sorted(), nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	f.nextID++
	u.ID = f.nextID
	u.Version = 1
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return domain.User{}, f.updateErr
	}
	cur, ok := f.byID[u.ID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if cur.Version != u.Version {
		return domain.User{}, domain.ErrOptimisticLock()
	}
	if u.PasswordHash == "" {
		u.PasswordHash = cur.PasswordHash
	}
	u.Version++
	f.byID[u.ID] = u
	return u, nil
}

type fakeCache struct {
	mu      sync.Mutex
	items   map[int64]domain.User
	getErr  error
	setErr  error
	gets    int
	deletes []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[int64]domain.User{}}
}

func (c *fakeCache) Get(ctx context.Context, id int64) (domain.User, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return domain.User{}, false, c.getErr
	}
	u, ok := c.items[id]
	return u, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, u domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.items[u.ID] = u
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, id)
	delete(c.items, id)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []UserSavedEvent
	err    error
}

func (p *fakePublisher) PublishUserSaved(ctx context.Context, evt UserSavedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var errBoom = errors.New("boom")
