package editor

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
)

type auditEntry struct {
	action string
	fields map[string]string
}

type fakeDirectory struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.User

	saveErr error
	getErr  error
	listErr error

	saves    []domain.User
	lists    int
	findAlls int
	lastPage domain.PageRequest
}

func newFakeDirectory(users ...domain.User) *fakeDirectory {
	d := &fakeDirectory{byID: map[int64]domain.User{}}
	for _, u := range users {
		if u.Version == 0 {
			u.Version = 1
		}
		d.byID[u.ID] = u
		if u.ID > d.nextID {
			d.nextID = u.ID
		}
	}
	return d
}

func (d *fakeDirectory) sorted() []domain.User {
	out := make([]domain.User, 0, len(d.byID))
	for _, u := range d.byID {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *fakeDirectory) List(ctx context.Context, p domain.PageRequest) ([]domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lists++
	d.lastPage = p
	if d.listErr != nil {
		return nil, d.listErr
	}
	all := d.sorted()
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

func (d *fakeDirectory) FindAll(ctx context.Context) ([]domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.findAlls++
	if d.listErr != nil {
		return nil, d.listErr
	}
	return d.sorted(), nil
}

func (d *fakeDirectory) Get(ctx context.Context, id int64) (domain.User, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.getErr != nil {
		return domain.User{}, false, d.getErr
	}
	u, ok := d.byID[id]
	return u.Clone(), ok, nil
}

func (d *fakeDirectory) Save(ctx context.Context, u domain.User) (domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.saves = append(d.saves, u.Clone())
	if d.saveErr != nil {
		return domain.User{}, d.saveErr
	}
	if u.IsNew() {
		d.nextID++
		u.ID = d.nextID
		u.Version = 1
		d.byID[u.ID] = u.Clone()
		return u, nil
	}
	cur, ok := d.byID[u.ID]
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
	d.byID[u.ID] = u.Clone()
	return u, nil
}

// bumpVersion simulates a concurrent writer.
func (d *fakeDirectory) bumpVersion(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u := d.byID[id]
	u.Version++
	d.byID[id] = u
}

func (d *fakeDirectory) stored(id int64) domain.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.byID[id].Clone()
}

type fakeHasher struct {
	err   error
	calls int
}

func (h *fakeHasher) Hash(pw string) (string, error) {
	h.calls++
	if h.err != nil {
		return "", h.err
	}
	return "HASH(" + pw + ")", nil
}
