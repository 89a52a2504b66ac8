package editor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/metrics"
)

const DefaultIdleTTL = 30 * time.Minute

// Registry owns the open sessions. Idle ones are swept on access.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	dir      Directory
	hasher   PasswordHasher
	binder   *Binder
	idleTTL  time.Duration
	pageSize int
	now      func() time.Time
	newID    func() string
	audit    func(action string, fields map[string]string)
}

type RegistryConfig struct {
	IdleTTL         time.Duration
	DefaultPageSize int
}

func NewRegistry(dir Directory, hasher PasswordHasher, cfg RegistryConfig) *Registry {
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	size := cfg.DefaultPageSize
	if size <= 0 {
		size = domain.DefaultPageSize
	}
	return &Registry{
		sessions: make(map[string]*Session),
		dir:      dir,
		hasher:   hasher,
		binder:   NewBinder(),
		idleTTL:  ttl,
		pageSize: size,
		now:      time.Now,
		newID:    uuid.NewString,
		audit:    func(string, map[string]string) {},
	}
}

func (r *Registry) WithAudit(fn func(action string, fields map[string]string)) *Registry {
	if fn != nil {
		r.audit = fn
	}
	return r
}

type OpenOptions struct {
	Page    int
	Size    int
	Unpaged bool
}

// Open creates a session in Browsing with its listing loaded.
func (r *Registry) Open(ctx context.Context, opts OpenOptions) (*Session, View, error) {
	size := opts.Size
	if size <= 0 {
		size = r.pageSize
	}
	s := NewSession(r.newID(), r.dir, r.hasher, r.binder, SessionOptions{
		Page:    domain.PageRequest{Page: opts.Page, Size: size},
		Unpaged: opts.Unpaged,
		Audit:   r.audit,
		Now:     func() time.Time { return r.now() },
	})

	v, err := s.Refresh(ctx)
	if err != nil {
		return nil, View{}, err
	}

	r.mu.Lock()
	r.sweepLocked()
	r.sessions[s.ID()] = s
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.SetActiveSessions(n)
	return s, v, nil
}

// Get returns a live session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	r.sweepLocked()
	s, ok := r.sessions[id]
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.SetActiveSessions(n)
	if !ok {
		return nil, domain.ErrSessionNotFound()
	}
	s.touch(r.now())
	return s, nil
}

func (r *Registry) Close(id string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.SetActiveSessions(n)
	if !ok {
		return domain.ErrSessionNotFound()
	}
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) sweepLocked() {
	cutoff := r.now().Add(-r.idleTTL)
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
