package editor

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/metrics"
)

type State string

const (
	StateBrowsing State = "browsing"
	StateEditing  State = "editing"
)

// View is a consistent snapshot of a session, taken under its lock.
type View struct {
	SessionID     string             `json:"session_id"`
	State         State              `json:"state"`
	SelectedID    *int64             `json:"selected_id"`
	Version       int64              `json:"version"`
	Form          map[string]string  `json:"form"`
	Page          domain.PageRequest `json:"page"`
	Unpaged       bool               `json:"unpaged"`
	Listing       []domain.User      `json:"listing"`
	Notifications []Notification     `json:"notifications"`
}

// Session is one admin tab's editing workflow. Operations are serialised.
type Session struct {
	mu sync.Mutex

	id     string
	dir    Directory
	hasher PasswordHasher
	binder *Binder
	audit  func(action string, fields map[string]string)
	now    func() time.Time

	state      State
	selectedID int64
	working    domain.User
	form       map[string]string
	password   string
	confirm    string

	page    domain.PageRequest
	unpaged bool
	listing []domain.User
	notes   []Notification

	lastSeen atomic.Int64
}

type SessionOptions struct {
	Page    domain.PageRequest
	Unpaged bool
	Audit   func(action string, fields map[string]string)
	// Now stamps activity; defaults to time.Now.
	Now func() time.Time
}

func NewSession(id string, dir Directory, hasher PasswordHasher, binder *Binder, opts SessionOptions) *Session {
	if binder == nil {
		binder = NewBinder()
	}
	audit := opts.Audit
	if audit == nil {
		audit = func(string, map[string]string) {}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Session{
		id:      id,
		dir:     dir,
		hasher:  hasher,
		binder:  binder,
		audit:   audit,
		now:     now,
		state:   StateBrowsing,
		form:    binder.Empty(),
		page:    opts.Page.Normalize(),
		unpaged: opts.Unpaged,
	}
	s.touch(now())
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// ---------- operations ----------

// View returns the current snapshot and drains pending notifications.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(true)
}

// Select loads id into the form. id == 0 deselects.
func (s *Session) Select(ctx context.Context, id int64) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == 0 {
		return s.finish(s.browseLocked(ctx))
	}
	return s.finish(s.loadLocked(ctx, id, strconv.FormatInt(id, 10)))
}

func (s *Session) Deselect(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finish(s.browseLocked(ctx))
}

// Cancel discards in-progress changes.
func (s *Session) Cancel(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finish(s.browseLocked(ctx))
}

// NewRecord starts editing a transient, unsaved user.
func (s *Session) NewRecord(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newRecordLocked()
	return s.finish(nil)
}

// SetFields writes raw form values. Unknown names reject the whole call.
func (s *Session) SetFields(ctx context.Context, values map[string]string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range values {
		if k != FieldPassword && k != FieldConfirmPassword && !s.binder.Has(k) {
			return s.finish(domain.ErrInvalidField(k, "unknown field"))
		}
	}

	if s.state == StateBrowsing {
		s.newRecordLocked()
	}
	for k, v := range values {
		switch k {
		case FieldPassword:
			s.password = v
		case FieldConfirmPassword:
			s.confirm = v
		default:
			s.form[k] = v
		}
	}
	return s.finish(nil)
}

// Save validates the form, checks passwords and persists the working copy.
func (s *Session) Save(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateBrowsing {
		s.newRecordLocked()
	}

	candidate := s.working.Clone()
	if errs := s.binder.Write(&candidate, s.form); errs != nil {
		s.notify(validationFailed(errs))
		s.auditSave("validation_failed", candidate, nil)
		return s.finish(nil)
	}

	// both empty keeps the stored hash
	candidate.PasswordHash = ""
	if s.password != "" || s.confirm != "" {
		if s.password != s.confirm {
			s.notify(passwordMismatch())
			s.auditSave("password_mismatch", candidate, nil)
			return s.finish(nil)
		}
		hash, err := s.hasher.Hash(s.password)
		if err != nil {
			return s.finish(err)
		}
		candidate.PasswordHash = hash
	}

	saved, err := s.dir.Save(ctx, candidate)
	switch {
	case err == nil:
		s.auditSave("success", saved, nil)
		s.notify(saveSucceeded())
		if err := s.browseLocked(ctx); err != nil {
			// the save itself went through
			logger.WithCtx(ctx).Warn().Err(err).Str("session_id", s.id).Msg("listing refresh failed")
		}
		return s.finish(nil)

	case domain.Is(err, domain.CodeOptimisticLock):
		s.auditSave("conflict", candidate, err)
		s.notify(saveConflict())
		return s.finish(nil)

	case domain.Is(err, domain.CodeUserNotFound):
		s.auditSave("not_found", candidate, err)
		s.notify(notFound(strconv.FormatInt(candidate.ID, 10)))
		return s.finish(s.browseLocked(ctx))

	case domain.KindOf(err) == domain.KindValidation, domain.KindOf(err) == domain.KindConflict:
		s.auditSave("rejected", candidate, err)
		s.notify(validationFailed(fieldsFromError(err)))
		return s.finish(nil)

	default:
		s.auditSave("error", candidate, err)
		return s.finish(err)
	}
}

// Enter handles direct navigation to a record. Empty rawID means the plain listing.
func (s *Session) Enter(ctx context.Context, rawID string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return s.finish(s.browseLocked(ctx))
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		s.notify(notFound(rawID))
		return s.finish(s.browseLocked(ctx))
	}
	return s.finish(s.loadLocked(ctx, id, rawID))
}

// Refresh reloads the listing and clears the selection.
func (s *Session) Refresh(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finish(s.browseLocked(ctx))
}

func (s *Session) SetPage(ctx context.Context, p domain.PageRequest) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.page = p.Normalize()
	s.unpaged = false
	return s.finish(s.browseLocked(ctx))
}

// ---------- internals (caller holds s.mu) ----------

// finish leaves notifications pending on error, since callers drop the view then.
func (s *Session) finish(err error) (View, error) {
	s.touch(s.now())
	return s.snapshotLocked(err == nil), err
}

func (s *Session) loadLocked(ctx context.Context, id int64, rawID string) error {
	u, found, err := s.dir.Get(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		s.notify(notFound(rawID))
		return s.browseLocked(ctx)
	}
	s.populateLocked(u)
	return nil
}

func (s *Session) populateLocked(u domain.User) {
	s.working = u.Clone()
	s.form = s.binder.Read(u)
	s.password, s.confirm = "", ""
	s.selectedID = u.ID
	s.state = StateEditing
}

func (s *Session) clearLocked() {
	s.working = domain.User{}
	s.form = s.binder.Empty()
	s.password, s.confirm = "", ""
	s.selectedID = 0
}

func (s *Session) newRecordLocked() {
	s.clearLocked()
	s.state = StateEditing
}

// browseLocked clears the form and selection, then reloads the listing.
func (s *Session) browseLocked(ctx context.Context) error {
	s.clearLocked()
	s.state = StateBrowsing
	return s.reloadLocked(ctx)
}

func (s *Session) reloadLocked(ctx context.Context) error {
	var (
		users []domain.User
		err   error
	)
	if s.unpaged {
		users, err = s.dir.FindAll(ctx)
	} else {
		users, err = s.dir.List(ctx, s.page)
	}
	if err != nil {
		return err
	}
	s.listing = users
	return nil
}

func (s *Session) notify(n Notification) {
	metrics.RecordEditorNotification(string(n.Kind))
	s.notes = append(s.notes, n)
}

func (s *Session) snapshotLocked(drain bool) View {
	v := View{
		SessionID:     s.id,
		State:         s.state,
		Version:       s.working.Version,
		Form:          make(map[string]string, len(s.form)),
		Page:          s.page,
		Unpaged:       s.unpaged,
		Listing:       make([]domain.User, len(s.listing)),
		Notifications: make([]Notification, len(s.notes)),
	}
	if s.selectedID != 0 {
		id := s.selectedID
		v.SelectedID = &id
	}
	for k, val := range s.form {
		v.Form[k] = val
	}
	for i, u := range s.listing {
		v.Listing[i] = u.Clone()
	}
	copy(v.Notifications, s.notes)
	if drain {
		s.notes = nil
	}
	return v
}

func (s *Session) auditSave(result string, u domain.User, err error) {
	fields := map[string]string{
		"session_id": s.id,
		"result":     result,
		"username":   strings.TrimSpace(u.Username),
	}
	if u.ID != 0 {
		fields["user_id"] = strconv.FormatInt(u.ID, 10)
	}
	if err != nil {
		fields["error_code"] = domainCode(err)
	}
	s.audit("editor.save", fields)
}

func fieldsFromError(err error) map[string]string {
	switch {
	case domain.Is(err, domain.CodeUsernameExists):
		return map[string]string{FieldUsername: "unique"}
	case domain.Is(err, domain.CodeEmailExists):
		return map[string]string{FieldEmail: "unique"}
	case domain.Is(err, domain.CodeMissingField):
		if de := asDomain(err); de != nil && de.Meta["field"] != "" {
			return map[string]string{de.Meta["field"]: "required"}
		}
	}
	return nil
}
