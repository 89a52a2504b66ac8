package directory

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/metrics"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Service is the persistence boundary for user records.
// cache and pub are optional; both are best-effort.
type Service struct {
	users UserRepo
	cache UserCache
	pub   EventPublisher
	clock Clock
	audit func(action string, fields map[string]string)
}

func NewService(users UserRepo, cache UserCache, pub EventPublisher) *Service {
	return &Service{
		users: users,
		cache: cache,
		pub:   pub,
		clock: systemClock{},
		audit: func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) WithClock(c Clock) *Service {
	if c != nil {
		s.clock = c
	}
	return s
}

func (s *Service) List(ctx context.Context, p domain.PageRequest) ([]domain.User, error) {
	return s.users.List(ctx, p.Normalize())
}

func (s *Service) FindAll(ctx context.Context) ([]domain.User, error) {
	return s.users.FindAll(ctx)
}

// Get reports a missing record as found=false with a nil error.
// The returned user never carries the password hash.
func (s *Service) Get(ctx context.Context, id int64) (domain.User, bool, error) {
	if id <= 0 {
		return domain.User{}, false, nil
	}

	if s.cache != nil {
		u, ok, err := s.cache.Get(ctx, id)
		switch {
		case err != nil:
			metrics.RecordCacheLookup("error")
			logger.WithCtx(ctx).Warn().Err(err).Int64("user_id", id).Msg("user cache read failed")
		case ok:
			metrics.RecordCacheLookup("hit")
			u.PasswordHash = ""
			return u, true, nil
		default:
			metrics.RecordCacheLookup("miss")
		}
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if domain.Is(err, domain.CodeUserNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	s.cacheSet(ctx, u)
	u.PasswordHash = ""
	return u, true, nil
}

// Save inserts when u.ID is zero, otherwise updates guarded by u.Version.
func (s *Service) Save(ctx context.Context, u domain.User) (domain.User, error) {
	op := "update"
	if u.IsNew() {
		op = "create"
	}
	action := "directory.user_" + op

	audit := func(result string, err error, saved domain.User) {
		fields := map[string]string{
			"result":   result,
			"username": u.Username,
		}
		if saved.ID != 0 {
			fields["user_id"] = strconv.FormatInt(saved.ID, 10)
			fields["version"] = strconv.FormatInt(saved.Version, 10)
		} else if u.ID != 0 {
			fields["user_id"] = strconv.FormatInt(u.ID, 10)
		}
		if err != nil {
			fields["error_code"] = domainCode(err)
		}
		s.audit(action, fields)
	}

	if strings.TrimSpace(u.Username) == "" {
		err := domain.ErrMissingField("username")
		metrics.RecordUserSave(op, "invalid")
		audit("error", err, domain.User{})
		return domain.User{}, err
	}
	if strings.TrimSpace(u.Email) == "" {
		err := domain.ErrMissingField("email")
		metrics.RecordUserSave(op, "invalid")
		audit("error", err, domain.User{})
		return domain.User{}, err
	}

	var (
		saved domain.User
		err   error
	)
	if u.IsNew() {
		saved, err = s.users.Create(ctx, u)
	} else {
		saved, err = s.users.Update(ctx, u)
	}
	if err != nil {
		metrics.RecordUserSave(op, saveResult(err))
		audit("error", err, domain.User{})
		if domain.Is(err, domain.CodeOptimisticLock) || domain.Is(err, domain.CodeUserNotFound) {
			s.cacheDelete(ctx, u.ID)
		}
		return domain.User{}, err
	}

	metrics.RecordUserSave(op, "success")
	audit("success", nil, saved)
	s.cacheSet(ctx, saved)
	s.publish(ctx, saved, op == "create")
	return saved, nil
}

func (s *Service) cacheSet(ctx context.Context, u domain.User) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, u); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Int64("user_id", u.ID).Msg("user cache write failed")
	}
}

func (s *Service) cacheDelete(ctx context.Context, id int64) {
	if s.cache == nil || id == 0 {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Int64("user_id", id).Msg("user cache invalidate failed")
	}
}

func (s *Service) publish(ctx context.Context, u domain.User, created bool) {
	if s.pub == nil {
		return
	}
	evt := UserSavedEvent{
		UserID:     u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		Enabled:    u.Enabled,
		Version:    u.Version,
		Created:    created,
		OccurredAt: s.clock.Now(),
	}
	if err := s.pub.PublishUserSaved(ctx, evt); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).
			Str("routing_key", evt.RoutingKey()).
			Int64("user_id", u.ID).
			Msg("user event publish failed")
	}
}

func saveResult(err error) string {
	switch {
	case domain.Is(err, domain.CodeOptimisticLock):
		return "conflict"
	case domain.Is(err, domain.CodeUserNotFound):
		return "not_found"
	case domain.KindOf(err) == domain.KindValidation, domain.KindOf(err) == domain.KindConflict:
		return "invalid"
	default:
		return "error"
	}
}
