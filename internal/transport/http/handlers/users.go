package http_handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/transport/http/response"
)

// UserDirectory is the read side of the directory service.
type UserDirectory interface {
	List(ctx context.Context, p domain.PageRequest) ([]domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (domain.User, bool, error)
}

type UsersHandler struct {
	dir         UserDirectory
	defaultSize int
}

func NewUsersHandler(dir UserDirectory, defaultSize int) *UsersHandler {
	return &UsersHandler{dir: dir, defaultSize: defaultSize}
}

// List handles GET /admin/v1/users?page=&size=
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 0)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	size, err := queryInt(r, "size", h.defaultSize)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	if page < 0 {
		response.WriteError(w, r, domain.ErrInvalidField("page", "must be >= 0"))
		return
	}

	p := domain.PageRequest{Page: page, Size: size}.Normalize()
	users, err := h.dir.List(r.Context(), p)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.UserPage{Items: dto.ToUserRows(users), Page: p.Page, Size: p.Size})
}

// FindAll handles GET /admin/v1/users/all
func (h *UsersHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.dir.FindAll(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToUserRows(users))
}

// Get handles GET /admin/v1/users/{id}
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, ok, err := h.dir.Get(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	if !ok {
		response.WriteError(w, r, domain.ErrUserNotFound())
		return
	}
	response.OK(w, dto.ToUserRow(u))
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidField(key, "must be an integer")
	}
	return n, nil
}

func pathID(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidField(key, "must be a positive integer")
	}
	return id, nil
}
