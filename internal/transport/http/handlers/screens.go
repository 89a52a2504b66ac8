package http_handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/application/editor"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/transport/http/response"
)

// ScreenRegistry owns the editing sessions behind /admin/v1/screens.
type ScreenRegistry interface {
	Open(ctx context.Context, opts editor.OpenOptions) (*editor.Session, editor.View, error)
	Get(id string) (*editor.Session, error)
	Close(id string) error
}

// ScreensHandler exposes the editing workflow. Workflow outcomes such as a
// rejected save are carried in the view's notifications with a 200.
type ScreensHandler struct {
	screens ScreenRegistry
}

func NewScreensHandler(screens ScreenRegistry) *ScreensHandler {
	return &ScreensHandler{screens: screens}
}

// Open handles POST /admin/v1/screens
func (h *ScreensHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenScreenRequest
	if err := response.DecodeOptionalJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	s, v, err := h.screens.Open(r.Context(), editor.OpenOptions{Page: req.Page, Size: req.Size, Unpaged: req.Unpaged})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	actor, _ := middleware.UserIDFromContext(r.Context())
	logger.WithCtx(r.Context()).Info().
		Str("session_id", s.ID()).
		Str("actor", actor).
		Msg("screen_opened")

	response.Created(w, dto.ToScreenView(v))
}

// Get handles GET /admin/v1/screens/{sid}
func (h *ScreensHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	response.OK(w, dto.ToScreenView(s.View()))
}

// Close handles DELETE /admin/v1/screens/{sid}
func (h *ScreensHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.screens.Close(chi.URLParam(r, "sid")); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

// Select handles POST /admin/v1/screens/{sid}/select
func (h *ScreensHandler) Select(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.SelectRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if req.ID == nil {
		h.render(w, r)(s.Deselect(r.Context()))
		return
	}
	h.render(w, r)(s.Select(r.Context(), *req.ID))
}

// New handles POST /admin/v1/screens/{sid}/new
func (h *ScreensHandler) New(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.render(w, r)(s.NewRecord(r.Context()))
}

// Form handles PATCH /admin/v1/screens/{sid}/form
func (h *ScreensHandler) Form(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.FormRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	values, err := req.Values()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	h.render(w, r)(s.SetFields(r.Context(), values))
}

// Save handles POST /admin/v1/screens/{sid}/save
func (h *ScreensHandler) Save(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.render(w, r)(s.Save(r.Context()))
}

// Cancel handles POST /admin/v1/screens/{sid}/cancel
func (h *ScreensHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.render(w, r)(s.Cancel(r.Context()))
}

// Refresh handles POST /admin/v1/screens/{sid}/refresh
func (h *ScreensHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.render(w, r)(s.Refresh(r.Context()))
}

// Page handles POST /admin/v1/screens/{sid}/page
func (h *ScreensHandler) Page(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.PageRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}
	h.render(w, r)(s.SetPage(r.Context(), domain.PageRequest{Page: req.Page, Size: req.Size}))
}

// Enter handles GET /admin/v1/screens/{sid}/users/{id}/edit
func (h *ScreensHandler) Enter(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.render(w, r)(s.Enter(r.Context(), chi.URLParam(r, "id")))
}

func (h *ScreensHandler) session(w http.ResponseWriter, r *http.Request) (*editor.Session, bool) {
	s, err := h.screens.Get(chi.URLParam(r, "sid"))
	if err != nil {
		response.WriteError(w, r, err)
		return nil, false
	}
	return s, true
}

func (h *ScreensHandler) render(w http.ResponseWriter, r *http.Request) func(editor.View, error) {
	return func(v editor.View, err error) {
		if err != nil {
			response.WriteError(w, r, err)
			return
		}
		response.OK(w, dto.ToScreenView(v))
	}
}
