package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/application/directory"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/application/editor"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/infrastructure/memory"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/transport/http/dto"
)

type testEnv struct {
	repo   *memory.UserRepo
	router chi.Router
}

// newTestEnv wires the handlers over the in-memory stack.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := memory.NewUserRepo()
	dir := directory.NewService(repo, nil, memory.NewNoopPublisher())
	reg := editor.NewRegistry(dir, security.NewBcryptHasher(bcrypt.MinCost), editor.RegistryConfig{DefaultPageSize: 10})

	users := NewUsersHandler(dir, 10)
	screens := NewScreensHandler(reg)

	r := chi.NewRouter()
	r.Get("/users", users.List)
	r.Get("/users/all", users.FindAll)
	r.Get("/users/{id}", users.Get)
	r.Post("/screens", screens.Open)
	r.Route("/screens/{sid}", func(r chi.Router) {
		r.Get("/", screens.Get)
		r.Delete("/", screens.Close)
		r.Post("/select", screens.Select)
		r.Post("/new", screens.New)
		r.Patch("/form", screens.Form)
		r.Post("/save", screens.Save)
		r.Post("/cancel", screens.Cancel)
		r.Post("/refresh", screens.Refresh)
		r.Post("/page", screens.Page)
		r.Get("/users/{id}/edit", screens.Enter)
	})

	return &testEnv{repo: repo, router: r}
}

func (e *testEnv) seed(t *testing.T, users ...domain.User) {
	t.Helper()
	for _, u := range users {
		_, err := e.repo.Create(context.Background(), u)
		require.NoError(t, err)
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		rd = mustJSONBody(t, body)
	}
	req := httptest.NewRequest(method, path, rd)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) open(t *testing.T) dto.ScreenView {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/screens", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var v dto.ScreenView
	mustReadData(t, rr.Body, &v)
	return v
}

func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// mustReadData decodes the {"data": ...} envelope into out.
func mustReadData(t *testing.T, r io.Reader, out any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(r).Decode(&env))
	require.NotEmpty(t, env.Data)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func errorCode(t *testing.T, r io.Reader) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body.Error.Code
}

func noteKinds(v dto.ScreenView) []editor.NotificationKind {
	out := make([]editor.NotificationKind, 0, len(v.Notifications))
	for _, n := range v.Notifications {
		out = append(out, n.Kind)
	}
	return out
}
