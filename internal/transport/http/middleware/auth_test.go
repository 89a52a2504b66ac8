package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
)

// ---- fakes ----

type fakeVerifier struct {
	claims domain.TokenClaims
	err    error
	calls  int
	gotTok string
}

func (f *fakeVerifier) VerifyAccessToken(token string) (domain.TokenClaims, error) {
	f.calls++
	f.gotTok = token
	return f.claims, f.err
}

type writeErrRecorder struct {
	calls int
	last  error
}

func (w *writeErrRecorder) fn(_ http.ResponseWriter, _ *http.Request, err error) {
	w.calls++
	w.last = err
}

type nextRecorder struct {
	calls   int
	gotUID  string
	gotRole string
}

func (n *nextRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.calls++
	n.gotUID, _ = UserIDFromContext(r.Context())
	n.gotRole, _ = RoleFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func runAuth(t *testing.T, v TokenVerifier, authz string) (*writeErrRecorder, *nextRecorder) {
	t.Helper()
	we := &writeErrRecorder{}
	nx := &nextRecorder{}

	req := httptest.NewRequest(http.MethodGet, "/admin/v1/users", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	Auth(v, we.fn)(nx).ServeHTTP(httptest.NewRecorder(), req)
	return we, nx
}

func TestAuth_MissingHeader(t *testing.T) {
	v := &fakeVerifier{}
	we, nx := runAuth(t, v, "")

	assert.Equal(t, 1, we.calls)
	assert.True(t, domain.Is(we.last, "token_missing"))
	assert.Zero(t, nx.calls)
	assert.Zero(t, v.calls)
}

func TestAuth_MalformedHeader(t *testing.T) {
	for _, h := range []string{"Basic abc", "Bearer", "Bearer    ", "token"} {
		t.Run(h, func(t *testing.T) {
			we, nx := runAuth(t, &fakeVerifier{}, h)
			assert.True(t, domain.Is(we.last, "token_invalid"), "got %v", we.last)
			assert.Zero(t, nx.calls)
		})
	}
}

func TestAuth_VerifierError_Propagates(t *testing.T) {
	v := &fakeVerifier{err: domain.ErrTokenExpired()}
	we, nx := runAuth(t, v, "Bearer tok")

	assert.True(t, domain.Is(we.last, "token_expired"))
	assert.Equal(t, "tok", v.gotTok)
	assert.Zero(t, nx.calls)
}

func TestAuth_EmptySubject_Rejected(t *testing.T) {
	we, nx := runAuth(t, &fakeVerifier{claims: domain.TokenClaims{UserID: "  ", Role: "admin"}}, "Bearer tok")
	assert.True(t, domain.Is(we.last, "token_invalid"))
	assert.Zero(t, nx.calls)
}

func TestAuth_OK_InjectsIdentity(t *testing.T) {
	v := &fakeVerifier{claims: domain.TokenClaims{UserID: "u-1", Role: "admin"}}
	we, nx := runAuth(t, v, "bearer  tok ")

	require.Zero(t, we.calls)
	assert.Equal(t, 1, nx.calls)
	assert.Equal(t, "u-1", nx.gotUID)
	assert.Equal(t, "admin", nx.gotRole)
	assert.Equal(t, "tok", v.gotTok)
}

func TestRequireAtLeast(t *testing.T) {
	cases := []struct {
		name     string
		role     string
		min      string
		wantNext bool
		wantCode string
	}{
		{"admin passes admin gate", "admin", "admin", true, ""},
		{"moderator blocked", "moderator", "admin", false, "insufficient_role"},
		{"user passes user gate", "user", "user", true, ""},
		{"unknown role", "root", "admin", false, "forbidden"},
		{"no identity", "", "admin", false, "token_invalid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			we := &writeErrRecorder{}
			nx := &nextRecorder{}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.role != "" {
				req = req.WithContext(WithUser(req.Context(), "u-1", tc.role))
			}
			RequireAtLeast(tc.min, we.fn)(nx).ServeHTTP(httptest.NewRecorder(), req)

			if tc.wantNext {
				assert.Equal(t, 1, nx.calls)
				assert.Zero(t, we.calls)
				return
			}
			assert.Zero(t, nx.calls)
			var de *domain.Error
			require.True(t, errors.As(we.last, &de))
			assert.Equal(t, tc.wantCode, de.Code)
		})
	}
}

func TestIdentityFromContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), "u-7", "moderator")
	id, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, Identity{UserID: "u-7", Role: "moderator"}, id)

	_, ok = RoleFromContext(WithUser(context.Background(), "u-8", ""))
	assert.False(t, ok)
}
