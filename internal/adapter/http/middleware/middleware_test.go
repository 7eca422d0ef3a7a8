package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/pkg/logger"
	wrap "github.com/Temutjin2k/delivery-fare/pkg/logger/wrapper"
)

type tokenTable map[string]*models.User

func (t tokenTable) RoleCheck(_ context.Context, token string) (*models.User, error) {
	if u, ok := t[token]; ok {
		return u, nil
	}
	return nil, errors.New("invalid token")
}

func newChain(t *testing.T, next http.Handler) http.Handler {
	t.Helper()
	tokens := tokenTable{
		"admin":   {ID: "admin-1", Role: types.AdminRole},
		"service": {ID: "svc-1", Role: types.ServiceRole},
	}
	return NewMiddleware(tokens, logger.NewNop(), "test").Chain(next)
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/pricing/ranges", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChain_RolesAndRequestID(t *testing.T) {
	var seenRequestID string
	m := NewMiddleware(tokenTable{}, logger.NewNop(), "test")
	adminOnly := m.RequireRoles(func(w http.ResponseWriter, r *http.Request) {
		seenRequestID = wrap.GetRequestID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}, types.AdminRole)
	h := newChain(t, adminOnly)

	rec := serve(h, "admin")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, rec.Header().Get(RequestIDHeader), seenRequestID)

	rec = serve(h, "service")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden: insufficient role"}`, rec.Body.String())

	rec = serve(h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h, "forged")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())
}

func TestChain_KeepsCallerRequestID(t *testing.T) {
	h := newChain(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-from-gateway")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-from-gateway", rec.Header().Get(RequestIDHeader))
}

func TestChain_RecoversPanic(t *testing.T) {
	h := newChain(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("tier list exploded")
	}))

	rec := serve(h, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	assert.Equal(t, "close", rec.Header().Get("Connection"))
}

func TestRouteOf(t *testing.T) {
	assert.Equal(t, "/fares/quote", routeOf("/fares/quote"))
	assert.Equal(t, "/fares/{trip_id}", routeOf("/fares/trip-77"))
	assert.Equal(t, "/pricing/surge-rules/{rule_id}", routeOf("/pricing/surge-rules/evening"))
}
