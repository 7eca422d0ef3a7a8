package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/pkg/logger"
	"github.com/Temutjin2k/delivery-fare/pkg/uuid"
)

const testSecret = "test-secret"

func newTokens(t *testing.T) *TokenService {
	t.Helper()
	s, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	return s
}

func admin() *models.User {
	return &models.User{ID: uuid.NewString(), Email: "ops@fare.kz", Role: types.AdminRole}
}

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestRoleCheck(t *testing.T) {
	ctx := context.Background()
	tokens := newTokens(t)
	svc := NewAuthService(tokens, logger.NewNop())

	user := admin()
	token, err := tokens.Issue(ctx, user)
	require.NoError(t, err)

	got, err := svc.RoleCheck(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestRoleCheck_Expired(t *testing.T) {
	ctx := context.Background()
	tokens := newTokens(t)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := tokens.Issue(ctx, admin())
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = NewAuthService(tokens, logger.NewNop()).RoleCheck(ctx, token)
	assert.ErrorIs(t, err, types.ErrExpiredToken)
}

func TestRoleCheck_Rejects(t *testing.T) {
	ctx := context.Background()
	tokens := newTokens(t)
	svc := NewAuthService(tokens, logger.NewNop())
	now := time.Now()

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	wrongSecret := sign(jwt.SigningMethodHS256, []byte("other"), NewAccessClaim(admin(), now, time.Hour, uuid.NewString()))
	wrongAlg := sign(jwt.SigningMethodHS512, []byte(testSecret), NewAccessClaim(admin(), now, time.Hour, uuid.NewString()))

	refresh := NewAccessClaim(admin(), now, time.Hour, uuid.NewString())
	refresh.TokenType = "refresh"

	noSubject := NewAccessClaim(&models.User{Role: types.AdminRole}, now, time.Hour, uuid.NewString())

	noExp := NewAccessClaim(admin(), now, time.Hour, uuid.NewString())
	noExp.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-token", types.ErrInvalidToken},
		{"wrong secret", wrongSecret, types.ErrInvalidToken},
		{"wrong algorithm", wrongAlg, types.ErrInvalidToken},
		{"refresh token", sign(jwt.SigningMethodHS256, []byte(testSecret), refresh), types.ErrInvalidToken},
		{"no subject", sign(jwt.SigningMethodHS256, []byte(testSecret), noSubject), types.ErrInvalidToken},
		{"no expiry", sign(jwt.SigningMethodHS256, []byte(testSecret), noExp), types.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RoleCheck(ctx, tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRoleCheck_UnknownRole(t *testing.T) {
	ctx := context.Background()
	tokens := newTokens(t)

	token, err := tokens.Issue(ctx, &models.User{ID: uuid.NewString(), Role: "PASSENGER"})
	require.NoError(t, err)

	_, err = NewAuthService(tokens, logger.NewNop()).RoleCheck(ctx, token)
	assert.ErrorIs(t, err, types.ErrInsufficientRights)
	assert.ErrorIs(t, err, ErrUnknownRole)
}
