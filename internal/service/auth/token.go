package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	wrap "github.com/Temutjin2k/delivery-fare/pkg/logger/wrapper"
	"github.com/Temutjin2k/delivery-fare/pkg/uuid"
)

const AccessToken = "access"

// Claims are the access token claims the fare service relies on.
// Tokens are issued by the identity service; this package only checks them.
type Claims struct {
	TokenType string         `json:"typ"`
	Email     string         `json:"email,omitempty"`
	Role      types.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret    []byte
	AccessTTL time.Duration
	now       func() time.Time
}

func NewTokenService(secret string, accessTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &TokenService{
		secret:    []byte(secret),
		AccessTTL: accessTTL,
		now:       time.Now,
	}, nil
}

// Validate parses an HS256 access token and returns its claims.
func (s *TokenService) Validate(ctx context.Context, token string) (*Claims, error) {
	ctx = wrap.WithAction(ctx, "validate_token")

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, wrap.Error(ctx, ErrExpToken)
		}
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %w", ErrInvalidToken, err))
	}
	if !parsed.Valid || claims.TokenType != AccessToken {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	if claims.Subject == "" {
		return nil, wrap.Error(ctx, ErrMissingSubject)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: subject: %w", ErrInvalidToken, err))
	}

	return claims, nil
}

// Issue signs an access token for user. Used for service-to-service
// credentials and in tests.
func (s *TokenService) Issue(ctx context.Context, user *models.User) (string, error) {
	ctx = wrap.WithAction(ctx, "issue_token")
	if user == nil {
		return "", wrap.Error(ctx, errors.New("user is nil"))
	}

	issuedAt := s.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, NewAccessClaim(user, issuedAt, s.AccessTTL, uuid.NewString()))

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", wrap.Error(ctx, fmt.Errorf("%w: %w", ErrTokenSignFail, err))
	}
	return signed, nil
}

func NewAccessClaim(user *models.User, issuedAt time.Time, accessTTL time.Duration, tokenID string) *Claims {
	return &Claims{
		TokenType: AccessToken,
		Email:     user.Email,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(accessTTL)),
		},
	}
}
