package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/pkg/logger"
)

type AuthService struct {
	tokens TokenValidator
	log    logger.Logger
}

func NewAuthService(tokens TokenValidator, log logger.Logger) *AuthService {
	return &AuthService{
		tokens: tokens,
		log:    log,
	}
}

// RoleCheck validates the token and returns the caller it was issued for.
func (s *AuthService) RoleCheck(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Validate(ctx, token)
	if err != nil {
		s.log.Warn(ctx, "access token rejected", "error", err.Error())
		if errors.Is(err, ErrExpToken) {
			return nil, types.ErrExpiredToken
		}
		return nil, types.ErrInvalidToken
	}

	switch claims.Role {
	case types.AdminRole, types.ServiceRole:
	default:
		return nil, fmt.Errorf("%w: %w: %q", types.ErrInsufficientRights, ErrUnknownRole, claims.Role)
	}

	return &models.User{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
