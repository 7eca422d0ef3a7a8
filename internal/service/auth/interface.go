package auth

import (
	"context"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
)

type TokenValidator interface {
	Validate(ctx context.Context, token string) (*Claims, error)
}

type TokenIssuer interface {
	Issue(ctx context.Context, user *models.User) (string, error)
}
