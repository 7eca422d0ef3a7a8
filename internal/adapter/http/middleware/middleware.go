package middleware

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/pkg/logger"
)

// AuthService resolves a bearer token to the calling user.
type AuthService interface {
	RoleCheck(ctx context.Context, token string) (*models.User, error)
}

// Middleware holds what the HTTP middlewares share: token checks, the
// logger and the service label used in metrics.
type Middleware struct {
	auth    AuthService
	log     logger.Logger
	service string
}

func NewMiddleware(auth AuthService, log logger.Logger, service string) *Middleware {
	return &Middleware{
		auth:    auth,
		log:     log,
		service: service,
	}
}

// Chain wraps next in the full request pipeline, outermost first:
// Recover, RequestID, Logging, Metrics, Auth.
func (m *Middleware) Chain(next http.Handler) http.Handler {
	return m.Recover(m.RequestID(m.Logging(m.Metrics(m.Auth(next)))))
}
