package models

import (
	"context"

	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
)

// User is the caller identity extracted from a verified access token.
type User struct {
	ID    string         `json:"id"`
	Email string         `json:"email,omitempty"`
	Role  types.UserRole `json:"role"`
}

type userCtxKey struct{}

var anonymous = &User{}

func AnonymousUser() *User {
	return anonymous
}

func (u *User) IsAnonymous() bool {
	return u == nil || u == anonymous || u.ID == ""
}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext returns the user stored by the auth middleware, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}
