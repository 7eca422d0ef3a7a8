package auth

import "errors"

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpToken       = errors.New("expired token")
	ErrUnknownRole    = errors.New("unknown role")
	ErrEmptySecret    = errors.New("jwt secret is empty")
	ErrTokenSignFail  = errors.New("failed to sign token")
	ErrMissingSubject = errors.New("token has no subject")
)
