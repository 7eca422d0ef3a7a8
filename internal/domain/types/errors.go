package types

import "errors"

var (
	ErrNotFound            = errors.New("requested item not found")
	ErrCityRuleNotFound    = errors.New("city rule not found")
	ErrSurgeRuleNotFound   = errors.New("surge rule not found")
	ErrUnknownPricingModel = errors.New("unknown pricing model")
	ErrSnapshotNotLoaded   = errors.New("pricing configuration not loaded")
	ErrRangesNotConfigured = errors.New("range tiers are not configured")
	ErrInvalidMessage      = errors.New("invalid message")

	ErrDatabaseFailed      = errors.New("database operation failed")
	ErrConstraintViolation = errors.New("rejected by database constraint")
	ErrFailedToPublish     = errors.New("failed to publish message")
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token expired")
	ErrInsufficientRights  = errors.New("insufficient role")
)
