package rabbit

import (
	"context"
	"errors"
	"time"

	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
)

type outcome int

const (
	ack outcome = iota
	requeue
	drop
)

func (o outcome) String() string {
	switch o {
	case ack:
		return "ack"
	case requeue:
		return "requeue"
	default:
		return "drop"
	}
}

// settle decides what happens to a delivery after its handler returned err.
// Only infrastructure failures are retried; anything else would fail the
// same way on redelivery.
func settle(err error) outcome {
	switch {
	case err == nil:
		return ack
	case errors.Is(err, types.ErrConstraintViolation):
		return drop
	case isRecoverableError(err):
		return requeue
	default:
		return drop
	}
}

// isRecoverableError returns true if the provided error must be requeued
func isRecoverableError(err error) bool {
	return oneOf(err, types.ErrDatabaseFailed, types.ErrFailedToPublish, types.ErrSnapshotNotLoaded, context.DeadlineExceeded)
}

func oneOf(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func retry(ctx context.Context, n int, sleep time.Duration, fn func() error) error {
	var err error
	for i := range n {
		if err = fn(); err == nil {
			return nil
		}
		if i == n-1 {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(sleep):
		}
	}
	return err
}
