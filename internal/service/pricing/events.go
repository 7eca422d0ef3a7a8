package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/internal/service/fare"
	wrap "github.com/Temutjin2k/delivery-fare/pkg/logger/wrapper"
)

const FeedFareCalculated = "fare.calculated"

// HandleTripCompleted prices a finished trip, records it in the fare audit log
// and publishes the breakdown. Redelivered trips are acknowledged without a
// second publication.
func (s *Service) HandleTripCompleted(ctx context.Context, msg models.TripCompletedMessage) error {
	ctx = wrap.WithAction(wrap.WithRequestID(wrap.WithTripID(ctx, msg.TripID), msg.CorrelationID), "handle_trip_completed")

	if strings.TrimSpace(msg.TripID) == "" {
		return wrap.Error(ctx, fmt.Errorf("%w: empty trip id", types.ErrInvalidMessage))
	}

	breakdown, err := s.Quote(ctx, QuoteRequest{
		Model:   msg.Model,
		City:    msg.City,
		Metrics: msg.Metrics,
	})
	if err != nil {
		return err
	}

	var created bool
	err = s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		if created, err = s.repos.audit.Save(ctx, msg.TripID, breakdown); err != nil {
			return fmt.Errorf("%w: save fare: %w", types.ErrDatabaseFailed, err)
		}
		if !created {
			return nil
		}

		// published inside the transaction: a failed publish rolls the audit
		// row back and the redelivery prices the trip again
		if err := s.publisher.PublishFareCalculated(ctx, models.FareCalculatedMessage{
			TripID:       msg.TripID,
			Breakdown:    breakdown,
			CalculatedAt: s.now().UTC(),
		}); err != nil {
			return fmt.Errorf("%w: %w", types.ErrFailedToPublish, err)
		}
		return nil
	})
	if err != nil {
		return wrap.Error(ctx, err)
	}

	if !created {
		s.l.Info(ctx, "trip already priced, skipping")
		return nil
	}

	s.l.Info(ctx, "trip priced", "total", fare.ToMajor(breakdown.Total()), "currency", breakdown.Currency(), "version", breakdown.ConfigVersion())
	return nil
}

// HandleSurgeUpdate applies a multiplier pushed by the surge provider.
func (s *Service) HandleSurgeUpdate(ctx context.Context, msg models.SurgeUpdateMessage) error {
	_, err := s.UpsertSurgeRule(ctx, models.SurgeRule{
		ID:         msg.RuleID,
		Name:       msg.Name,
		Multiplier: msg.Multiplier,
	})
	if errors.Is(err, ErrInvalidSurgeRule) {
		return fmt.Errorf("%w: %w", types.ErrInvalidMessage, err)
	}
	return err
}

// HandleConfigChanged reloads when another instance announced a version this
// one has not loaded yet.
func (s *Service) HandleConfigChanged(ctx context.Context, msg models.ConfigChangedMessage) error {
	if snap, err := s.Current(); err == nil && snap.Version() == msg.Version {
		return nil
	}
	s.l.Debug(ctx, "configuration changed elsewhere, reloading", "kind", msg.Kind, "version", msg.Version)
	return s.Reload(ctx)
}

// HandleFareCalculated forwards a computed fare to live feed subscribers.
func (s *Service) HandleFareCalculated(ctx context.Context, msg models.FareCalculatedMessage) error {
	if s.feed == nil {
		return nil
	}
	n := s.feed.Broadcast(ctx, models.FareFeedMessage{
		Type:      FeedFareCalculated,
		TripID:    msg.TripID,
		Breakdown: msg.Breakdown,
	})
	s.l.Debug(wrap.WithTripID(ctx, msg.TripID), "fare pushed to feed", "subscribers", n)
	return nil
}
