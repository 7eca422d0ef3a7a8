package pricing

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/internal/service/fare"
	"github.com/Temutjin2k/delivery-fare/pkg/logger"
	wrap "github.com/Temutjin2k/delivery-fare/pkg/logger/wrapper"
	"github.com/Temutjin2k/delivery-fare/pkg/metrics"
	"github.com/Temutjin2k/delivery-fare/pkg/trm"
)

/*
Service hosts the fare engine: it owns the current configuration snapshot,
persists configuration changes, and prices trips against the snapshot.
*/
type Service struct {
	engine    *fare.Engine
	repos     repos
	cache     SurgeCache
	publisher Publisher
	feed      FareFeed
	trm       trm.TxManager
	l         logger.Logger

	snapshot atomic.Pointer[Snapshot]
	now      func() time.Time
}

type repos struct {
	ranges RangeRepo
	cities CityRuleRepo
	surge  SurgeRuleRepo
	audit  FareAuditRepo
}

// New returns a new instance of the pricing service with all dependencies injected.
// The snapshot is empty until the first Reload.
func New(engine *fare.Engine, rangeRepo RangeRepo, cityRepo CityRuleRepo, surgeRepo SurgeRuleRepo, auditRepo FareAuditRepo, cache SurgeCache, publisher Publisher, trm trm.TxManager, l logger.Logger) *Service {
	return &Service{
		engine: engine,
		repos: repos{
			ranges: rangeRepo,
			cities: cityRepo,
			surge:  surgeRepo,
			audit:  auditRepo,
		},
		cache:     cache,
		publisher: publisher,
		trm:       trm,
		l:         l,
		now:       time.Now,
	}
}

// WithFeed attaches the live fare feed used by HandleFareCalculated.
func (s *Service) WithFeed(feed FareFeed) *Service {
	s.feed = feed
	return s
}

// Current returns the snapshot evaluations run against.
func (s *Service) Current() (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, types.ErrSnapshotNotLoaded
	}
	return snap, nil
}

// Reload reads the whole configuration in one read-only transaction and
// swaps the snapshot. A stored tier list that no longer validates keeps the
// previous snapshot in place.
func (s *Service) Reload(ctx context.Context) (err error) {
	ctx = wrap.WithAction(ctx, types.ActionConfigReload)
	defer func() { metrics.RecordReload(err) }()

	var (
		ranges []models.RangeDefinition
		cities []models.CityRule
		surge  []models.SurgeRule
	)
	err = s.trm.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		if ranges, err = s.repos.ranges.List(ctx); err != nil {
			return fmt.Errorf("%w: list ranges: %w", types.ErrDatabaseFailed, err)
		}
		if cities, err = s.repos.cities.List(ctx); err != nil {
			return fmt.Errorf("%w: list city rules: %w", types.ErrDatabaseFailed, err)
		}
		if surge, err = s.loadSurgeRules(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return wrap.Error(ctx, err)
	}

	if err := s.validateStored(ranges, cities, surge); err != nil {
		s.l.Error(ctx, "stored pricing configuration is invalid, keeping previous snapshot", err)
		return wrap.Error(ctx, err)
	}

	snap, err := NewSnapshot(ranges, cities, surge, s.now())
	if err != nil {
		return wrap.Error(ctx, err)
	}

	prev := s.snapshot.Swap(snap)
	if prev == nil || prev.Version() != snap.Version() {
		s.l.Info(ctx, "pricing snapshot loaded",
			"version", snap.Version(),
			"tiers", len(ranges),
			"city_rules", len(cities),
			"surge_rules", len(surge),
			"loaded_at", snap.LoadedAt(),
		)
	}
	return nil
}

func (s *Service) validateStored(ranges []models.RangeDefinition, cities []models.CityRule, surge []models.SurgeRule) error {
	// an empty tier list only disables the range model
	if len(ranges) > 0 {
		if err := fare.ValidateRanges(ranges, catalogOf(surge)); err != nil {
			return err
		}
	}
	return fare.ValidateCityRules(cities)
}

// loadSurgeRules reads the surge catalog from the cache, falling back to the
// repository and refilling the cache on a miss.
func (s *Service) loadSurgeRules(ctx context.Context) ([]models.SurgeRule, error) {
	if s.cache != nil {
		rules, ok, err := s.cache.Load(ctx)
		switch {
		case err != nil:
			s.l.Warn(ctx, "surge cache unavailable, reading from database", "error", err.Error())
		case ok:
			metrics.RecordSurgeCacheLookup(true)
			return rules, nil
		default:
			metrics.RecordSurgeCacheLookup(false)
		}
	}

	rules, err := s.repos.surge.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list surge rules: %w", types.ErrDatabaseFailed, err)
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, rules); err != nil {
			s.l.Warn(ctx, "failed to refill surge cache", "error", err.Error())
		}
	}
	return rules, nil
}

// Run reloads the snapshot every interval until ctx is done.
func (s *Service) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Reload(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.l.Error(wrap.ErrorCtx(ctx, err), "periodic reload failed", err)
			}
		}
	}
}

/*======================== Quotes ===============================*/

// QuoteRequest selects the model and supplies the trip to price.
type QuoteRequest struct {
	Model   types.PricingModelKind
	City    types.City
	Metrics models.TripMetrics
}

// Quote prices a trip against the current snapshot. The breakdown is stamped
// with the snapshot version it was computed from.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (models.FareBreakdown, error) {
	snap, err := s.Current()
	if err != nil {
		return models.FareBreakdown{}, wrap.Error(ctx, err)
	}

	model, err := snap.Model(req.Model, req.City)
	if err != nil {
		return models.FareBreakdown{}, wrap.Error(ctx, err)
	}

	breakdown, err := s.engine.Evaluate(model, req.Metrics, snap.Catalog())
	if fare.IsResolutionError(err) {
		// the surge catalog is stale: fetch a fresh one and price once more
		s.l.Warn(ctx, "surge resolution failed, refreshing catalog", "version", snap.Version(), "error", err.Error())
		if fresh, freshModel, rerr := s.refreshFor(ctx, req); rerr != nil {
			s.l.Warn(ctx, "catalog refresh did not help", "error", rerr.Error())
		} else {
			snap = fresh
			breakdown, err = s.engine.Evaluate(freshModel, req.Metrics, snap.Catalog())
		}
	}
	metrics.RecordFareEvaluation(req.Model.String(), breakdown.Total(), err)
	if err != nil {
		if fare.IsResolutionError(err) || fare.IsConfigError(err) {
			// validated snapshots never get here
			s.l.Error(wrap.WithAction(ctx, types.ActionResolutionFailed), "fare evaluation failed on loaded snapshot", err,
				"version", snap.Version(),
				"model", req.Model.String(),
			)
		}
		return models.FareBreakdown{}, wrap.Error(ctx, err)
	}

	breakdown = breakdown.WithConfigVersion(snap.Version())
	s.l.Debug(wrap.WithAction(ctx, types.ActionFareEvaluated), "fare evaluated",
		"model", req.Model.String(),
		"total", breakdown.Total(),
		"version", snap.Version(),
	)
	return breakdown, nil
}

// refreshFor drops the cached surge catalog, reloads the snapshot and looks
// the requested model up again.
func (s *Service) refreshFor(ctx context.Context, req QuoteRequest) (*Snapshot, models.PricingModel, error) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.l.Warn(ctx, "failed to invalidate surge cache", "error", err.Error())
		}
	}
	if err := s.Reload(ctx); err != nil {
		return nil, nil, err
	}
	snap, err := s.Current()
	if err != nil {
		return nil, nil, err
	}
	model, err := snap.Model(req.Model, req.City)
	if err != nil {
		return nil, nil, err
	}
	return snap, model, nil
}

// TripFare returns the audited breakdown of an already priced trip.
func (s *Service) TripFare(ctx context.Context, tripID string) (models.FareBreakdown, error) {
	ctx = wrap.WithTripID(ctx, tripID)

	b, err := s.repos.audit.Get(ctx, tripID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return models.FareBreakdown{}, err
		}
		return models.FareBreakdown{}, wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrDatabaseFailed, err))
	}
	return b, nil
}

func catalogOf(rules []models.SurgeRule) fare.SurgeRules {
	out := make(fare.SurgeRules, len(rules))
	for _, r := range rules {
		out[r.ID] = r.Multiplier
	}
	return out
}
