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
	"github.com/Temutjin2k/delivery-fare/pkg/metrics"
	"github.com/Temutjin2k/delivery-fare/pkg/validator"
)

const (
	KindRanges     = "ranges"
	KindCityRules  = "city_rules"
	KindSurgeRules = "surge_rules"
)

var ErrInvalidSurgeRule = errors.New("invalid surge rule")

// Ranges returns the current tier list and the snapshot version.
func (s *Service) Ranges(ctx context.Context) ([]models.RangeDefinition, string, error) {
	snap, err := s.Current()
	if err != nil {
		return nil, "", wrap.Error(ctx, err)
	}
	return snap.Ranges(), snap.Version(), nil
}

func (s *Service) CityRules(ctx context.Context) ([]models.CityRule, string, error) {
	snap, err := s.Current()
	if err != nil {
		return nil, "", wrap.Error(ctx, err)
	}
	return snap.CityRules(), snap.Version(), nil
}

func (s *Service) SurgeRules(ctx context.Context) ([]models.SurgeRule, string, error) {
	snap, err := s.Current()
	if err != nil {
		return nil, "", wrap.Error(ctx, err)
	}
	return snap.SurgeRules(), snap.Version(), nil
}

// SaveRanges validates and replaces the whole tier list, then reloads.
// Validation failures are *fare.ConfigError and nothing is written.
func (s *Service) SaveRanges(ctx context.Context, ranges []models.RangeDefinition) (string, error) {
	ctx = wrap.WithAction(ctx, "save_ranges")

	snap, err := s.Current()
	if err != nil {
		return "", wrap.Error(ctx, err)
	}
	if err := fare.ValidateRanges(ranges, snap.Catalog()); err != nil {
		s.reject(ctx, KindRanges, err)
		return "", wrap.Error(ctx, err)
	}

	ranges = models.CloneRanges(ranges)
	if err := s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.repos.ranges.Replace(ctx, ranges); err != nil {
			return fmt.Errorf("%w: replace ranges: %w", types.ErrDatabaseFailed, err)
		}
		return nil
	}); err != nil {
		return "", wrap.Error(ctx, err)
	}

	return s.afterChange(ctx, KindRanges)
}

// SaveCityRules validates and replaces the whole city rule set, then reloads.
func (s *Service) SaveCityRules(ctx context.Context, rules []models.CityRule) (string, error) {
	ctx = wrap.WithAction(ctx, "save_city_rules")

	if err := fare.ValidateCityRules(rules); err != nil {
		s.reject(ctx, KindCityRules, err)
		return "", wrap.Error(ctx, err)
	}

	rules = models.CloneCityRules(rules)
	if err := s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.repos.cities.Replace(ctx, rules); err != nil {
			return fmt.Errorf("%w: replace city rules: %w", types.ErrDatabaseFailed, err)
		}
		return nil
	}); err != nil {
		return "", wrap.Error(ctx, err)
	}

	return s.afterChange(ctx, KindCityRules)
}

// UpsertSurgeRule stores a dynamic surge multiplier. Multipliers outside
// [1, fare.MaxMultiplier] are rejected with ErrInvalidSurgeRule.
func (s *Service) UpsertSurgeRule(ctx context.Context, rule models.SurgeRule) (string, error) {
	ctx = wrap.WithAction(ctx, types.ActionSurgeUpdated)

	rule.ID = strings.TrimSpace(rule.ID)
	if err := checkSurgeRule(rule); err != nil {
		metrics.RecordConfigRejection(KindSurgeRules, "InvalidMultiplier")
		return "", wrap.Error(ctx, err)
	}

	if err := s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.repos.surge.Upsert(ctx, rule); err != nil {
			return fmt.Errorf("%w: upsert surge rule: %w", types.ErrDatabaseFailed, err)
		}
		return nil
	}); err != nil {
		return "", wrap.Error(ctx, err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.l.Warn(ctx, "failed to invalidate surge cache", "error", err.Error())
		}
	}

	s.l.Info(ctx, "surge rule updated", "rule_id", rule.ID, "multiplier", rule.Multiplier)
	return s.afterChange(ctx, KindSurgeRules)
}

func checkSurgeRule(rule models.SurgeRule) error {
	if rule.ID == "" {
		return fmt.Errorf("%w: empty rule id", ErrInvalidSurgeRule)
	}
	if !validator.InRange(rule.Multiplier, 1, fare.MaxMultiplier) {
		return fmt.Errorf("%w: multiplier %v must be within [1, %v]", ErrInvalidSurgeRule, rule.Multiplier, fare.MaxMultiplier)
	}
	return nil
}

// afterChange reloads the snapshot and announces the new version. The write
// is already committed, so a failed announcement is only logged.
func (s *Service) afterChange(ctx context.Context, kind string) (string, error) {
	if err := s.Reload(ctx); err != nil {
		return "", err
	}
	snap, err := s.Current()
	if err != nil {
		return "", wrap.Error(ctx, err)
	}

	msg := models.ConfigChangedMessage{
		Kind:      kind,
		Version:   snap.Version(),
		ChangedAt: s.now().UTC(),
	}
	if u := models.UserFromContext(ctx); !u.IsAnonymous() {
		msg.ChangedBy = u.ID
	}

	if s.publisher != nil {
		if err := s.publisher.PublishConfigChanged(ctx, msg); err != nil {
			s.l.Error(ctx, "failed to announce configuration change", err, "kind", kind, "version", msg.Version)
		}
	}
	return snap.Version(), nil
}

func (s *Service) reject(ctx context.Context, kind string, err error) {
	reason := "unknown"
	var ce *fare.ConfigError
	if errors.As(err, &ce) {
		reason = ce.Code()
	}
	metrics.RecordConfigRejection(kind, reason)
	s.l.Warn(wrap.WithAction(ctx, types.ActionConfigRejected), "configuration rejected",
		"kind", kind,
		"reason", err.Error(),
	)
}
