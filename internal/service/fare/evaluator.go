package fare

import (
	"fmt"
	"math"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/pkg/validator"
)

const minorPerMajor = 100

// Input bounds. With them every component stays far below the int64 range of
// minor units, so the breakdown never wraps.
const (
	MaxQuantity   = 1e6 // km or minutes: trip metrics and distance limits
	MaxRate       = 1e6 // major units: fees, bonuses and included allowances
	MaxMultiplier = 100
)

// Engine evaluates trips against a pricing model. It holds only immutable
// settings and is safe for concurrent use.
type Engine struct {
	currency string
}

func NewEngine(currency string) *Engine {
	return &Engine{currency: currency}
}

// Evaluate runs the whole chain for one trip: validate the model, select the
// tier, resolve its surge multiplier and compute the breakdown.
func (e *Engine) Evaluate(model models.PricingModel, metrics models.TripMetrics, catalog SurgeCatalog) (models.FareBreakdown, error) {
	if err := checkMetrics(metrics); err != nil {
		return models.FareBreakdown{}, err
	}

	switch m := model.(type) {
	case models.RangeBased:
		// surge references are resolved below, against the catalog at hand
		if err := ValidateRanges(m.Tiers, nil); err != nil {
			return models.FareBreakdown{}, err
		}
		tier, err := SelectTier(m.Tiers, metrics.DistanceKm)
		if err != nil {
			return models.FareBreakdown{}, err
		}
		multiplier, err := ResolveSurge(tier, catalog)
		if err != nil {
			return models.FareBreakdown{}, err
		}
		return e.EvaluateRange(tier, metrics, multiplier), nil

	case models.CityFlat:
		if err := ValidateCityRules([]models.CityRule{m.Rule}); err != nil {
			return models.FareBreakdown{}, err
		}
		return e.EvaluateCity(m.Rule, metrics), nil

	case nil:
		return models.FareBreakdown{}, types.ErrUnknownPricingModel
	default:
		return models.FareBreakdown{}, fmt.Errorf("%w: %T", types.ErrUnknownPricingModel, model)
	}
}

// EvaluateRange prices a trip with an already selected tier and multiplier.
// Every allowance is clamped at zero, so a short trip is never credited.
func (e *Engine) EvaluateRange(tier models.RangeDefinition, metrics models.TripMetrics, multiplier float64) models.FareBreakdown {
	base := toMinor(tier.Base.Fare)
	distance := toMinor(excess(metrics.DistanceKm, tier.Distance.BaseDistance) * tier.Distance.Fare)
	duration := toMinor(excess(metrics.DurationMin, tier.Duration.BaseDuration) * tier.Duration.Charge)
	waiting := toMinor(excess(metrics.WaitingMin, tier.WaitingTime.BaseWaiting) * tier.WaitingTime.Fare)

	subtotal := base + distance + duration + waiting
	surge := int64(math.Round(float64(subtotal) * (multiplier - 1)))

	return models.NewFareBreakdown(models.BreakdownMeta{
		Model:      types.RangeModel,
		Currency:   e.currency,
		Multiplier: multiplier,
		TierLimit:  tier.DistanceLimit,
	},
		models.FareComponent{Name: models.ComponentBaseFare, Amount: base},
		models.FareComponent{Name: models.ComponentDistanceCharge, Amount: distance},
		models.FareComponent{Name: models.ComponentDurationCharge, Amount: duration},
		models.FareComponent{Name: models.ComponentWaitingCharge, Amount: waiting},
		models.FareComponent{Name: models.ComponentSurgeAdjustment, Amount: surge},
	)
}

// EvaluateCity prices a trip with a flat city rule. Bonuses apply only when
// the matching context flag is set.
func (e *Engine) EvaluateCity(rule models.CityRule, metrics models.TripMetrics) models.FareBreakdown {
	var peak, rain, zone int64
	if metrics.IsPeakHour {
		peak = toMinor(rule.PeakHourBonus)
	}
	if metrics.IsRaining {
		rain = toMinor(rule.RainBonus)
	}
	if metrics.IsSurgeZone {
		zone = toMinor(rule.ZoneBonus)
	}

	return models.NewFareBreakdown(models.BreakdownMeta{
		Model:      types.CityModel,
		Currency:   e.currency,
		Multiplier: 1,
		City:       rule.City,
	},
		models.FareComponent{Name: models.ComponentBaseFare, Amount: toMinor(rule.BaseFee)},
		models.FareComponent{Name: models.ComponentDistanceCharge, Amount: toMinor(excess(metrics.DistanceKm, rule.BaseDistance) * rule.PerKmFee)},
		models.FareComponent{Name: models.ComponentPeakHourBonus, Amount: peak},
		models.FareComponent{Name: models.ComponentRainBonus, Amount: rain},
		models.FareComponent{Name: models.ComponentZoneBonus, Amount: zone},
	)
}

func checkMetrics(m models.TripMetrics) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"distanceKm", m.DistanceKm},
		{"durationMin", m.DurationMin},
		{"waitingMin", m.WaitingMin},
	}
	for _, f := range fields {
		if !validator.InRange(f.value, 0, MaxQuantity) {
			return fmt.Errorf("%w: %s=%v", ErrInvalidMetrics, f.name, f.value)
		}
	}
	return nil
}

// excess is the part of used above the included allowance, never negative.
func excess(used, included float64) float64 {
	return max(0, used-included)
}

// toMinor converts major units to minor units, rounding half away from zero.
func toMinor(major float64) int64 {
	return int64(math.Round(major * minorPerMajor))
}

// ToMajor converts a minor-unit amount back to major units for display.
func ToMajor(minor int64) float64 {
	return float64(minor) / minorPerMajor
}
