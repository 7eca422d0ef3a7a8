package fare

import (
	"strings"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/pkg/validator"
)

// SurgeCatalog resolves dynamic surge rule ids to multipliers. How the
// multiplier is computed upstream is not the engine's concern.
type SurgeCatalog interface {
	Lookup(ruleID string) (multiplier float64, ok bool)
}

// SurgeRules is a plain map catalog.
type SurgeRules map[string]float64

func (s SurgeRules) Lookup(ruleID string) (float64, bool) {
	m, ok := s[ruleID]
	return m, ok
}

// ResolveSurge returns the multiplier applied to a tier's subtotal.
// Static tiers use Base.Surge (0 means 1.0); dynamic tiers look the selected
// rule up in catalog. The result is always in [1, MaxMultiplier].
func ResolveSurge(tier models.RangeDefinition, catalog SurgeCatalog) (float64, error) {
	if !tier.Surge.Dynamic {
		if tier.Base.Surge == 0 {
			return 1, nil
		}
		return checkMultiplier(tier.Base.Surge, "")
	}

	ruleID := strings.TrimSpace(tier.Surge.SelectedRule)
	if catalog == nil {
		return 0, &ResolutionError{Err: ErrUnknownSurgeRule, RuleID: ruleID}
	}
	m, ok := catalog.Lookup(ruleID)
	if !ok {
		return 0, &ResolutionError{Err: ErrUnknownSurgeRule, RuleID: ruleID}
	}
	return checkMultiplier(m, ruleID)
}

func checkMultiplier(m float64, ruleID string) (float64, error) {
	if !validator.InRange(m, 1, MaxMultiplier) {
		return 0, &ResolutionError{Err: ErrInvalidMultiplier, RuleID: ruleID, Multiplier: m}
	}
	return m, nil
}
