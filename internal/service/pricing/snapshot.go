package pricing

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/internal/service/fare"
	"github.com/Temutjin2k/delivery-fare/pkg/hasher"
)

// Snapshot is one consistent, immutable view of the pricing configuration.
// Everything is copied in on construction and copied out by the accessors.
type Snapshot struct {
	ranges   []models.RangeDefinition
	cities   map[types.City]models.CityRule
	surge    fare.SurgeRules
	rules    []models.SurgeRule
	version  string
	loadedAt time.Time
}

// snapshotDoc is the canonical form hashed into the version.
type snapshotDoc struct {
	Ranges    []models.RangeDefinition `json:"ranges"`
	CityRules []models.CityRule        `json:"cityRules"`
	Surge     map[string]float64       `json:"surge"`
}

func NewSnapshot(ranges []models.RangeDefinition, cityRules []models.CityRule, surgeRules []models.SurgeRule, loadedAt time.Time) (*Snapshot, error) {
	s := &Snapshot{
		ranges:   models.CloneRanges(ranges),
		cities:   make(map[types.City]models.CityRule, len(cityRules)),
		surge:    make(fare.SurgeRules, len(surgeRules)),
		rules:    slices.Clone(surgeRules),
		loadedAt: loadedAt,
	}
	for _, r := range cityRules {
		s.cities[r.City] = r
	}
	for _, r := range surgeRules {
		s.surge[r.ID] = r.Multiplier
	}
	slices.SortFunc(s.rules, func(a, b models.SurgeRule) int { return cmp.Compare(a.ID, b.ID) })

	version, err := hasher.SumJSON(snapshotDoc{
		Ranges:    s.ranges,
		CityRules: s.CityRules(),
		Surge:     s.surge,
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot version: %w", err)
	}
	s.version = hasher.Short(version, 16)

	return s, nil
}

func (s *Snapshot) Version() string            { return s.version }
func (s *Snapshot) LoadedAt() time.Time        { return s.loadedAt }
func (s *Snapshot) HasRanges() bool            { return len(s.ranges) > 0 }
func (s *Snapshot) Catalog() fare.SurgeCatalog { return s.surge }

func (s *Snapshot) Ranges() []models.RangeDefinition {
	return models.CloneRanges(s.ranges)
}

// CityRules returns the rules sorted by city.
func (s *Snapshot) CityRules() []models.CityRule {
	out := make([]models.CityRule, 0, len(s.cities))
	for _, r := range s.cities {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b models.CityRule) int { return cmp.Compare(a.City, b.City) })
	return out
}

func (s *Snapshot) CityRule(city types.City) (models.CityRule, bool) {
	r, ok := s.cities[city]
	return r, ok
}

// SurgeRules returns the catalog sorted by rule id.
func (s *Snapshot) SurgeRules() []models.SurgeRule {
	return slices.Clone(s.rules)
}

// Model builds the pricing model a trip of the given kind is evaluated with.
func (s *Snapshot) Model(kind types.PricingModelKind, city types.City) (models.PricingModel, error) {
	switch kind {
	case types.RangeModel:
		if !s.HasRanges() {
			return nil, types.ErrRangesNotConfigured
		}
		// the engine never mutates its input, no copy needed
		return models.RangeBased{Tiers: s.ranges}, nil
	case types.CityModel:
		rule, ok := s.cities[city]
		if !ok {
			return nil, fmt.Errorf("%w: %s", types.ErrCityRuleNotFound, city)
		}
		return models.CityFlat{Rule: rule}, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownPricingModel, kind)
	}
}
