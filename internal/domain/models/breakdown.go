package models

import (
	"encoding/json"
	"slices"

	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
)

// ComponentName is a stable line-item name of a FareBreakdown.
type ComponentName string

const (
	ComponentBaseFare        ComponentName = "baseFare"
	ComponentDistanceCharge  ComponentName = "distanceCharge"
	ComponentDurationCharge  ComponentName = "durationCharge"
	ComponentWaitingCharge   ComponentName = "waitingCharge"
	ComponentSurgeAdjustment ComponentName = "surgeAdjustment"
	ComponentPeakHourBonus   ComponentName = "peakHourBonus"
	ComponentRainBonus       ComponentName = "rainBonus"
	ComponentZoneBonus       ComponentName = "zoneBonus"
)

// FareComponent is one line item. Amount is in minor currency units.
type FareComponent struct {
	Name   ComponentName `json:"name"`
	Amount int64         `json:"amount"`
}

// FareBreakdown is the itemized result of one evaluation. It is built once by
// NewFareBreakdown and never changes; With* methods return modified copies.
type FareBreakdown struct {
	model         types.PricingModelKind
	currency      string
	components    []FareComponent
	total         int64
	multiplier    float64
	tierLimit     *float64
	city          types.City
	configVersion string
}

// BreakdownMeta carries the audit fields of a breakdown.
type BreakdownMeta struct {
	Model      types.PricingModelKind
	Currency   string
	Multiplier float64
	TierLimit  *float64
	City       types.City
}

// NewFareBreakdown copies components and sets Total to their exact sum.
func NewFareBreakdown(meta BreakdownMeta, components ...FareComponent) FareBreakdown {
	var total int64
	for _, c := range components {
		total += c.Amount
	}

	var limit *float64
	if meta.TierLimit != nil {
		l := *meta.TierLimit
		limit = &l
	}

	return FareBreakdown{
		model:      meta.Model,
		currency:   meta.Currency,
		components: slices.Clone(components),
		total:      total,
		multiplier: meta.Multiplier,
		tierLimit:  limit,
		city:       meta.City,
	}
}

func (b FareBreakdown) Model() types.PricingModelKind { return b.model }
func (b FareBreakdown) Currency() string              { return b.currency }
func (b FareBreakdown) Total() int64                  { return b.total }
func (b FareBreakdown) Multiplier() float64           { return b.multiplier }
func (b FareBreakdown) City() types.City              { return b.city }
func (b FareBreakdown) ConfigVersion() string         { return b.configVersion }

// TierLimit returns the distance limit of the selected tier; ok is false for
// the default tier and for city-rule fares.
func (b FareBreakdown) TierLimit() (limit float64, ok bool) {
	if b.tierLimit == nil {
		return 0, false
	}
	return *b.tierLimit, true
}

// Components returns a copy of the ordered line items.
func (b FareBreakdown) Components() []FareComponent {
	return slices.Clone(b.components)
}

// Amount returns the amount of the named component, 0 if absent.
func (b FareBreakdown) Amount(name ComponentName) int64 {
	for _, c := range b.components {
		if c.Name == name {
			return c.Amount
		}
	}
	return 0
}

// WithConfigVersion returns a copy stamped with the configuration fingerprint.
func (b FareBreakdown) WithConfigVersion(version string) FareBreakdown {
	b.configVersion = version
	return b
}

type breakdownJSON struct {
	Model         types.PricingModelKind `json:"model"`
	Currency      string                 `json:"currency"`
	Components    []FareComponent        `json:"components"`
	Total         int64                  `json:"total"`
	Multiplier    float64                `json:"multiplier,omitempty"`
	TierLimit     *float64               `json:"tierLimit,omitempty"`
	City          types.City             `json:"city,omitempty"`
	ConfigVersion string                 `json:"configVersion,omitempty"`
}

func (b FareBreakdown) MarshalJSON() ([]byte, error) {
	components := b.components
	if components == nil {
		components = []FareComponent{}
	}
	return json.Marshal(breakdownJSON{
		Model:         b.model,
		Currency:      b.currency,
		Components:    components,
		Total:         b.total,
		Multiplier:    b.multiplier,
		TierLimit:     b.tierLimit,
		City:          b.city,
		ConfigVersion: b.configVersion,
	})
}

// UnmarshalJSON rebuilds a breakdown; the total is recomputed from the
// components, a mismatching "total" in the payload is ignored.
func (b *FareBreakdown) UnmarshalJSON(data []byte) error {
	var raw breakdownJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = NewFareBreakdown(BreakdownMeta{
		Model:      raw.Model,
		Currency:   raw.Currency,
		Multiplier: raw.Multiplier,
		TierLimit:  raw.TierLimit,
		City:       raw.City,
	}, raw.Components...).WithConfigVersion(raw.ConfigVersion)
	return nil
}
