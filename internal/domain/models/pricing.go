package models

import (
	"slices"

	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
)

// RangeDefinition is one distance tier of a range-based tariff.
// DistanceLimit == nil marks the default (catch-all) tier.
type RangeDefinition struct {
	DistanceLimit *float64    `json:"distanceLimit"`
	Base          BaseFare    `json:"base"`
	Duration      DurationFee `json:"duration"`
	Distance      DistanceFee `json:"distance"`
	WaitingTime   WaitingFee  `json:"waitingTime"`
	Surge         SurgeSpec   `json:"surge"`
}

type BaseFare struct {
	Fare  float64 `json:"fare"`
	Surge float64 `json:"surge"` // static multiplier, ignored when Surge.Dynamic
}

type DurationFee struct {
	Charge       float64 `json:"charge"`       // per minute
	BaseDuration float64 `json:"baseDuration"` // minutes included
}

type DistanceFee struct {
	Fare         float64 `json:"fare"`         // per km
	BaseDistance float64 `json:"baseDistance"` // km included
}

type WaitingFee struct {
	Fare        float64 `json:"fare"`        // per minute
	BaseWaiting float64 `json:"baseWaiting"` // minutes included
}

type SurgeSpec struct {
	Dynamic      bool   `json:"dynamic"`
	SelectedRule string `json:"selectedRule,omitempty"`
}

// IsDefault reports whether the tier is the catch-all tier.
func (r RangeDefinition) IsDefault() bool {
	return r.DistanceLimit == nil
}

// Clone returns a deep copy of the tier.
func (r RangeDefinition) Clone() RangeDefinition {
	if r.DistanceLimit != nil {
		limit := *r.DistanceLimit
		r.DistanceLimit = &limit
	}
	return r
}

// CloneRanges deep-copies a tier list so the copy shares no memory with ranges.
func CloneRanges(ranges []RangeDefinition) []RangeDefinition {
	if ranges == nil {
		return nil
	}
	out := make([]RangeDefinition, len(ranges))
	for i, r := range ranges {
		out[i] = r.Clone()
	}
	return out
}

// Limit is a convenience constructor for DistanceLimit values.
func Limit(km float64) *float64 {
	return &km
}

// CityRule is a flat per-city fee schedule with contextual bonuses.
type CityRule struct {
	City          types.City `json:"city"`
	BaseFee       float64    `json:"baseFee"`
	BaseDistance  float64    `json:"baseDistance"`
	PerKmFee      float64    `json:"perKmFee"`
	PeakHourBonus float64    `json:"peakHourBonus"`
	RainBonus     float64    `json:"rainBonus"`
	ZoneBonus     float64    `json:"zoneBonus"`
}

func CloneCityRules(rules []CityRule) []CityRule {
	return slices.Clone(rules)
}

// TripMetrics is the observed trip data priced by the engine.
type TripMetrics struct {
	DistanceKm  float64 `json:"distanceKm"`
	DurationMin float64 `json:"durationMin"`
	WaitingMin  float64 `json:"waitingMin"`

	IsPeakHour  bool `json:"isPeakHour"`
	IsRaining   bool `json:"isRaining"`
	IsSurgeZone bool `json:"isSurgeZone"`
}

// SurgeRule is one entry of the dynamic surge catalog.
type SurgeRule struct {
	ID         string  `json:"id"`
	Name       string  `json:"name,omitempty"`
	Multiplier float64 `json:"multiplier"`
}

// PricingModel is either RangeBased or CityFlat.
type PricingModel interface {
	Kind() types.PricingModelKind
	pricingModel()
}

type RangeBased struct {
	Tiers []RangeDefinition
}

type CityFlat struct {
	Rule CityRule
}

func (RangeBased) Kind() types.PricingModelKind { return types.RangeModel }
func (CityFlat) Kind() types.PricingModelKind   { return types.CityModel }

func (RangeBased) pricingModel() {}
func (CityFlat) pricingModel()   {}
