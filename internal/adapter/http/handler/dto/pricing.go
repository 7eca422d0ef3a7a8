package dto

import (
	"fmt"
	"strings"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/internal/service/fare"
	"github.com/Temutjin2k/delivery-fare/pkg/validator"
)

type RangesRequest struct {
	Ranges []models.RangeDefinition `json:"ranges"`
}

// Validate checks only the request shape; tier semantics are checked by the
// fare validator and reported as 422 with the tier index.
func (r *RangesRequest) Validate(v *validator.Validator) {
	v.Check(r.Ranges != nil, "ranges", "must be provided")
	v.Check(len(r.Ranges) <= 64, "ranges", "must not contain more than 64 tiers")
}

type CityRulesRequest struct {
	Rules []models.CityRule `json:"rules"`
}

func (r *CityRulesRequest) Validate(v *validator.Validator) {
	v.Check(r.Rules != nil, "rules", "must be provided")
}

type SurgeRuleRequest struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

func (r *SurgeRuleRequest) Validate(v *validator.Validator) {
	v.Check(len(r.Name) <= 100, "name", "must not be more than 100 characters long")
	v.Check(validator.InRange(r.Multiplier, 1, fare.MaxMultiplier), "multiplier", fmt.Sprintf("must be between 1 and %d", fare.MaxMultiplier))
}

func (r *SurgeRuleRequest) ToModel(ruleID string) models.SurgeRule {
	return models.SurgeRule{
		ID:         strings.TrimSpace(ruleID),
		Name:       r.Name,
		Multiplier: r.Multiplier,
	}
}

type QuoteRequest struct {
	Model   types.PricingModelKind `json:"pricing_model"`
	City    types.City             `json:"city,omitempty"`
	Metrics models.TripMetrics     `json:"metrics"`
}

// для расчёта стоимости
func (r *QuoteRequest) Validate(v *validator.Validator) {
	v.Check(r.Model != "", "pricing_model", "must be provided")
	if r.Model != "" {
		v.Check(validator.PermittedValue(r.Model, types.RangeModel, types.CityModel), "pricing_model", "must be one of RANGE or CITY")
	}

	if r.Model == types.CityModel {
		v.Check(r.City != "", "city", "must be provided for CITY pricing")
		if r.City != "" {
			v.Check(validator.PermittedValue(r.City, types.SupportedCities()...), "city", fmt.Sprintf("must be one of %v", types.SupportedCities()))
		}
	}

	v.Check(validator.InRange(r.Metrics.DistanceKm, 0, fare.MaxQuantity), "metrics.distanceKm", fmt.Sprintf("must be between 0 and %.0f", fare.MaxQuantity))
	v.Check(validator.InRange(r.Metrics.DurationMin, 0, fare.MaxQuantity), "metrics.durationMin", fmt.Sprintf("must be between 0 and %.0f", fare.MaxQuantity))
	v.Check(validator.InRange(r.Metrics.WaitingMin, 0, fare.MaxQuantity), "metrics.waitingMin", fmt.Sprintf("must be between 0 and %.0f", fare.MaxQuantity))
}

type ConfigResponse[T any] struct {
	Items   []T    `json:"items"`
	Version string `json:"version"`
}

type SavedResponse struct {
	Version string `json:"version"`
	Message string `json:"message"`
}

// ConfigErrorResponse is returned with 422 when a configuration is rejected.
type ConfigErrorResponse struct {
	Error string     `json:"error"`
	Code  string     `json:"code"`
	Index *int       `json:"index,omitempty"`
	City  types.City `json:"city,omitempty"`
	Field string     `json:"field,omitempty"`
}
