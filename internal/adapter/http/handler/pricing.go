package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/Temutjin2k/delivery-fare/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/delivery-fare/internal/adapter/http/response"
	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/service/pricing"
	"github.com/Temutjin2k/delivery-fare/pkg/logger"
	wrap "github.com/Temutjin2k/delivery-fare/pkg/logger/wrapper"
	"github.com/Temutjin2k/delivery-fare/pkg/validator"
)

type PricingService interface {
	Ranges(ctx context.Context) ([]models.RangeDefinition, string, error)
	SaveRanges(ctx context.Context, ranges []models.RangeDefinition) (string, error)
	CityRules(ctx context.Context) ([]models.CityRule, string, error)
	SaveCityRules(ctx context.Context, rules []models.CityRule) (string, error)
	SurgeRules(ctx context.Context) ([]models.SurgeRule, string, error)
	UpsertSurgeRule(ctx context.Context, rule models.SurgeRule) (string, error)
	Quote(ctx context.Context, req pricing.QuoteRequest) (models.FareBreakdown, error)
	TripFare(ctx context.Context, tripID string) (models.FareBreakdown, error)
}

type Pricing struct {
	service PricingService
	l       logger.Logger
}

func NewPricing(service PricingService, l logger.Logger) *Pricing {
	return &Pricing{
		service: service,
		l:       l,
	}
}

// GetRanges godoc
// @Summary      Get range tiers
// @Description  Returns the distance tiers of the RANGE pricing model and the configuration version
// @Tags         Pricing
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /pricing/ranges [get]
func (h *Pricing) GetRanges(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_ranges")

	ranges, version, err := h.service.Ranges(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to get ranges", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, dto.ConfigResponse[models.RangeDefinition]{Items: nonNil(ranges), Version: version})
}

// SaveRanges godoc
// @Summary      Replace range tiers
// @Description  Validates and replaces the whole tier list. A rejected list is reported with the failure code and tier index.
// @Tags         Pricing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.RangesRequest  true  "Tier list"
// @Success      200      {object}  dto.SavedResponse
// @Failure      400      {object}  map[string]string
// @Failure      422      {object}  dto.ConfigErrorResponse
// @Router       /pricing/ranges [put]
func (h *Pricing) SaveRanges(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "save_ranges")

	var req dto.RangesRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	version, err := h.service.SaveRanges(ctx, req.Ranges)
	if err != nil {
		h.fail(ctx, w, "failed to save ranges", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, dto.SavedResponse{Version: version, Message: "ranges saved"})
}

// GetCityRules godoc
// @Summary      Get city rules
// @Tags         Pricing
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /pricing/city-rules [get]
func (h *Pricing) GetCityRules(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_city_rules")

	rules, version, err := h.service.CityRules(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to get city rules", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, dto.ConfigResponse[models.CityRule]{Items: nonNil(rules), Version: version})
}

// SaveCityRules godoc
// @Summary      Replace city rules
// @Tags         Pricing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.CityRulesRequest  true  "City rules"
// @Success      200      {object}  dto.SavedResponse
// @Failure      422      {object}  dto.ConfigErrorResponse
// @Router       /pricing/city-rules [put]
func (h *Pricing) SaveCityRules(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "save_city_rules")

	var req dto.CityRulesRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	version, err := h.service.SaveCityRules(ctx, req.Rules)
	if err != nil {
		h.fail(ctx, w, "failed to save city rules", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, dto.SavedResponse{Version: version, Message: "city rules saved"})
}

// GetSurgeRules godoc
// @Summary      Get surge catalog
// @Tags         Pricing
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /pricing/surge-rules [get]
func (h *Pricing) GetSurgeRules(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_surge_rules")

	rules, version, err := h.service.SurgeRules(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to get surge rules", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, dto.ConfigResponse[models.SurgeRule]{Items: nonNil(rules), Version: version})
}

// PutSurgeRule godoc
// @Summary      Upsert a dynamic surge rule
// @Tags         Pricing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        rule_id  path      string                true  "Surge rule ID"
// @Param        request  body      dto.SurgeRuleRequest  true  "Multiplier"
// @Success      200      {object}  dto.SavedResponse
// @Failure      422      {object}  map[string]string
// @Router       /pricing/surge-rules/{rule_id} [put]
func (h *Pricing) PutSurgeRule(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "put_surge_rule")

	ruleID := strings.TrimSpace(r.PathValue("rule_id"))
	if ruleID == "" {
		badRequestResponse(w, "rule_id must be provided")
		return
	}

	var req dto.SurgeRuleRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	version, err := h.service.UpsertSurgeRule(ctx, req.ToModel(ruleID))
	if err != nil {
		h.fail(ctx, w, "failed to upsert surge rule", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, dto.SavedResponse{Version: version, Message: "surge rule saved"})
}

// Quote godoc
// @Summary      Quote a trip
// @Description  Prices trip metrics against the current configuration and returns the itemized breakdown (amounts in minor units)
// @Tags         Fares
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.QuoteRequest  true  "Trip"
// @Success      200      {object}  map[string]any
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /fares/quote [post]
func (h *Pricing) Quote(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "quote_fare")

	var req dto.QuoteRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	breakdown, err := h.service.Quote(ctx, pricing.QuoteRequest{
		Model:   req.Model,
		City:    req.City,
		Metrics: req.Metrics,
	})
	if err != nil {
		h.fail(ctx, w, "failed to quote fare", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, response.Envelope{"breakdown": breakdown})
}

// GetTripFare godoc
// @Summary      Get the audited fare of a trip
// @Tags         Fares
// @Produce      json
// @Security     BearerAuth
// @Param        trip_id  path      string  true  "Trip ID"
// @Success      200      {object}  map[string]any
// @Failure      404      {object}  map[string]string
// @Router       /fares/{trip_id} [get]
func (h *Pricing) GetTripFare(w http.ResponseWriter, r *http.Request) {
	tripID := r.PathValue("trip_id")
	ctx := wrap.WithTripID(wrap.WithAction(r.Context(), "get_trip_fare"), tripID)

	breakdown, err := h.service.TripFare(ctx, tripID)
	if err != nil {
		h.fail(ctx, w, "failed to get trip fare", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, response.Envelope{"trip_id": tripID, "breakdown": breakdown})
}

func (h *Pricing) respond(ctx context.Context, w http.ResponseWriter, status int, data any) {
	if err := response.JSON(w, status, data, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// fail logs server-side failures only; rejected input is the caller's problem.
func (h *Pricing) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if GetCode(err) >= http.StatusInternalServerError {
		h.l.Error(wrap.ErrorCtx(ctx, err), msg, err)
	} else {
		h.l.Debug(ctx, msg, "error", err.Error())
	}
	errorFromService(w, err)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
