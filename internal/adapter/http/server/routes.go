package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Temutjin2k/delivery-fare/docs"
	"github.com/Temutjin2k/delivery-fare/internal/adapter/http/middleware"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/pkg/logger"
	wrap "github.com/Temutjin2k/delivery-fare/pkg/logger/wrapper"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware, mode types.ServiceMode, log logger.Logger) {
	// System Health
	mux.HandleFunc("GET /health", routes.health.HealthCheck)

	setupMetricsRoute(mux)

	// воркер отдаёт только health и metrics
	if mode == types.PricingService {
		setupSwaggerRoutes(mux, mode, log)
		setupPricingRoutes(mux, routes, m)
	}
}

// setupPricingRoutes setups routes for pricing service
func setupPricingRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("GET /pricing/ranges", m.RequireRoles(routes.pricing.GetRanges, types.AdminRole))                       // Current tier list
	mux.Handle("PUT /pricing/ranges", m.RequireRoles(routes.pricing.SaveRanges, types.AdminRole))                      // Replace tier list
	mux.Handle("GET /pricing/city-rules", m.RequireRoles(routes.pricing.GetCityRules, types.AdminRole))                // Current city rules
	mux.Handle("PUT /pricing/city-rules", m.RequireRoles(routes.pricing.SaveCityRules, types.AdminRole))               // Replace city rules
	mux.Handle("GET /pricing/surge-rules", m.RequireRoles(routes.pricing.GetSurgeRules, types.AdminRole))              // Surge catalog
	mux.Handle("PUT /pricing/surge-rules/{rule_id}", m.RequireRoles(routes.pricing.PutSurgeRule, types.AdminRole))     // Upsert surge rule
	mux.Handle("POST /fares/quote", m.RequireRoles(routes.pricing.Quote, types.AdminRole, types.ServiceRole))          // Price a trip
	mux.Handle("GET /fares/{trip_id}", m.RequireRoles(routes.pricing.GetTripFare, types.AdminRole, types.ServiceRole)) // Audited fare of a trip
	mux.Handle("GET /ws/fares", m.RequireRoles(routes.feed.HandleWS, types.AdminRole))                                 // Live fare feed
}

// setupSwaggerRoutes configures Swagger UI endpoints based on service mode
func setupSwaggerRoutes(mux *http.ServeMux, mode types.ServiceMode, log logger.Logger) {
	if mode != types.PricingService {
		log.Warn(wrap.WithAction(context.Background(), "setup swagger routes"), "unknown service mode for swagger setup", "mode", mode)
		return
	}

	swaggerURL := httpSwagger.InstanceName(docs.InstanceName)
	mux.HandleFunc("/swagger/", httpSwagger.Handler(swaggerURL))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
