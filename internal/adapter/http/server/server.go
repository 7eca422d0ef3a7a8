package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Temutjin2k/delivery-fare/config"
	"github.com/Temutjin2k/delivery-fare/internal/adapter/http/handler"
	"github.com/Temutjin2k/delivery-fare/internal/adapter/http/middleware"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/pkg/logger"
	wrap "github.com/Temutjin2k/delivery-fare/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/delivery-fare/pkg/wsHub"
)

const serverIPAddress = "%s:%s"

type API struct {
	mode   types.ServiceMode
	mux    *http.ServeMux
	server *http.Server
	routes *handlers // routes/handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health  *handler.Health
	pricing *handler.Pricing
	feed    *handler.FareFeed
}

// New builds the HTTP API of the current mode. The fare worker only exposes
// /health and /metrics; pricingService and hub may be nil there.
func New(
	cfg config.Config,
	pricingService handler.PricingService,
	version handler.VersionFunc,
	authService middleware.AuthService,
	hub *ws.ConnectionHub,
	logger logger.Logger,
) (*API, error) {
	var addr string
	routes := &handlers{}

	if authService == nil {
		return nil, errors.New("auth service is required")
	}

	switch cfg.Mode {
	case types.PricingService:
		if pricingService == nil || hub == nil {
			return nil, errors.New("pricing service and websocket hub are required")
		}
		addr = fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Services.PricingService)
		routes.pricing = handler.NewPricing(pricingService, logger)
		routes.feed = handler.NewFareFeed(hub, logger)
	case types.FareWorker:
		addr = fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Services.FareWorker)
	default:
		return nil, fmt.Errorf("invalid mode: %s", cfg.Mode)
	}
	routes.health = handler.NewHealth(string(cfg.Mode), version, logger)

	api := &API{
		mode:   cfg.Mode,
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(authService, logger, string(cfg.Mode)),
		addr:   addr,
		cfg:    cfg,
		log:    logger,
	}

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.m.Chain(api.mux),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.GetSlogLogger().Handler(), slog.LevelWarn),
	}

	setupRoutes(api.mux, api.routes, api.m, api.mode, api.log)

	return api, nil
}

// Handler returns the fully wrapped handler; used by tests.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}
