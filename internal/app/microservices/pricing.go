package microservices

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Temutjin2k/delivery-fare/config"
	"github.com/Temutjin2k/delivery-fare/internal/adapter/http/server"
	broker "github.com/Temutjin2k/delivery-fare/internal/adapter/rabbit"
	"github.com/Temutjin2k/delivery-fare/pkg/logger"
	"github.com/Temutjin2k/delivery-fare/pkg/metrics"
	ws "github.com/Temutjin2k/delivery-fare/pkg/wsHub"
)

// PricingService serves the configuration API and the live fare feed.
type PricingService struct {
	infra      *infra
	hub        *ws.ConnectionHub
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

func NewPricing(ctx context.Context, cfg config.Config, log logger.Logger) (*PricingService, error) {
	in, err := newInfra(ctx, cfg, broker.FeedTopology, log)
	if err != nil {
		log.Error(ctx, "Failed to setup infrastructure", err)
		return nil, err
	}

	hub := ws.NewConnHub(log)
	hub.OnChange = func(n int) {
		metrics.WebSocketConnectionsGauge.WithLabelValues(string(cfg.Mode)).Set(float64(n))
	}
	in.pricing.WithFeed(hub)

	httpServer, err := server.New(cfg, in.pricing, in.version, in.auth, hub, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		in.close(ctx, log)
		return nil, err
	}

	return &PricingService{
		infra:      in,
		hub:        hub,
		httpServer: httpServer,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (s *PricingService) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		s.close(ctx)
		s.log.Info(ctx, "pricing service closed")
	}()

	errCh := make(chan error, 1)
	s.httpServer.Run(ctx, errCh)

	wg.Add(3)
	go func() {
		defer wg.Done()
		s.infra.pricing.Run(ctx, s.cfg.Fare.ReloadEvery)
	}()
	go func() {
		defer wg.Done()
		report(errCh, s.infra.broker.ConsumeFareCalculated(ctx, s.infra.pricing.HandleFareCalculated))
	}()
	go func() {
		defer wg.Done()
		report(errCh, s.infra.broker.ConsumeConfigChanged(ctx, s.infra.pricing.HandleConfigChanged))
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "pricing service started", "instance", s.infra.instance)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	}
}

func (s *PricingService) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Stop(ctx); err != nil {
		s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
	}
	s.hub.Close()
	s.infra.close(ctx, s.log)
}
