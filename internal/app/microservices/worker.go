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
)

// FareWorker prices completed trips and applies surge updates from the broker.
// Its HTTP server exposes only /health and /metrics.
type FareWorker struct {
	infra      *infra
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

func NewFareWorker(ctx context.Context, cfg config.Config, log logger.Logger) (*FareWorker, error) {
	in, err := newInfra(ctx, cfg, broker.WorkerTopology, log)
	if err != nil {
		log.Error(ctx, "Failed to setup infrastructure", err)
		return nil, err
	}

	httpServer, err := server.New(cfg, nil, in.version, in.auth, nil, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		in.close(ctx, log)
		return nil, err
	}

	return &FareWorker{
		infra:      in,
		httpServer: httpServer,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (s *FareWorker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		s.close(ctx)
		s.log.Info(ctx, "fare worker closed")
	}()

	errCh := make(chan error, 1)
	s.httpServer.Run(ctx, errCh)

	consumers := []func(context.Context) error{
		func(ctx context.Context) error {
			return s.infra.broker.ConsumeTripCompleted(ctx, s.infra.pricing.HandleTripCompleted)
		},
		func(ctx context.Context) error {
			return s.infra.broker.ConsumeSurgeUpdates(ctx, s.infra.pricing.HandleSurgeUpdate)
		},
		func(ctx context.Context) error {
			return s.infra.broker.ConsumeConfigChanged(ctx, s.infra.pricing.HandleConfigChanged)
		},
	}

	wg.Add(len(consumers) + 1)
	for _, consume := range consumers {
		go func() {
			defer wg.Done()
			report(errCh, consume(ctx))
		}()
	}
	// страховка на случай потерянного pricing.config.changed
	go func() {
		defer wg.Done()
		s.infra.pricing.Run(ctx, s.cfg.Fare.ReloadEvery)
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "fare worker started", "instance", s.infra.instance)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	}
}

func (s *FareWorker) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Stop(ctx); err != nil {
		s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
	}
	s.infra.close(ctx, s.log)
}
