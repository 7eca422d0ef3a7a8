package microservices

import (
	"context"
	"fmt"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Temutjin2k/delivery-fare/config"
	repo "github.com/Temutjin2k/delivery-fare/internal/adapter/postgres"
	broker "github.com/Temutjin2k/delivery-fare/internal/adapter/rabbit"
	cache "github.com/Temutjin2k/delivery-fare/internal/adapter/redis"
	"github.com/Temutjin2k/delivery-fare/internal/service/auth"
	"github.com/Temutjin2k/delivery-fare/internal/service/fare"
	"github.com/Temutjin2k/delivery-fare/internal/service/pricing"
	"github.com/Temutjin2k/delivery-fare/pkg/logger"
	"github.com/Temutjin2k/delivery-fare/pkg/postgres"
	"github.com/Temutjin2k/delivery-fare/pkg/rabbit"
	"github.com/Temutjin2k/delivery-fare/pkg/redis"
	"github.com/Temutjin2k/delivery-fare/pkg/trm"
	"github.com/Temutjin2k/delivery-fare/pkg/uuid"
)

// infra is what both modes share: storage, broker and the pricing service.
type infra struct {
	postgresDB *postgres.PostgreDB
	redis      *goredis.Client
	rabbit     *rabbit.RabbitMQ
	broker     *broker.FareBroker
	pricing    *pricing.Service
	auth       *auth.AuthService
	instance   string
}

func newInfra(ctx context.Context, cfg config.Config, topology func(instance string) rabbit.Topology, log logger.Logger) (_ *infra, err error) {
	in := &infra{instance: instanceName(cfg)}
	defer func() {
		if err != nil {
			in.close(ctx, log)
		}
	}()

	in.postgresDB, err = postgres.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	in.redis, err = redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to setup redis: %w", err)
	}

	in.rabbit, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to setup rabbitmq: %w", err)
	}
	if err = in.rabbit.DeclareTopology(topology(in.instance)); err != nil {
		return nil, fmt.Errorf("failed to declare rabbitmq topology: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to setup token service: %w", err)
	}
	in.auth = auth.NewAuthService(tokens, log)

	// repositories
	pool := in.postgresDB.Pool
	rangeRepo := repo.NewRangeRepo(pool)
	cityRepo := repo.NewCityRuleRepo(pool)
	surgeRepo := repo.NewSurgeRuleRepo(pool)
	auditRepo := repo.NewFareAuditRepo(pool)

	in.broker = broker.NewFareBroker(in.rabbit, string(cfg.Mode), in.instance, log)

	in.pricing = pricing.New(
		fare.NewEngine(cfg.Fare.Currency),
		rangeRepo,
		cityRepo,
		surgeRepo,
		auditRepo,
		cache.NewSurgeCache(in.redis, cfg.Fare.SurgeCacheTTL),
		in.broker,
		trm.New(pool),
		log,
	)

	// без снимка сервис не считает цены, но health и reload продолжают работать
	if err := in.pricing.Reload(ctx); err != nil {
		log.Error(ctx, "initial pricing configuration load failed", err)
	}

	return in, nil
}

// version reports the loaded configuration for /health.
func (in *infra) version() (string, error) {
	snap, err := in.pricing.Current()
	if err != nil {
		return "", err
	}
	return snap.Version(), nil
}

func (in *infra) close(ctx context.Context, log logger.Logger) {
	if in.rabbit != nil {
		if err := in.rabbit.Close(ctx); err != nil {
			log.Warn(ctx, "failed to close rabbitmq", "error", err.Error())
		}
	}
	if in.redis != nil {
		if err := in.redis.Close(); err != nil {
			log.Warn(ctx, "failed to close redis", "error", err.Error())
		}
	}
	in.postgresDB.Close()
}

func instanceName(cfg config.Config) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = string(cfg.Mode)
	}
	return host + "-" + uuid.NewString()[:8]
}

// report hands the first fatal error to Start without blocking the others.
func report(errCh chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case errCh <- err:
	default:
	}
}
