package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Temutjin2k/delivery-fare/config"
	repo "github.com/Temutjin2k/delivery-fare/internal/adapter/postgres"
	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/internal/service/auth"
	"github.com/Temutjin2k/delivery-fare/internal/service/fare"
	"github.com/Temutjin2k/delivery-fare/migrations"
	"github.com/Temutjin2k/delivery-fare/pkg/postgres"
	"github.com/Temutjin2k/delivery-fare/pkg/trm"
	"github.com/Temutjin2k/delivery-fare/pkg/uuid"
)

var (
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	force      = flag.Bool("force", false, "Overwrite an existing pricing configuration")
	issueToken = flag.String("issue-token", "", "Print an access token for the given role (ADMIN or SERVICE)")
	migrate    = flag.Bool("migrate", true, "Apply the embedded schema migrations before seeding")
)

func main() {
	flag.Parse()

	// конфиг требует --mode, сидеру он не важен
	if f := flag.Lookup("mode"); f != nil && f.Value.String() == "" {
		_ = flag.Set("mode", string(types.PricingService))
	}

	ctx := context.Background()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	if *issueToken != "" {
		tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
		if err != nil {
			log.Fatal(err)
		}
		printToken(ctx, tokens, types.UserRole(*issueToken))
		return
	}

	client, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	if *migrate {
		if err := migrations.Apply(ctx, client.Pool, func(name string) {
			log.Printf("migrate: %s applied", name)
		}); err != nil {
			log.Fatal(err)
		}
	}

	seedPricing(ctx, client)
}

func seedPricing(ctx context.Context, db *postgres.PostgreDB) {
	// short timeout for seed operations
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ranges := defaultRanges()
	surge := []models.SurgeRule{
		{ID: "evening", Name: "Evening rush", Multiplier: 1.3},
		{ID: "weekend_night", Name: "Weekend night", Multiplier: 1.5},
	}
	cities := defaultCityRules()

	catalog := make(fare.SurgeRules, len(surge))
	for _, r := range surge {
		catalog[r.ID] = r.Multiplier
	}
	if err := fare.ValidateRanges(ranges, catalog); err != nil {
		log.Fatalf("seedPricing: default ranges: %v", err)
	}
	if err := fare.ValidateCityRules(cities); err != nil {
		log.Fatalf("seedPricing: default city rules: %v", err)
	}

	rangeRepo := repo.NewRangeRepo(db.Pool)
	cityRepo := repo.NewCityRuleRepo(db.Pool)
	surgeRepo := repo.NewSurgeRuleRepo(db.Pool)

	err := trm.New(db.Pool).Do(ctx, func(ctx context.Context) error {
		existing, err := rangeRepo.List(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 && !*force {
			return errAlreadySeeded
		}

		for _, r := range surge {
			if err := surgeRepo.Upsert(ctx, r); err != nil {
				return err
			}
		}
		if err := rangeRepo.Replace(ctx, ranges); err != nil {
			return err
		}
		return cityRepo.Replace(ctx, cities)
	})
	if errors.Is(err, errAlreadySeeded) {
		log.Printf("seedPricing: configuration already present, use --force to overwrite")
		return
	}
	if err != nil {
		log.Fatalf("seedPricing: %v", err)
	}

	log.Printf("seedPricing: stored %d tiers, %d city rules, %d surge rules", len(ranges), len(cities), len(surge))
}

var errAlreadySeeded = errors.New("already seeded")

func defaultRanges() []models.RangeDefinition {
	return []models.RangeDefinition{
		{
			DistanceLimit: models.Limit(5),
			Base:          models.BaseFare{Fare: 30},
			Distance:      models.DistanceFee{Fare: 4, BaseDistance: 3},
		},
		{
			DistanceLimit: models.Limit(10),
			Base:          models.BaseFare{Fare: 45},
			Distance:      models.DistanceFee{Fare: 3.5, BaseDistance: 5},
			Duration:      models.DurationFee{Charge: 0.5, BaseDuration: 20},
		},
		{
			Base:        models.BaseFare{Fare: 60},
			Distance:    models.DistanceFee{Fare: 3, BaseDistance: 10},
			Duration:    models.DurationFee{Charge: 0.5, BaseDuration: 30},
			WaitingTime: models.WaitingFee{Fare: 1, BaseWaiting: 5},
			Surge:       models.SurgeSpec{Dynamic: true, SelectedRule: "evening"},
		},
	}
}

func defaultCityRules() []models.CityRule {
	return []models.CityRule{
		{City: types.Almaty, BaseFee: 500, BaseDistance: 2, PerKmFee: 120, PeakHourBonus: 150, RainBonus: 100, ZoneBonus: 80},
		{City: types.Astana, BaseFee: 450, BaseDistance: 2, PerKmFee: 110, PeakHourBonus: 120, RainBonus: 80, ZoneBonus: 60},
		{City: types.Shymkent, BaseFee: 350, BaseDistance: 2, PerKmFee: 90, PeakHourBonus: 100, RainBonus: 60},
	}
}

func printToken(ctx context.Context, issuer auth.TokenIssuer, role types.UserRole) {
	if role != types.AdminRole && role != types.ServiceRole {
		log.Fatalf("printToken: unknown role %q", role)
	}

	token, err := issuer.Issue(ctx, &models.User{ID: uuid.NewString(), Role: role})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
