package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/pkg/trm"
)

type CityRuleRepo struct {
	db trm.Querier
}

func NewCityRuleRepo(db trm.Querier) *CityRuleRepo {
	return &CityRuleRepo{
		db: db,
	}
}

func (r *CityRuleRepo) List(ctx context.Context) (rules []models.CityRule, err error) {
	const op = "CityRuleRepo.List"
	defer recordQuery(op, time.Now(), &err)

	rows, err := trm.TxOrDB(ctx, r.db).Query(ctx, `
		SELECT city, base_fee, base_distance, per_km_fee, peak_hour_bonus, rain_bonus, zone_bonus
		FROM city_rules
		ORDER BY city`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rules, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CityRule, error) {
		var c models.CityRule
		err := row.Scan(&c.City, &c.BaseFee, &c.BaseDistance, &c.PerKmFee, &c.PeakHourBonus, &c.RainBonus, &c.ZoneBonus)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rules, nil
}

// Replace swaps the whole rule set; run it inside a transaction.
func (r *CityRuleRepo) Replace(ctx context.Context, rules []models.CityRule) (err error) {
	const op = "CityRuleRepo.Replace"
	defer recordQuery(op, time.Now(), &err)

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM city_rules`)
	for _, c := range rules {
		batch.Queue(`
			INSERT INTO city_rules(city, base_fee, base_distance, per_km_fee, peak_hour_bonus, rain_bonus, zone_bonus)
			VALUES($1, $2, $3, $4, $5, $6, $7)`,
			c.City, c.BaseFee, c.BaseDistance, c.PerKmFee, c.PeakHourBonus, c.RainBonus, c.ZoneBonus,
		)
	}

	if err := execBatch(ctx, trm.TxOrDB(ctx, r.db), batch); err != nil {
		return writeErr(op, err)
	}
	return nil
}
