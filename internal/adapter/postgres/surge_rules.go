package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/pkg/trm"
)

type SurgeRuleRepo struct {
	db trm.Querier
}

func NewSurgeRuleRepo(db trm.Querier) *SurgeRuleRepo {
	return &SurgeRuleRepo{
		db: db,
	}
}

func (r *SurgeRuleRepo) List(ctx context.Context) (rules []models.SurgeRule, err error) {
	const op = "SurgeRuleRepo.List"
	defer recordQuery(op, time.Now(), &err)

	rows, err := trm.TxOrDB(ctx, r.db).Query(ctx, `SELECT id, name, multiplier FROM surge_rules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rules, err = pgx.CollectRows(rows, pgx.RowToStructByPos[models.SurgeRule])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rules, nil
}

func (r *SurgeRuleRepo) Upsert(ctx context.Context, rule models.SurgeRule) (err error) {
	const op = "SurgeRuleRepo.Upsert"
	defer recordQuery(op, time.Now(), &err)

	query := `
		INSERT INTO surge_rules(id, name, multiplier, updated_at)
		VALUES($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			multiplier = EXCLUDED.multiplier,
			updated_at = now()`

	if _, err := trm.TxOrDB(ctx, r.db).Exec(ctx, query, rule.ID, rule.Name, rule.Multiplier); err != nil {
		return writeErr(op, err)
	}
	return nil
}
