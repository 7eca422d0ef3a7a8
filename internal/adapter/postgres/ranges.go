package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/pkg/metrics"
	"github.com/Temutjin2k/delivery-fare/pkg/postgres"
	"github.com/Temutjin2k/delivery-fare/pkg/trm"
)

const serviceName = "pricing"

type RangeRepo struct {
	db trm.Querier
}

func NewRangeRepo(db trm.Querier) *RangeRepo {
	return &RangeRepo{
		db: db,
	}
}

const rangeColumns = `
	distance_limit,
	base_fare, base_surge,
	duration_charge, base_duration,
	distance_fare, base_distance,
	waiting_fare, base_waiting,
	surge_dynamic, surge_rule`

// List returns tiers in their configured order.
func (r *RangeRepo) List(ctx context.Context) (ranges []models.RangeDefinition, err error) {
	const op = "RangeRepo.List"
	defer recordQuery(op, time.Now(), &err)

	rows, err := trm.TxOrDB(ctx, r.db).Query(ctx, `SELECT `+rangeColumns+` FROM range_tiers ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ranges, err = pgx.CollectRows(rows, scanRange)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ranges, nil
}

// Replace deletes the current tiers and inserts ranges in order. It must run
// inside a transaction to be atomic.
func (r *RangeRepo) Replace(ctx context.Context, ranges []models.RangeDefinition) (err error) {
	const op = "RangeRepo.Replace"
	defer recordQuery(op, time.Now(), &err)

	q := trm.TxOrDB(ctx, r.db)

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM range_tiers`)
	for i, t := range ranges {
		batch.Queue(`
			INSERT INTO range_tiers(position, `+rangeColumns+`)
			VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			i,
			t.DistanceLimit,
			t.Base.Fare, t.Base.Surge,
			t.Duration.Charge, t.Duration.BaseDuration,
			t.Distance.Fare, t.Distance.BaseDistance,
			t.WaitingTime.Fare, t.WaitingTime.BaseWaiting,
			t.Surge.Dynamic, nullIfEmpty(t.Surge.SelectedRule),
		)
	}

	if err := execBatch(ctx, q, batch); err != nil {
		return writeErr(op, err)
	}
	return nil
}

func scanRange(row pgx.CollectableRow) (models.RangeDefinition, error) {
	var (
		t    models.RangeDefinition
		rule *string
	)
	err := row.Scan(
		&t.DistanceLimit,
		&t.Base.Fare, &t.Base.Surge,
		&t.Duration.Charge, &t.Duration.BaseDuration,
		&t.Distance.Fare, &t.Distance.BaseDistance,
		&t.WaitingTime.Fare, &t.WaitingTime.BaseWaiting,
		&t.Surge.Dynamic, &rule,
	)
	if rule != nil {
		t.Surge.SelectedRule = *rule
	}
	return t, err
}

func execBatch(ctx context.Context, q trm.Querier, batch *pgx.Batch) error {
	br := q.SendBatch(ctx, batch)
	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return err
		}
	}
	return br.Close()
}

// writeErr marks rows rejected by a table constraint with
// types.ErrConstraintViolation; retrying them cannot succeed.
func writeErr(op string, err error) error {
	if postgres.IsCheckViolation(err) || postgres.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, types.ErrConstraintViolation, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func recordQuery(op string, start time.Time, err *error) {
	metrics.RecordDatabaseQuery(serviceName, op, *err, time.Since(start))
}
