package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/pkg/trm"
)

// FareAuditRepo keeps one breakdown per priced trip.
type FareAuditRepo struct {
	db trm.Querier
}

func NewFareAuditRepo(db trm.Querier) *FareAuditRepo {
	return &FareAuditRepo{
		db: db,
	}
}

func (r *FareAuditRepo) Save(ctx context.Context, tripID string, b models.FareBreakdown) (created bool, err error) {
	const op = "FareAuditRepo.Save"
	defer recordQuery(op, time.Now(), &err)

	doc, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("%s: marshal breakdown: %w", op, err)
	}

	query := `
		INSERT INTO fare_audit(trip_id, model, city, currency, total, multiplier, config_version, breakdown)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (trip_id) DO NOTHING`

	tag, err := trm.TxOrDB(ctx, r.db).Exec(ctx, query,
		tripID,
		b.Model(),
		nullIfEmpty(b.City().String()),
		b.Currency(),
		b.Total(),
		b.Multiplier(),
		b.ConfigVersion(),
		doc,
	)
	if err != nil {
		return false, writeErr(op, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Get returns the stored breakdown of a trip, types.ErrNotFound if it was
// never priced.
func (r *FareAuditRepo) Get(ctx context.Context, tripID string) (b models.FareBreakdown, err error) {
	const op = "FareAuditRepo.Get"
	defer recordQuery(op, time.Now(), &err)

	var doc []byte
	err = trm.TxOrDB(ctx, r.db).QueryRow(ctx, `SELECT breakdown FROM fare_audit WHERE trip_id = $1`, tripID).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.FareBreakdown{}, types.ErrNotFound
		}
		return models.FareBreakdown{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := json.Unmarshal(doc, &b); err != nil {
		return models.FareBreakdown{}, fmt.Errorf("%s: decode breakdown: %w", op, err)
	}
	return b, nil
}
