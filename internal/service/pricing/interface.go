package pricing

import (
	"context"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
)

/*=================Range Tier Repository======================*/

type RangeRepo interface {
	List(ctx context.Context) ([]models.RangeDefinition, error)
	// Replace swaps the whole tier list; callers run it inside a transaction.
	Replace(ctx context.Context, ranges []models.RangeDefinition) error
}

/*=================City Rule Repository=======================*/

type CityRuleRepo interface {
	List(ctx context.Context) ([]models.CityRule, error)
	Replace(ctx context.Context, rules []models.CityRule) error
}

/*=================Surge Rule Repository======================*/

type SurgeRuleRepo interface {
	List(ctx context.Context) ([]models.SurgeRule, error)
	Upsert(ctx context.Context, rule models.SurgeRule) error
}

/*=================Fare Audit Repository======================*/

type FareAuditRepo interface {
	// Save stores the breakdown of a trip once; created is false when the
	// trip was already priced.
	Save(ctx context.Context, tripID string, breakdown models.FareBreakdown) (created bool, err error)
	Get(ctx context.Context, tripID string) (models.FareBreakdown, error)
}

/*=====================Surge Cache============================*/

type SurgeCache interface {
	Load(ctx context.Context) (rules []models.SurgeRule, ok bool, err error)
	Store(ctx context.Context, rules []models.SurgeRule) error
	Invalidate(ctx context.Context) error
}

/*========================Publisher===============================*/

type Publisher interface {
	PublishFareCalculated(ctx context.Context, msg models.FareCalculatedMessage) error
	PublishConfigChanged(ctx context.Context, msg models.ConfigChangedMessage) error
}

/*========================Fare Feed===============================*/

type FareFeed interface {
	Broadcast(ctx context.Context, msg any) int
}
