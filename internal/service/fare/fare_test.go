package fare

import (
	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
)

func shortTier() models.RangeDefinition {
	return models.RangeDefinition{
		DistanceLimit: models.Limit(5),
		Base:          models.BaseFare{Fare: 30},
		Distance:      models.DistanceFee{Fare: 4, BaseDistance: 3},
	}
}

func midTier() models.RangeDefinition {
	return models.RangeDefinition{
		DistanceLimit: models.Limit(10),
		Base:          models.BaseFare{Fare: 45},
		Distance:      models.DistanceFee{Fare: 3.5, BaseDistance: 5},
		Duration:      models.DurationFee{Charge: 0.5, BaseDuration: 20},
	}
}

func defaultTier() models.RangeDefinition {
	return models.RangeDefinition{
		Base:        models.BaseFare{Fare: 60, Surge: 1.2},
		Distance:    models.DistanceFee{Fare: 3, BaseDistance: 10},
		Duration:    models.DurationFee{Charge: 0.5, BaseDuration: 30},
		WaitingTime: models.WaitingFee{Fare: 1, BaseWaiting: 5},
	}
}

func sampleRanges() []models.RangeDefinition {
	return []models.RangeDefinition{shortTier(), midTier(), defaultTier()}
}
