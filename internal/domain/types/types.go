package types

type ServiceMode string

// Pricing Service - HTTP API for tier / city rule configuration and fare quotes
// Fare Worker - prices completed trips from the broker and applies surge updates
const (
	PricingService ServiceMode = "pricing-service"
	FareWorker     ServiceMode = "fare-worker"
)

// PricingModelKind selects which configuration prices a trip.
type PricingModelKind string

func (k PricingModelKind) String() string {
	return string(k)
}

const (
	RangeModel PricingModelKind = "RANGE"
	CityModel  PricingModelKind = "CITY"
)

// City is one of the supported delivery cities.
type City string

func (c City) String() string {
	return string(c)
}

const (
	Almaty    City = "ALMATY"
	Astana    City = "ASTANA"
	Shymkent  City = "SHYMKENT"
	Karaganda City = "KARAGANDA"
	Aktobe    City = "AKTOBE"
)

// SupportedCities returns the enumerated city set.
func SupportedCities() []City {
	return []City{Almaty, Astana, Shymkent, Karaganda, Aktobe}
}

func (c City) IsSupported() bool {
	switch c {
	case Almaty, Astana, Shymkent, Karaganda, Aktobe:
		return true
	default:
		return false
	}
}

// Enum для роли пользователя
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	AdminRole   UserRole = "ADMIN"
	ServiceRole UserRole = "SERVICE"
)
