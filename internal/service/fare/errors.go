package fare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
)

// Configuration errors, reported by ValidateRanges / ValidateCityRules.
var (
	ErrDuplicateDefaultTier       = errors.New("duplicate default tier")
	ErrMissingDefaultTier         = errors.New("missing default tier")
	ErrNonMonotonicDistanceLimits = errors.New("non-monotonic distance limits")
	ErrInvalidSurgeReference      = errors.New("invalid surge reference")
	ErrNegativeRate               = errors.New("negative rate")
	ErrDuplicateCity              = errors.New("duplicate city")
	ErrUnsupportedCity            = errors.New("unsupported city")
	ErrInvalidStaticSurge         = errors.New("static surge multiplier out of range")
)

// Resolution errors, reported at evaluation time.
var (
	ErrUnknownSurgeRule  = errors.New("unknown surge rule")
	ErrInvalidMultiplier = errors.New("invalid surge multiplier")
	ErrNoDefaultTier     = errors.New("no default tier")
)

var ErrInvalidMetrics = errors.New("invalid trip metrics")

var codes = map[error]string{
	ErrDuplicateDefaultTier:       "DuplicateDefaultTier",
	ErrMissingDefaultTier:         "MissingDefaultTier",
	ErrNonMonotonicDistanceLimits: "NonMonotonicDistanceLimits",
	ErrInvalidSurgeReference:      "InvalidSurgeReference",
	ErrNegativeRate:               "NegativeRate",
	ErrDuplicateCity:              "DuplicateCity",
	ErrUnsupportedCity:            "UnsupportedCity",
	ErrInvalidStaticSurge:         "InvalidStaticSurge",
	ErrUnknownSurgeRule:           "UnknownSurgeRule",
	ErrInvalidMultiplier:          "InvalidMultiplier",
	ErrNoDefaultTier:              "NoDefaultTier",
}

// ConfigError is a structural problem in a tier list or city rule set.
// Index is the offending position, -1 when the error concerns the whole set.
type ConfigError struct {
	Err   error
	Index int
	City  types.City
	Field string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	switch {
	case e.City != "":
		fmt.Fprintf(&b, "city %s", e.City)
	case e.Index >= 0:
		fmt.Fprintf(&b, "tier %d", e.Index)
	default:
		b.WriteString("configuration")
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (%s)", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Code is the stable machine-readable name of the failure.
func (e *ConfigError) Code() string { return codes[e.Err] }

// ResolutionError is raised while evaluating; it means validation was skipped
// or the surge catalog is stale.
type ResolutionError struct {
	Err        error
	RuleID     string
	Multiplier float64
}

func (e *ResolutionError) Error() string {
	switch {
	case errors.Is(e.Err, ErrInvalidMultiplier) && e.RuleID != "":
		return fmt.Sprintf("surge rule %q: %s %v", e.RuleID, e.Err, e.Multiplier)
	case errors.Is(e.Err, ErrInvalidMultiplier):
		return fmt.Sprintf("%s %v", e.Err, e.Multiplier)
	case e.RuleID != "":
		return fmt.Sprintf("%s %q", e.Err, e.RuleID)
	default:
		return e.Err.Error()
	}
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func (e *ResolutionError) Code() string { return codes[e.Err] }

func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}
