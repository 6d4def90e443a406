package allocation

import "errors"

// Tier is the qualitative per-guest budget label. "high" efficiency means
// the budget is tight for the guest count; "low" means it is generous.
type Tier string

const (
	TierHigh      Tier = "high"
	TierMedium    Tier = "medium"
	TierLow       Tier = "low"
	TierUndefined Tier = "undefined"
)

// ErrDivisionUndefined is returned when no per-guest amount exists.
var ErrDivisionUndefined = errors.New("per-guest amount undefined: guest count must be positive")

// PerGuestAmount divides the total budget by the guest count.
func PerGuestAmount(total int64, guests int) (float64, error) {
	if guests <= 0 {
		return 0, ErrDivisionUndefined
	}
	return float64(total) / float64(guests), nil
}

// Classify buckets a per-guest amount into a tier.
func (t Thresholds) Classify(perGuest float64) Tier {
	switch {
	case perGuest < t.Tight:
		return TierHigh
	case perGuest <= t.Generous:
		return TierMedium
	default:
		return TierLow
	}
}

// Tightness orders tiers from generous (1) to tight (3); undefined is 0.
func (t Tier) Tightness() int {
	switch t {
	case TierHigh:
		return 3
	case TierMedium:
		return 2
	case TierLow:
		return 1
	}
	return 0
}
