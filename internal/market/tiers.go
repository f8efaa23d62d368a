// Package market implements the market simulation engine: per-venue
// supply/demand state, price derivation, trade execution, and arbitrage
// analysis over the fixed set of game venues.
package market

// Supply and demand are each tracked as a seven-value ordinal tier.
// Index 4 is Normal on both axes. Every tier transition moves exactly one
// step and saturates at the bounds.
const (
	NumTiers   = 7
	NormalTier = 4
	tierMinOrd = 0
	tierMaxOrd = NumTiers - 1
)

// SupplyTier describes how plentiful a good is at a venue.
// Lower ordinals mean scarcer goods and higher prices.
type SupplyTier uint8

const (
	SupplySevereShortage SupplyTier = iota // 0, almost nothing left
	SupplyShortage                         // 1
	SupplyBelowNormal                      // 2
	SupplySlightlyLow                      // 3
	SupplyNormal                           // 4
	SupplySurplus                          // 5
	SupplyMajorSurplus                     // 6, glut
)

var supplyTierNames = [NumTiers]string{
	"Severe Shortage", "Shortage", "Below Normal", "Slightly Low",
	"Normal", "Surplus", "Major Surplus",
}

func (t SupplyTier) String() string {
	if int(t) < NumTiers {
		return supplyTierNames[t]
	}
	return "Unknown"
}

// Level returns the tier as a scalar where Normal = 1.0. Feeds the
// supply price modifier.
func (t SupplyTier) Level() float64 {
	return float64(t) / float64(NormalTier)
}

// DemandTier describes how sought-after a good is at a venue.
// Higher ordinals mean hotter demand and higher prices.
type DemandTier uint8

const (
	DemandNone        DemandTier = iota // 0, nobody wants it
	DemandVeryLow                       // 1
	DemandLow                           // 2
	DemandSlightlyLow                   // 3
	DemandNormal                        // 4
	DemandHigh                          // 5
	DemandVeryHigh                      // 6
)

var demandTierNames = [NumTiers]string{
	"None", "Very Low", "Low", "Slightly Low",
	"Normal", "High", "Very High",
}

func (t DemandTier) String() string {
	if int(t) < NumTiers {
		return demandTierNames[t]
	}
	return "Unknown"
}

// Level returns the tier as a scalar where Normal = 1.0. Feeds the
// demand price modifier.
func (t DemandTier) Level() float64 {
	return float64(t) / float64(NormalTier)
}

// stepUp moves an ordinal one step toward the maximum, saturating.
func stepUp(ord int) int {
	if ord >= tierMaxOrd {
		return tierMaxOrd
	}
	return ord + 1
}

// stepDown moves an ordinal one step toward the minimum, saturating.
func stepDown(ord int) int {
	if ord <= tierMinOrd {
		return tierMinOrd
	}
	return ord - 1
}

// stepToward moves an ordinal one step toward a target, or not at all if
// already there. Shared by the trade-driven shifts and passive evolution so
// the adjacency logic lives in one place.
func stepToward(ord, target int) int {
	switch {
	case ord < target:
		return stepUp(ord)
	case ord > target:
		return stepDown(ord)
	default:
		return ord
	}
}

// clampTier forces an ordinal into the valid tier range.
func clampTier(ord int) int {
	if ord < tierMinOrd {
		return tierMinOrd
	}
	if ord > tierMaxOrd {
		return tierMaxOrd
	}
	return ord
}
