package domain

// RiskTier classifies a SKU by how much of its required stock is on hand.
type RiskTier string

const (
	RiskCritical   RiskTier = "Critical"
	RiskLow        RiskTier = "Low"
	RiskSufficient RiskTier = "Sufficient"
)

// PriceAction is the pricing recommendation for a SKU.
type PriceAction string

const (
	LowerPrice PriceAction = "Lower Price"
	HoldPrice  PriceAction = "Hold Price"
)

// DemandLevel classifies a region's spike percentage.
type DemandLevel string

const (
	DemandHigh     DemandLevel = "High"
	DemandModerate DemandLevel = "Moderate"
	DemandMild     DemandLevel = "Mild"
	DemandNone     DemandLevel = "none"
)

var riskTierRank = map[RiskTier]int{
	RiskCritical:   0,
	RiskLow:        1,
	RiskSufficient: 2,
}

// Rank orders tiers from worst (0) to best. Unknown tiers rank -1.
func (t RiskTier) Rank() int {
	if rank, ok := riskTierRank[t]; ok {
		return rank
	}

	return -1
}
