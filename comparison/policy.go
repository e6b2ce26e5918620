package comparison

import "github.com/shopspring/decimal"

// Policy holds the tolerances used by the field matcher and line reconciler
type Policy struct {
	// NumericTolerance is the relative difference below which two amounts match fuzzily (0.0001 = 0.01%)
	NumericTolerance decimal.Decimal

	// LineMatchThreshold is the minimum description similarity for a fuzzy line pairing
	LineMatchThreshold float64

	// DescriptionSafeZone is the similarity at or above which a fuzzy pairing counts as the same description
	DescriptionSafeZone float64
}

// DefaultPolicy returns the tolerances used when none are configured
func DefaultPolicy() Policy {
	return Policy{
		NumericTolerance:    decimal.RequireFromString("0.0001"),
		LineMatchThreshold:  0.7,
		DescriptionSafeZone: 0.9,
	}
}
