// Package vulnerability computes composite vulnerability scores and risk
// tiers for localities hosting displaced populations.
package vulnerability

// Risk tier labels.
const (
	RiskCritical = "Critical"
	RiskHigh     = "High"
	RiskModerate = "Moderate"
	RiskLow      = "Low"
)

// Composite-index thresholds for tier classification. Lower bounds are
// inclusive; the four tiers exhaust the 0-100 range with no gaps.
const (
	criticalThreshold = 80.0
	highThreshold     = 60.0
	moderateThreshold = 40.0
)

// Classify returns the risk tier for a composite vulnerability index.
// Rules:
//   - Critical: index >= 80
//   - High:     60 <= index < 80
//   - Moderate: 40 <= index < 60
//   - Low:      index < 40
func Classify(index float64) string {
	switch {
	case index >= criticalThreshold:
		return RiskCritical
	case index >= highThreshold:
		return RiskHigh
	case index >= moderateThreshold:
		return RiskModerate
	default:
		return RiskLow
	}
}
