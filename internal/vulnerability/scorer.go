package vulnerability

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/relief-analytics/crisis-cli/internal/model"
)

// Config holds the scoring weights and the capital-origin key. Weights are
// fixed configuration values, not derived from the data.
type Config struct {
	BurdenWeight   float64 `yaml:"burden_weight" mapstructure:"burden_weight"`
	AccessWeight   float64 `yaml:"access_weight" mapstructure:"access_weight"`
	OriginWeight   float64 `yaml:"origin_weight" mapstructure:"origin_weight"`
	DistanceWeight float64 `yaml:"distance_weight" mapstructure:"distance_weight"`
	CountWeight    float64 `yaml:"count_weight" mapstructure:"count_weight"`
	// CapitalOriginKey names the origin-region column whose share of a
	// locality's IDPs drives the origin-intensity score.
	CapitalOriginKey string `yaml:"capital_origin_key" mapstructure:"capital_origin_key"`
}

// DefaultConfig returns the standard weighting: burden 40%, access 40%,
// origin intensity 20%; within access, distance 60% and facility count 40%.
func DefaultConfig() Config {
	return Config{
		BurdenWeight:     0.4,
		AccessWeight:     0.4,
		OriginWeight:     0.2,
		DistanceWeight:   0.6,
		CountWeight:      0.4,
		CapitalOriginKey: "origin_khartoum",
	}
}

// ValidateConfig checks that both weight sets are non-negative and sum to 1.
func ValidateConfig(cfg Config) error {
	for name, w := range map[string]float64{
		"burden_weight":   cfg.BurdenWeight,
		"access_weight":   cfg.AccessWeight,
		"origin_weight":   cfg.OriginWeight,
		"distance_weight": cfg.DistanceWeight,
		"count_weight":    cfg.CountWeight,
	} {
		if w < 0 {
			return eris.Errorf("vulnerability: %s must be non-negative (got %g)", name, w)
		}
	}
	if s := cfg.BurdenWeight + cfg.AccessWeight + cfg.OriginWeight; math.Abs(s-1) > 1e-9 {
		return eris.Errorf("vulnerability: component weights must sum to 1 (got %g)", s)
	}
	if s := cfg.DistanceWeight + cfg.CountWeight; math.Abs(s-1) > 1e-9 {
		return eris.Errorf("vulnerability: access sub-weights must sum to 1 (got %g)", s)
	}
	if cfg.CapitalOriginKey == "" {
		return eris.New("vulnerability: capital_origin_key is required")
	}
	return nil
}

// Score computes one VulnerabilityScore per locality. localities and metrics
// are parallel slices in the same order; output preserves that order.
// Component scores are ratios against dataset maxima, so they land in
// [0, 100] by construction and are not rounded here.
func Score(localities []model.Locality, metrics []model.ProximityMetrics, cfg Config) ([]model.VulnerabilityScore, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if len(localities) == 0 {
		return nil, eris.New("vulnerability: no localities to score")
	}
	if len(localities) != len(metrics) {
		return nil, eris.Errorf("vulnerability: %d localities but %d proximity records",
			len(localities), len(metrics))
	}

	var maxIDPs int64
	var maxDist float64
	var maxCount int
	for i := range localities {
		if localities[i].TotalIDPs > maxIDPs {
			maxIDPs = localities[i].TotalIDPs
		}
		if metrics[i].DistNearestCriticalKM > maxDist {
			maxDist = metrics[i].DistNearestCriticalKM
		}
		if metrics[i].CriticalWithin20KM > maxCount {
			maxCount = metrics[i].CriticalWithin20KM
		}
	}

	if maxIDPs == 0 {
		// Degenerate-but-valid dataset: uniform zero burden instead of a
		// division error.
		zap.L().Warn("vulnerability: all localities report zero IDPs")
	}

	scores := make([]model.VulnerabilityScore, len(localities))
	for i := range localities {
		loc := &localities[i]
		m := &metrics[i]

		var burden float64
		if maxIDPs > 0 {
			burden = float64(loc.TotalIDPs) / float64(maxIDPs) * 100
		}

		var distanceScore float64
		if maxDist > 0 {
			distanceScore = m.DistNearestCriticalKM / maxDist * 100
		}

		// When no locality has any critical facility within 20 km, access is
		// uniformly worst-case on the count axis.
		countScore := 100.0
		if maxCount > 0 {
			countScore = (1 - float64(m.CriticalWithin20KM)/float64(maxCount)) * 100
		}

		access := cfg.DistanceWeight*distanceScore + cfg.CountWeight*countScore

		var origin float64
		if loc.TotalIDPs > 0 {
			if fromCapital, ok := loc.OriginIDPs[cfg.CapitalOriginKey]; ok {
				origin = float64(fromCapital) / float64(loc.TotalIDPs) * 100
			}
		}

		index := cfg.BurdenWeight*burden + cfg.AccessWeight*access + cfg.OriginWeight*origin

		scores[i] = model.VulnerabilityScore{
			LocalityCode:         loc.Code,
			BurdenScore:          burden,
			AccessScore:          access,
			OriginIntensityScore: origin,
			VulnerabilityIndex:   index,
			RiskTier:             Classify(index),
		}
	}

	return scores, nil
}
