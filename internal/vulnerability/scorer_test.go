package vulnerability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relief-analytics/crisis-cli/internal/model"
)

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultConfig()))

	bad := DefaultConfig()
	bad.BurdenWeight = 0.5
	assert.Error(t, ValidateConfig(bad))

	bad = DefaultConfig()
	bad.DistanceWeight = 0.7
	assert.Error(t, ValidateConfig(bad))

	bad = DefaultConfig()
	bad.OriginWeight = -0.2
	bad.BurdenWeight = 0.8
	assert.Error(t, ValidateConfig(bad))

	bad = DefaultConfig()
	bad.CapitalOriginKey = ""
	assert.Error(t, ValidateConfig(bad))
}

func TestScoreInputValidation(t *testing.T) {
	_, err := Score(nil, nil, DefaultConfig())
	assert.Error(t, err)

	locs := []model.Locality{{Code: "SD01"}}
	_, err = Score(locs, nil, DefaultConfig())
	assert.Error(t, err)
}

func TestScoreComponents(t *testing.T) {
	locs := []model.Locality{
		{
			Code:       "SD01",
			TotalIDPs:  100_000,
			OriginIDPs: map[string]int64{"origin_khartoum": 50_000},
		},
		{
			Code:       "SD02",
			TotalIDPs:  50_000,
			OriginIDPs: map[string]int64{"origin_khartoum": 50_000},
		},
		{
			Code:      "SD03",
			TotalIDPs: 0,
		},
	}
	metrics := []model.ProximityMetrics{
		{LocalityCode: "SD01", DistNearestCriticalKM: 0, CriticalWithin20KM: 4},
		{LocalityCode: "SD02", DistNearestCriticalKM: 25, CriticalWithin20KM: 2},
		{LocalityCode: "SD03", DistNearestCriticalKM: 50, CriticalWithin20KM: 0},
	}

	scores, err := Score(locs, metrics, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, scores, 3)

	// Burden: ratios of 100k / 50k / 0 against the 100k maximum.
	assert.InDelta(t, 100.0, scores[0].BurdenScore, 1e-9)
	assert.InDelta(t, 50.0, scores[1].BurdenScore, 1e-9)
	assert.InDelta(t, 0.0, scores[2].BurdenScore, 1e-9)

	// Access: distance normalized by the 50 km maximum, counts by 4.
	// SD01: 0.6*0   + 0.4*(1-4/4)*100 = 0
	// SD02: 0.6*50  + 0.4*(1-2/4)*100 = 50
	// SD03: 0.6*100 + 0.4*(1-0/4)*100 = 100
	assert.InDelta(t, 0.0, scores[0].AccessScore, 1e-9)
	assert.InDelta(t, 50.0, scores[1].AccessScore, 1e-9)
	assert.InDelta(t, 100.0, scores[2].AccessScore, 1e-9)

	// Origin intensity: capital share of total IDPs.
	assert.InDelta(t, 50.0, scores[0].OriginIntensityScore, 1e-9)
	assert.InDelta(t, 100.0, scores[1].OriginIntensityScore, 1e-9)
	assert.InDelta(t, 0.0, scores[2].OriginIntensityScore, 1e-9)

	// Composite: 0.4*burden + 0.4*access + 0.2*origin.
	assert.InDelta(t, 50.0, scores[0].VulnerabilityIndex, 1e-9)
	assert.InDelta(t, 60.0, scores[1].VulnerabilityIndex, 1e-9)
	assert.InDelta(t, 40.0, scores[2].VulnerabilityIndex, 1e-9)

	assert.Equal(t, RiskModerate, scores[0].RiskTier)
	assert.Equal(t, RiskHigh, scores[1].RiskTier) // inclusive lower bound at 60
	assert.Equal(t, RiskModerate, scores[2].RiskTier)
}

func TestScoreBounds(t *testing.T) {
	locs := []model.Locality{
		{Code: "A", TotalIDPs: 12, OriginIDPs: map[string]int64{"origin_khartoum": 12}},
		{Code: "B", TotalIDPs: 7000},
		{Code: "C", TotalIDPs: 1},
	}
	metrics := []model.ProximityMetrics{
		{LocalityCode: "A", DistNearestCriticalKM: 3.2, CriticalWithin20KM: 1},
		{LocalityCode: "B", DistNearestCriticalKM: 180.5, CriticalWithin20KM: 0},
		{LocalityCode: "C", DistNearestCriticalKM: 42.0, CriticalWithin20KM: 9},
	}

	scores, err := Score(locs, metrics, DefaultConfig())
	require.NoError(t, err)

	for _, s := range scores {
		for name, v := range map[string]float64{
			"burden":    s.BurdenScore,
			"access":    s.AccessScore,
			"origin":    s.OriginIntensityScore,
			"composite": s.VulnerabilityIndex,
		} {
			assert.GreaterOrEqual(t, v, 0.0, "%s for %s", name, s.LocalityCode)
			assert.LessOrEqual(t, v, 100.0, "%s for %s", name, s.LocalityCode)
		}
	}
}

// A dataset where every locality reports zero IDPs must yield zero burden
// scores instead of a division error.
func TestScoreDegenerateZeroIDPs(t *testing.T) {
	locs := []model.Locality{
		{Code: "A"},
		{Code: "B"},
	}
	metrics := []model.ProximityMetrics{
		{LocalityCode: "A", DistNearestCriticalKM: 10, CriticalWithin20KM: 1},
		{LocalityCode: "B", DistNearestCriticalKM: 20, CriticalWithin20KM: 2},
	}

	scores, err := Score(locs, metrics, DefaultConfig())
	require.NoError(t, err)
	for _, s := range scores {
		assert.Zero(t, s.BurdenScore)
		assert.Zero(t, s.OriginIntensityScore)
	}
}

// No critical facility within 20 km anywhere: the count axis is uniformly
// worst-case.
func TestScoreNoFacilitiesWithin20KM(t *testing.T) {
	locs := []model.Locality{
		{Code: "A", TotalIDPs: 10},
		{Code: "B", TotalIDPs: 20},
	}
	metrics := []model.ProximityMetrics{
		{LocalityCode: "A", DistNearestCriticalKM: 30},
		{LocalityCode: "B", DistNearestCriticalKM: 60},
	}

	scores, err := Score(locs, metrics, DefaultConfig())
	require.NoError(t, err)

	// A: 0.6*50 + 0.4*100 = 70; B: 0.6*100 + 0.4*100 = 100.
	assert.InDelta(t, 70.0, scores[0].AccessScore, 1e-9)
	assert.InDelta(t, 100.0, scores[1].AccessScore, 1e-9)
}

// Missing origin breakdown is absorbed as a zero origin-intensity score.
func TestScoreMissingOriginBreakdown(t *testing.T) {
	locs := []model.Locality{
		{Code: "A", TotalIDPs: 500, OriginIDPs: map[string]int64{"origin_gedaref": 500}},
	}
	metrics := []model.ProximityMetrics{
		{LocalityCode: "A", DistNearestCriticalKM: 5, CriticalWithin20KM: 1},
	}

	scores, err := Score(locs, metrics, DefaultConfig())
	require.NoError(t, err)
	assert.Zero(t, scores[0].OriginIntensityScore)
}
