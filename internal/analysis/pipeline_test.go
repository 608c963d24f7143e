package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relief-analytics/crisis-cli/internal/gazetteer"
	"github.com/relief-analytics/crisis-cli/internal/model"
	"github.com/relief-analytics/crisis-cli/internal/vulnerability"
)

func testTables() gazetteer.Tables {
	return gazetteer.Tables{
		Verified: map[string]model.Point{
			"Khartoum": {Lat: 15.5007, Lon: 32.5599},
			"Kosti":    {Lat: 13.1667, Lon: 32.6667},
		},
		RegionCenters: map[string]model.Point{},
		CountryCenter: model.Point{Lat: 15.5, Lon: 32.5},
	}
}

func testFacilities() []model.Facility {
	return []model.Facility{
		{Name: "Khartoum Teaching Hospital", Type: model.FacilityHospital, Location: model.Point{Lat: 15.5007, Lon: 32.5599}},
		{Name: "Kosti Clinic", Type: model.FacilityClinic, Location: model.Point{Lat: 13.1667, Lon: 32.6667}},
		{Name: "Central Pharmacy", Type: model.FacilityPharmacy, Location: model.Point{Lat: 15.6, Lon: 32.5}},
	}
}

func testLocalities() []model.Locality {
	return []model.Locality{
		{
			Code: "SD01001", Name: "Khartoum", RegionName: "Khartoum",
			TotalIDPs:  100000,
			OriginIDPs: map[string]int64{"origin_khartoum": 50000},
		},
		{
			Code: "SD16001", Name: "Kosti", RegionName: "White Nile",
			TotalIDPs:  50000,
			OriginIDPs: map[string]int64{"origin_khartoum": 50000},
		},
		{
			Code: "SD99001", Name: "Unknown Locality", RegionName: "Nowhere",
			TotalIDPs: 0,
		},
	}
}

func testOptions() Options {
	return Options{
		Scoring: vulnerability.DefaultConfig(),
		Tables:  testTables(),
		Seed:    42,
	}
}

func TestRunEndToEnd(t *testing.T) {
	res, err := Run(context.Background(), testLocalities(), testFacilities(), testOptions())
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)

	khartoum, kosti, unknown := res.Rows[0], res.Rows[1], res.Rows[2]

	// Verified localities sit on their facility; the unknown one falls back
	// to the country center, 6.42 km from the Khartoum hospital.
	assert.InDelta(t, 0, khartoum.DistNearestCriticalKM, 1e-9)
	assert.InDelta(t, 0, kosti.DistNearestCriticalKM, 1e-9)
	assert.InDelta(t, 6.418795, unknown.DistNearestCriticalKM, 0.001)

	assert.Equal(t, "verified", khartoum.CentroidSource)
	assert.Equal(t, "verified", kosti.CentroidSource)
	assert.Equal(t, "country_center", unknown.CentroidSource)

	// Every locality has exactly one hospital or clinic within 20 km.
	assert.Equal(t, 1, khartoum.CriticalWithin20KM)
	assert.Equal(t, 1, kosti.CriticalWithin20KM)
	assert.Equal(t, 1, unknown.CriticalWithin20KM)

	assert.InDelta(t, 100, khartoum.BurdenScore, 1e-9)
	assert.InDelta(t, 50, kosti.BurdenScore, 1e-9)
	assert.InDelta(t, 0, unknown.BurdenScore, 1e-9)

	// Count scores are uniformly zero (everyone matches the max count of 1),
	// so access reduces to the distance component.
	assert.InDelta(t, 0, khartoum.AccessScore, 1e-9)
	assert.InDelta(t, 0, kosti.AccessScore, 1e-9)
	assert.InDelta(t, 60, unknown.AccessScore, 1e-9)

	assert.InDelta(t, 50, khartoum.OriginIntensityScore, 1e-9)
	assert.InDelta(t, 100, kosti.OriginIntensityScore, 1e-9)
	assert.InDelta(t, 0, unknown.OriginIntensityScore, 1e-9)

	assert.InDelta(t, 50, khartoum.VulnerabilityIndex, 1e-9)
	assert.InDelta(t, 40, kosti.VulnerabilityIndex, 1e-9)
	assert.InDelta(t, 24, unknown.VulnerabilityIndex, 1e-9)

	assert.Equal(t, vulnerability.RiskModerate, khartoum.RiskTier)
	assert.Equal(t, vulnerability.RiskModerate, kosti.RiskTier)
	assert.Equal(t, vulnerability.RiskLow, unknown.RiskTier)
}

func TestRunSummary(t *testing.T) {
	res, err := Run(context.Background(), testLocalities(), testFacilities(), testOptions())
	require.NoError(t, err)

	s := res.Run.Summary
	require.NotNil(t, s)
	assert.Equal(t, 3, s.Localities)
	assert.Equal(t, 3, s.Facilities)
	assert.Equal(t, 2, s.CriticalFacilities)
	assert.Equal(t, int64(150000), s.TotalIDPs)
	assert.Equal(t, map[string]int{"Moderate": 2, "Low": 1}, s.TierCounts)
	assert.Equal(t, map[string]int{"verified": 2, "country_center": 1}, s.CentroidSources)
	assert.InDelta(t, 6.418795/3, s.MeanDistKM, 0.001)
	assert.InDelta(t, 0, s.MedianDistKM, 1e-9)
	assert.EqualValues(t, 0, s.BeyondTwentyKM)
	assert.EqualValues(t, 0, s.IDPsBeyondTwentyKM)
}

func TestRunRecordsParams(t *testing.T) {
	opts := testOptions()
	opts.Seed = 7

	res, err := Run(context.Background(), testLocalities(), testFacilities(), opts)
	require.NoError(t, err)

	assert.Equal(t, int64(7), res.Run.Params.Seed)
	assert.InDelta(t, 0.4, res.Run.Params.BurdenWeight, 1e-9)
	assert.Equal(t, "origin_khartoum", res.Run.Params.CapitalOriginKey)
}

func TestRunDeterministicFallbacks(t *testing.T) {
	// Region-center fallback draws from the seeded rng.
	tables := testTables()
	tables.RegionCenters["Elsewhere"] = model.Point{Lat: 14.0, Lon: 30.0}

	opts := testOptions()
	opts.Tables = tables

	first, err := Run(context.Background(), testLocalitiesWithRegion("Elsewhere"), testFacilities(), opts)
	require.NoError(t, err)
	second, err := Run(context.Background(), testLocalitiesWithRegion("Elsewhere"), testFacilities(), opts)
	require.NoError(t, err)

	assert.Equal(t, first.Rows[2].Centroid, second.Rows[2].Centroid)
	assert.Equal(t, "region_center", first.Rows[2].CentroidSource)
	assert.InDelta(t, 14.0, first.Rows[2].Centroid.Lat, 0.5)
	assert.InDelta(t, 30.0, first.Rows[2].Centroid.Lon, 0.5)
}

func testLocalitiesWithRegion(region string) []model.Locality {
	l := testLocalities()
	l[2].RegionName = region
	return l
}

func TestRunNoLocalities(t *testing.T) {
	_, err := Run(context.Background(), nil, testFacilities(), testOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no localities")
}

func TestRunNoFacilities(t *testing.T) {
	_, err := Run(context.Background(), testLocalities(), nil, testOptions())
	assert.Error(t, err)
}

func TestRunBadWeights(t *testing.T) {
	opts := testOptions()
	opts.Scoring.BurdenWeight = 0.9

	_, err := Run(context.Background(), testLocalities(), testFacilities(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1")
}
