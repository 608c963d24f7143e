package model

import "time"

// RunParams records the knobs an analysis run was executed with, so a saved
// run can be interpreted and reproduced later.
type RunParams struct {
	Seed             int64   `json:"seed"`
	BurdenWeight     float64 `json:"burden_weight"`
	AccessWeight     float64 `json:"access_weight"`
	OriginWeight     float64 `json:"origin_weight"`
	DistanceWeight   float64 `json:"distance_weight"`
	CountWeight      float64 `json:"count_weight"`
	CapitalOriginKey string  `json:"capital_origin_key"`
}

// Summary aggregates one analysis run for reporting.
type Summary struct {
	Localities         int            `json:"localities"`
	Facilities         int            `json:"facilities"`
	CriticalFacilities int            `json:"critical_facilities"`
	TotalIDPs          int64          `json:"total_idps"`
	TierCounts         map[string]int `json:"risk_tier_counts"`
	MeanDistKM         float64        `json:"mean_dist_to_critical_km"`
	MedianDistKM       float64        `json:"median_dist_to_critical_km"`
	// BeyondTwentyKM counts localities with no hospital or clinic within
	// 20 km, and IDPsBeyondTwentyKM the displaced persons living in them.
	BeyondTwentyKM     int64          `json:"localities_beyond_20km"`
	IDPsBeyondTwentyKM int64          `json:"idps_beyond_20km"`
	CentroidSources    map[string]int `json:"centroid_sources"`
}

// AnalysisRun is one persisted execution of the full analysis pipeline.
type AnalysisRun struct {
	ID        string    `json:"id"`
	Params    RunParams `json:"params"`
	Summary   *Summary  `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
