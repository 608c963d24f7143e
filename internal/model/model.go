// Package model defines the core data types shared across the analysis pipeline.
package model

import "fmt"

// Point is a geographic coordinate in decimal degrees (WGS84).
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CoordinateSource records how a locality centroid was obtained.
type CoordinateSource string

const (
	// SourceVerified means the centroid came from the curated gazetteer table.
	SourceVerified CoordinateSource = "verified"
	// SourceRegionCenter means the centroid is a region center with a random offset.
	SourceRegionCenter CoordinateSource = "region_center"
	// SourceCountryCenter means neither the locality nor its region was recognized.
	SourceCountryCenter CoordinateSource = "country_center"
)

// Locality is an administrative unit (admin level 2) hosting displaced persons.
type Locality struct {
	Code            string           `json:"locality_code"`
	Name            string           `json:"locality_name"`
	RegionName      string           `json:"state_name"`
	Centroid        Point            `json:"centroid"`
	CentroidSource  CoordinateSource `json:"centroid_source"`
	TotalIDPs       int64            `json:"total_idps"`
	TotalHouseholds int64            `json:"total_households"`
	// OriginIDPs maps an origin region name (e.g. "origin_khartoum") to the
	// number of IDPs displaced from that region. Empty when the source data
	// carries no origin breakdown.
	OriginIDPs map[string]int64 `json:"origin_idps,omitempty"`
	AreaSqKm   float64          `json:"area_sqkm,omitempty"`
}

// HasOriginBreakdown reports whether any per-origin counts are present.
func (l *Locality) HasOriginBreakdown() bool {
	for _, n := range l.OriginIDPs {
		if n > 0 {
			return true
		}
	}
	return false
}

// Facility type vocabulary, standardized by the cleaning stage.
const (
	FacilityHospital     = "hospital"
	FacilityClinic       = "clinic"
	FacilityHealthPost   = "health_post"
	FacilityPharmacy     = "pharmacy"
	FacilityDentalClinic = "dental_clinic"
	FacilityOther        = "other"
	FacilityUnknown      = "unknown"
)

// Facility is a point of health-service delivery.
type Facility struct {
	Name     string `json:"name"`
	Type     string `json:"facility_type_standard"`
	Location Point  `json:"location"`
}

// IsCritical reports whether the facility is a hospital or clinic.
func (f *Facility) IsCritical() bool {
	return f.Type == FacilityHospital || f.Type == FacilityClinic
}

// DisplayName returns the facility name, or a typed placeholder when the
// source data carries no name.
func (f *Facility) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	t := f.Type
	if t == "" {
		t = "facility"
	}
	return fmt.Sprintf("Unnamed %s", capitalize(t))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

// ProximityMetrics holds per-locality accessibility metrics, keyed by
// locality code. Distances are great-circle kilometers; counts are taken in
// degree space with the fixed 111 km/degree conversion.
type ProximityMetrics struct {
	LocalityCode          string  `json:"locality_code"`
	DistNearestCriticalKM float64 `json:"dist_nearest_critical_km"`
	DistNearestAnyKM      float64 `json:"dist_nearest_any_km"`
	CriticalWithin5KM     int     `json:"critical_within_5km"`
	CriticalWithin10KM    int     `json:"critical_within_10km"`
	CriticalWithin20KM    int     `json:"critical_within_20km"`
	AllWithin5KM          int     `json:"all_facilities_within_5km"`
	AllWithin10KM         int     `json:"all_facilities_within_10km"`
	AllWithin20KM         int     `json:"all_facilities_within_20km"`
}

// VulnerabilityScore holds the three component scores, the weighted
// composite index, and the derived risk tier for one locality.
type VulnerabilityScore struct {
	LocalityCode         string  `json:"locality_code"`
	BurdenScore          float64 `json:"idp_burden_score"`
	AccessScore          float64 `json:"facility_access_score"`
	OriginIntensityScore float64 `json:"origin_intensity_score"`
	VulnerabilityIndex   float64 `json:"vulnerability_index"`
	RiskTier             string  `json:"risk_category"`
}

// AnalysisRow is one row of the exported per-locality analysis table. Field
// names follow the export contract consumed by the dashboard layer.
type AnalysisRow struct {
	LocalityCode          string  `json:"locality_code"`
	LocalityName          string  `json:"locality_name"`
	RegionName            string  `json:"state_name"`
	TotalIDPs             int64   `json:"total_idps"`
	DistNearestCriticalKM float64 `json:"dist_to_nearest_hospital_km"`
	CriticalWithin20KM    int     `json:"hospitals_within_20km"`
	BurdenScore           float64 `json:"idp_burden_score"`
	AccessScore           float64 `json:"facility_access_score"`
	OriginIntensityScore  float64 `json:"origin_intensity_score"`
	VulnerabilityIndex    float64 `json:"vulnerability_index"`
	RiskTier              string  `json:"risk_category"`
	Centroid              Point   `json:"centroid"`
	CentroidSource        string  `json:"centroid_source"`
}
