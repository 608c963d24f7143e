package export

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/relief-analytics/crisis-cli/internal/model"
)

// LocalityFeatureCollection builds a GeoJSON FeatureCollection of locality
// centroids carrying the scored analysis columns as properties.
func LocalityFeatureCollection(rows []model.AnalysisRow) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{}
	for i := range rows {
		r := &rows[i]
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       r.LocalityCode,
			Geometry: geom.NewPointFlat(geom.XY, []float64{r.Centroid.Lon, r.Centroid.Lat}).SetSRID(4326),
			Properties: map[string]any{
				"locality_code":               r.LocalityCode,
				"locality_name":               r.LocalityName,
				"state_name":                  r.RegionName,
				"total_idps":                  r.TotalIDPs,
				"centroid_source":             r.CentroidSource,
				"dist_to_nearest_hospital_km": Round2(r.DistNearestCriticalKM),
				"hospitals_within_20km":       r.CriticalWithin20KM,
				"idp_burden_score":            Round2(r.BurdenScore),
				"facility_access_score":       Round2(r.AccessScore),
				"origin_intensity_score":      Round2(r.OriginIntensityScore),
				"vulnerability_index":         Round2(r.VulnerabilityIndex),
				"risk_category":               r.RiskTier,
			},
		})
	}
	return fc
}

// FacilityFeatureCollection builds a GeoJSON overlay of health facilities.
func FacilityFeatureCollection(facilities []model.Facility) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{}
	for i := range facilities {
		f := &facilities[i]
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{f.Location.Lon, f.Location.Lat}).SetSRID(4326),
			Properties: map[string]any{
				"facility_name":          f.DisplayName(),
				"facility_type_standard": f.Type,
				"critical":               f.IsCritical(),
			},
		})
	}
	return fc
}

// WriteGeoJSON writes a FeatureCollection to path.
func WriteGeoJSON(path string, fc *geojson.FeatureCollection) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return eris.Wrap(err, "export: marshal GeoJSON")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "export: write GeoJSON")
	}
	zap.L().Info("export: wrote GeoJSON", zap.String("path", path), zap.Int("features", len(fc.Features)))
	return nil
}
