// Package export writes analysis results to the CSV and GeoJSON artifacts
// consumed downstream.
package export

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/relief-analytics/crisis-cli/internal/model"
)

// analysisColumns is the CSV column contract, in order.
var analysisColumns = []string{
	"locality_code",
	"locality_name",
	"state_name",
	"total_idps",
	"latitude",
	"longitude",
	"centroid_source",
	"dist_to_nearest_hospital_km",
	"hospitals_within_20km",
	"idp_burden_score",
	"facility_access_score",
	"origin_intensity_score",
	"vulnerability_index",
	"risk_category",
}

// WriteAnalysisCSV writes the per-locality analysis table. Scores and
// distances carry full precision through the pipeline and are rounded to two
// decimals only here, at the edge.
func WriteAnalysisCSV(path string, rows []model.AnalysisRow) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create analysis CSV")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(analysisColumns); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}

	for i := range rows {
		r := &rows[i]
		record := []string{
			r.LocalityCode,
			r.LocalityName,
			r.RegionName,
			strconv.FormatInt(r.TotalIDPs, 10),
			strconv.FormatFloat(r.Centroid.Lat, 'f', 6, 64),
			strconv.FormatFloat(r.Centroid.Lon, 'f', 6, 64),
			r.CentroidSource,
			formatScore(r.DistNearestCriticalKM),
			strconv.Itoa(r.CriticalWithin20KM),
			formatScore(r.BurdenScore),
			formatScore(r.AccessScore),
			formatScore(r.OriginIntensityScore),
			formatScore(r.VulnerabilityIndex),
			r.RiskTier,
		}
		if err := w.Write(record); err != nil {
			return eris.Wrapf(err, "export: write CSV row %s", r.LocalityCode)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush analysis CSV")
	}
	if err := f.Close(); err != nil {
		return eris.Wrap(err, "export: close analysis CSV")
	}

	zap.L().Info("export: wrote analysis CSV", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}

// Round2 rounds to two decimal places, the precision of all exported scores
// and distances.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatScore(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}
