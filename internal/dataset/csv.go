// Package dataset loads the cleaned input tables (IDP displacement, health
// facilities, administrative boundaries) and merges them into the locality
// set the analysis runs over.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/relief-analytics/crisis-cli/internal/model"
)

// originPrefix marks per-origin-region count columns in the IDP table.
const originPrefix = "origin_"

// IDPRecord is one row of the cleaned locality-level displacement table.
type IDPRecord struct {
	LocalityCode    string
	LocalityName    string
	RegionName      string
	TotalIDPs       int64
	TotalHouseholds int64
	OriginIDPs      map[string]int64
}

// Boundary is one row of the cleaned administrative-boundary table.
type Boundary struct {
	LocalityCode string
	LocalityName string
	RegionName   string
	AreaSqKm     float64
}

// header maps column names to their positions, for validated lookups.
type header map[string]int

func readHeader(r *csv.Reader, required []string, source string) (header, error) {
	row, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read %s header", source)
	}
	h := make(header, len(row))
	for i, name := range row {
		h[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := h[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("dataset: %s is missing required columns: %s",
			source, strings.Join(missing, ", "))
	}
	return h, nil
}

func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	// Counts sometimes arrive as floats ("1200.0") from upstream cleaning.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return int64(f)
	}
	return 0
}

// LoadIDPLocalities reads the cleaned locality-level displacement CSV. Every
// column starting with "origin_" is collected into the per-origin map.
func LoadIDPLocalities(path string) ([]IDPRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open IDP locality file")
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	h, err := readHeader(r, []string{
		"locality_code", "locality_displacement", "state_displacement", "total_idps",
	}, "IDP locality table")
	if err != nil {
		return nil, err
	}

	var originCols []string
	for name := range h {
		if strings.HasPrefix(name, originPrefix) {
			originCols = append(originCols, name)
		}
	}

	var records []IDPRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read IDP locality row")
		}

		rec := IDPRecord{
			LocalityCode:    h.get(row, "locality_code"),
			LocalityName:    h.get(row, "locality_displacement"),
			RegionName:      h.get(row, "state_displacement"),
			TotalIDPs:       parseCount(h.get(row, "total_idps")),
			TotalHouseholds: parseCount(h.get(row, "total_households")),
		}
		if rec.LocalityCode == "" {
			continue
		}
		for _, col := range originCols {
			if n := parseCount(h.get(row, col)); n > 0 {
				if rec.OriginIDPs == nil {
					rec.OriginIDPs = make(map[string]int64)
				}
				rec.OriginIDPs[col] = n
			}
		}
		records = append(records, rec)
	}

	zap.L().Info("dataset: loaded IDP locality records", zap.Int("count", len(records)))
	return records, nil
}

// LoadFacilities reads the cleaned health-facility CSV. Rows without valid
// coordinates are skipped with a warning; they cannot be indexed.
func LoadFacilities(path string) ([]model.Facility, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open facility file")
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	h, err := readHeader(r, []string{
		"longitude", "latitude", "facility_type_standard",
	}, "facility table")
	if err != nil {
		return nil, err
	}

	var facilities []model.Facility
	var skipped int
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read facility row")
		}

		lon, lonErr := strconv.ParseFloat(h.get(row, "longitude"), 64)
		lat, latErr := strconv.ParseFloat(h.get(row, "latitude"), 64)
		if lonErr != nil || latErr != nil {
			skipped++
			continue
		}

		facilities = append(facilities, model.Facility{
			Name:     h.get(row, "facility_name"),
			Type:     h.get(row, "facility_type_standard"),
			Location: model.Point{Lat: lat, Lon: lon},
		})
	}

	if skipped > 0 {
		zap.L().Warn("dataset: skipped facilities without coordinates", zap.Int("skipped", skipped))
	}
	zap.L().Info("dataset: loaded facilities", zap.Int("count", len(facilities)))
	return facilities, nil
}

// LoadBoundaries reads the cleaned administrative-boundary CSV, keyed by
// locality code.
func LoadBoundaries(path string) (map[string]Boundary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open boundary file")
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	h, err := readHeader(r, []string{
		"locality_code", "locality_name_en", "state_name_en",
	}, "boundary table")
	if err != nil {
		return nil, err
	}

	boundaries := make(map[string]Boundary)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read boundary row")
		}

		code := h.get(row, "locality_code")
		if code == "" {
			continue
		}
		area, _ := strconv.ParseFloat(h.get(row, "area_sqkm"), 64)
		boundaries[code] = Boundary{
			LocalityCode: code,
			LocalityName: h.get(row, "locality_name_en"),
			RegionName:   h.get(row, "state_name_en"),
			AreaSqKm:     area,
		}
	}

	zap.L().Info("dataset: loaded boundary records", zap.Int("count", len(boundaries)))
	return boundaries, nil
}

// MergeLocalities joins IDP records with boundary metadata into the locality
// set. Centroids are left unset; the resolver fills them in. A record with
// no matching boundary keeps its displacement-table names and is flagged at
// debug level, not dropped.
func MergeLocalities(records []IDPRecord, boundaries map[string]Boundary) []model.Locality {
	localities := make([]model.Locality, 0, len(records))
	for _, rec := range records {
		loc := model.Locality{
			Code:            rec.LocalityCode,
			Name:            rec.LocalityName,
			RegionName:      rec.RegionName,
			TotalIDPs:       rec.TotalIDPs,
			TotalHouseholds: rec.TotalHouseholds,
			OriginIDPs:      rec.OriginIDPs,
		}
		if b, ok := boundaries[rec.LocalityCode]; ok {
			loc.AreaSqKm = b.AreaSqKm
		} else {
			zap.L().Debug("dataset: no boundary record for locality",
				zap.String("locality_code", rec.LocalityCode),
				zap.String("locality", rec.LocalityName),
			)
		}
		localities = append(localities, loc)
	}
	return localities
}
