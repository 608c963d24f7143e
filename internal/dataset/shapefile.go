package dataset

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/relief-analytics/crisis-cli/internal/model"
)

// BoundaryFeature is one admin-level-2 polygon from a COD-AB shapefile,
// reduced to its attributes and area centroid.
type BoundaryFeature struct {
	LocalityCode string
	LocalityName string
	RegionName   string
	Centroid     model.Point
}

// LoadBoundaryShapefile reads a COD-AB admin boundary shapefile and returns
// one feature per polygon with its computed centroid. These centroids can
// seed the gazetteer's verified table, replacing region-center fallbacks
// with true polygon centroids where the shapefile covers the locality.
func LoadBoundaryShapefile(path string) ([]BoundaryFeature, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open boundary shapefile")
	}
	defer func() { _ = reader.Close() }()

	nameIdx := fieldIndex(reader, "ADM2_EN")
	codeIdx := fieldIndex(reader, "ADM2_PCODE")
	regionIdx := fieldIndex(reader, "ADM1_EN")
	if nameIdx < 0 || codeIdx < 0 {
		return nil, eris.New("dataset: boundary shapefile is missing ADM2_EN/ADM2_PCODE fields")
	}

	var features []BoundaryFeature
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok || len(poly.Points) == 0 {
			skipped++
			continue
		}

		centroid, ok := polygonCentroid(poly)
		if !ok {
			skipped++
			continue
		}

		feature := BoundaryFeature{
			LocalityCode: strings.TrimSpace(reader.Attribute(codeIdx)),
			LocalityName: strings.TrimSpace(reader.Attribute(nameIdx)),
			Centroid:     centroid,
		}
		if regionIdx >= 0 {
			feature.RegionName = strings.TrimSpace(reader.Attribute(regionIdx))
		}
		features = append(features, feature)
	}

	if skipped > 0 {
		zap.L().Warn("dataset: skipped unreadable boundary shapes", zap.Int("skipped", skipped))
	}
	zap.L().Info("dataset: loaded boundary shapefile features", zap.Int("count", len(features)))
	return features, nil
}

// VerifiedFromFeatures builds a gazetteer verified-coordinate table from
// shapefile features, keyed by locality name.
func VerifiedFromFeatures(features []BoundaryFeature) map[string]model.Point {
	verified := make(map[string]model.Point, len(features))
	for _, f := range features {
		if f.LocalityName != "" {
			verified[f.LocalityName] = f.Centroid
		}
	}
	return verified
}

// fieldIndex returns the index of a named attribute field, or -1.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// polygonCentroid computes the area centroid of the polygon's outer ring
// via the shoelace formula, falling back to the vertex mean for degenerate
// rings. Coordinates are treated as planar, which is adequate for
// locality-scale admin polygons.
func polygonCentroid(p *shp.Polygon) (model.Point, bool) {
	end := len(p.Points)
	if p.NumParts > 1 {
		end = int(p.Parts[1])
	}
	ring := p.Points[:end]
	if len(ring) == 0 {
		return model.Point{}, false
	}

	var area, cx, cy float64
	for i := 0; i < len(ring); i++ {
		j := (i + 1) % len(ring)
		cross := ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
		area += cross
		cx += (ring[i].X + ring[j].X) * cross
		cy += (ring[i].Y + ring[j].Y) * cross
	}

	if area == 0 {
		var sx, sy float64
		for _, pt := range ring {
			sx += pt.X
			sy += pt.Y
		}
		n := float64(len(ring))
		return model.Point{Lat: sy / n, Lon: sx / n}, true
	}

	area /= 2
	return model.Point{Lat: cy / (6 * area), Lon: cx / (6 * area)}, true
}
