// Package proximity computes per-locality accessibility metrics against
// health-facility spatial indexes.
package proximity

import (
	"context"
	"runtime"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/relief-analytics/crisis-cli/internal/model"
	"github.com/relief-analytics/crisis-cli/internal/spatial"
)

// accessibilityThresholdsKM are the fixed radii for facility counts.
var accessibilityThresholdsKM = [3]float64{5, 10, 20}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithWorkers sets the number of concurrent per-locality workers. The
// indexes are immutable after construction, so read-only parallel queries
// are safe.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// Analyzer answers nearest-facility and radius-count queries for locality
// centroids. Facilities are partitioned once at construction into the full
// set and the critical (hospital/clinic) subset; membership is fixed for
// the run.
type Analyzer struct {
	all      []model.Facility
	critical []model.Facility
	allIdx   *spatial.Index
	critIdx  *spatial.Index
	workers  int
}

// coords extracts the spatial coordinates of each facility, preserving order.
func coords(facilities []model.Facility) []spatial.Coord {
	out := make([]spatial.Coord, len(facilities))
	for i, f := range facilities {
		out[i] = spatial.Coord{Lon: f.Location.Lon, Lat: f.Location.Lat}
	}
	return out
}

// NewAnalyzer builds both spatial indexes. An empty facility set, or a set
// with no critical facilities, is a configuration error: every score
// downstream is meaningless without at least one hospital or clinic.
func NewAnalyzer(facilities []model.Facility, opts ...Option) (*Analyzer, error) {
	if len(facilities) == 0 {
		return nil, eris.New("proximity: facility dataset is empty")
	}

	var critical []model.Facility
	for _, f := range facilities {
		if f.IsCritical() {
			critical = append(critical, f)
		}
	}
	if len(critical) == 0 {
		return nil, eris.New("proximity: no critical facilities (hospital/clinic) in dataset")
	}

	allIdx, err := spatial.NewIndex(coords(facilities))
	if err != nil {
		return nil, eris.Wrap(err, "proximity: build all-facility index")
	}
	critIdx, err := spatial.NewIndex(coords(critical))
	if err != nil {
		return nil, eris.Wrap(err, "proximity: build critical-facility index")
	}

	a := &Analyzer{
		all:      facilities,
		critical: critical,
		allIdx:   allIdx,
		critIdx:  critIdx,
		workers:  runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(a)
	}

	zap.L().Info("proximity: indexes built",
		zap.Int("facilities", len(facilities)),
		zap.Int("critical", len(critical)),
	)

	return a, nil
}

// CriticalCount returns the number of critical facilities in the dataset.
func (a *Analyzer) CriticalCount() int { return len(a.critical) }

// Analyze produces one ProximityMetrics record per locality, preserving
// input order. Nearest candidates are selected in degree space and the
// reported distances recomputed with the haversine formula.
func (a *Analyzer) Analyze(ctx context.Context, localities []model.Locality) ([]model.ProximityMetrics, error) {
	if len(localities) == 0 {
		return nil, eris.New("proximity: no localities to analyze")
	}

	out := make([]model.ProximityMetrics, len(localities))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range localities {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = a.analyzeOne(&localities[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "proximity: analyze localities")
	}

	return out, nil
}

func (a *Analyzer) analyzeOne(loc *model.Locality) model.ProximityMetrics {
	q := spatial.Coord{Lon: loc.Centroid.Lon, Lat: loc.Centroid.Lat}

	critNearest, _ := a.critIdx.Nearest(q)
	critTarget := a.critical[critNearest].Location
	distCritical := spatial.DistanceKM(loc.Centroid.Lat, loc.Centroid.Lon, critTarget.Lat, critTarget.Lon)

	anyNearest, _ := a.allIdx.Nearest(q)
	anyTarget := a.all[anyNearest].Location
	distAny := spatial.DistanceKM(loc.Centroid.Lat, loc.Centroid.Lon, anyTarget.Lat, anyTarget.Lon)

	var critCounts, allCounts [3]int
	for i, km := range accessibilityThresholdsKM {
		radius := spatial.KMToDegrees(km)
		critCounts[i] = len(a.critIdx.WithinRadius(q, radius))
		allCounts[i] = len(a.allIdx.WithinRadius(q, radius))
	}

	return model.ProximityMetrics{
		LocalityCode:          loc.Code,
		DistNearestCriticalKM: distCritical,
		DistNearestAnyKM:      distAny,
		CriticalWithin5KM:     critCounts[0],
		CriticalWithin10KM:    critCounts[1],
		CriticalWithin20KM:    critCounts[2],
		AllWithin5KM:          allCounts[0],
		AllWithin10KM:         allCounts[1],
		AllWithin20KM:         allCounts[2],
	}
}
