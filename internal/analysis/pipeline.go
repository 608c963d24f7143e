// Package analysis orchestrates the full pipeline: centroid resolution,
// proximity metrics, vulnerability scoring, and run summarization.
package analysis

import (
	"context"
	"math/rand"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/relief-analytics/crisis-cli/internal/gazetteer"
	"github.com/relief-analytics/crisis-cli/internal/model"
	"github.com/relief-analytics/crisis-cli/internal/proximity"
	"github.com/relief-analytics/crisis-cli/internal/vulnerability"
)

// Options configures one pipeline run.
type Options struct {
	Scoring vulnerability.Config
	Tables  gazetteer.Tables
	Seed    int64
	Workers int
}

// Result is the full output of one pipeline run. Rows is the flattened
// export table; the intermediate slices are kept for callers that need the
// unrounded components.
type Result struct {
	Run        model.AnalysisRun
	Rows       []model.AnalysisRow
	Localities []model.Locality
	Facilities []model.Facility
	Metrics    []model.ProximityMetrics
	Scores     []model.VulnerabilityScore
}

// Run executes the pipeline over the merged locality set and facility list.
// Localities are processed in input order; together with the seeded random
// source this makes synthetic centroids reproducible across runs.
func Run(ctx context.Context, localities []model.Locality, facilities []model.Facility, opts Options) (*Result, error) {
	if len(localities) == 0 {
		return nil, eris.New("analysis: no localities to analyze")
	}

	resolver, err := gazetteer.NewResolver(opts.Tables, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return nil, err
	}
	for i := range localities {
		localities[i].Centroid, localities[i].CentroidSource =
			resolver.Resolve(localities[i].Name, localities[i].RegionName)
	}

	analyzer, err := proximity.NewAnalyzer(facilities, proximity.WithWorkers(opts.Workers))
	if err != nil {
		return nil, err
	}
	metrics, err := analyzer.Analyze(ctx, localities)
	if err != nil {
		return nil, err
	}

	scores, err := vulnerability.Score(localities, metrics, opts.Scoring)
	if err != nil {
		return nil, err
	}

	rows := buildRows(localities, metrics, scores)
	summary := Summarize(localities, facilities, metrics, scores)

	zap.L().Info("analysis: run complete",
		zap.Int("localities", len(localities)),
		zap.Int("facilities", len(facilities)),
		zap.Int64("total_idps", summary.TotalIDPs),
	)

	return &Result{
		Run: model.AnalysisRun{
			Params: model.RunParams{
				Seed:             opts.Seed,
				BurdenWeight:     opts.Scoring.BurdenWeight,
				AccessWeight:     opts.Scoring.AccessWeight,
				OriginWeight:     opts.Scoring.OriginWeight,
				DistanceWeight:   opts.Scoring.DistanceWeight,
				CountWeight:      opts.Scoring.CountWeight,
				CapitalOriginKey: opts.Scoring.CapitalOriginKey,
			},
			Summary: summary,
		},
		Rows:       rows,
		Localities: localities,
		Facilities: facilities,
		Metrics:    metrics,
		Scores:     scores,
	}, nil
}

func buildRows(localities []model.Locality, metrics []model.ProximityMetrics, scores []model.VulnerabilityScore) []model.AnalysisRow {
	rows := make([]model.AnalysisRow, len(localities))
	for i := range localities {
		rows[i] = model.AnalysisRow{
			LocalityCode:          localities[i].Code,
			LocalityName:          localities[i].Name,
			RegionName:            localities[i].RegionName,
			TotalIDPs:             localities[i].TotalIDPs,
			DistNearestCriticalKM: metrics[i].DistNearestCriticalKM,
			CriticalWithin20KM:    metrics[i].CriticalWithin20KM,
			BurdenScore:           scores[i].BurdenScore,
			AccessScore:           scores[i].AccessScore,
			OriginIntensityScore:  scores[i].OriginIntensityScore,
			VulnerabilityIndex:    scores[i].VulnerabilityIndex,
			RiskTier:              scores[i].RiskTier,
			Centroid:              localities[i].Centroid,
			CentroidSource:        string(localities[i].CentroidSource),
		}
	}
	return rows
}
