package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/relief-analytics/crisis-cli/internal/model"
	"github.com/relief-analytics/crisis-cli/internal/vulnerability"
)

// beyondThresholdKM is the access-gap cutoff used in the national summary.
const beyondThresholdKM = 20.0

// Summarize aggregates a run's intermediate outputs into the national
// summary. The input slices are parallel, in locality order.
func Summarize(localities []model.Locality, facilities []model.Facility, metrics []model.ProximityMetrics, scores []model.VulnerabilityScore) *model.Summary {
	s := &model.Summary{
		Localities:      len(localities),
		Facilities:      len(facilities),
		TierCounts:      make(map[string]int),
		CentroidSources: make(map[string]int),
	}

	for i := range facilities {
		if facilities[i].IsCritical() {
			s.CriticalFacilities++
		}
	}

	dists := make([]float64, 0, len(metrics))
	for i := range localities {
		s.TotalIDPs += localities[i].TotalIDPs
		s.TierCounts[scores[i].RiskTier]++
		s.CentroidSources[string(localities[i].CentroidSource)]++

		d := metrics[i].DistNearestCriticalKM
		dists = append(dists, d)
		s.MeanDistKM += d
		if metrics[i].CriticalWithin20KM == 0 {
			s.BeyondTwentyKM++
			s.IDPsBeyondTwentyKM += localities[i].TotalIDPs
		}
	}

	if len(dists) > 0 {
		s.MeanDistKM /= float64(len(dists))
		s.MedianDistKM = median(dists)
	}
	return s
}

func median(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// topRowCount is how many localities the report's ranking table shows.
const topRowCount = 10

// RenderReport formats a saved run as a plain-text situation report.
func RenderReport(run *model.AnalysisRun, rows []model.AnalysisRow) string {
	var b strings.Builder

	b.WriteString("SUDAN CRISIS VULNERABILITY ANALYSIS\n")
	b.WriteString("===================================\n")
	if !run.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Run %s at %s (seed %d)\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04 MST"), run.Params.Seed)
	}
	b.WriteString("\n")

	if s := run.Summary; s != nil {
		b.WriteString("National overview\n")
		fmt.Fprintf(&b, "  Localities analyzed:    %d\n", s.Localities)
		fmt.Fprintf(&b, "  Displaced persons:      %d\n", s.TotalIDPs)
		fmt.Fprintf(&b, "  Health facilities:      %d (%d hospitals/clinics)\n", s.Facilities, s.CriticalFacilities)
		fmt.Fprintf(&b, "  Mean dist to hospital:  %.1f km (median %.1f km)\n", s.MeanDistKM, s.MedianDistKM)
		fmt.Fprintf(&b, "  Beyond 20 km:           %d localities, %d IDPs\n", s.BeyondTwentyKM, s.IDPsBeyondTwentyKM)
		b.WriteString("\n")

		b.WriteString("Risk tiers\n")
		for _, tier := range []string{
			vulnerability.RiskCritical, vulnerability.RiskHigh,
			vulnerability.RiskModerate, vulnerability.RiskLow,
		} {
			fmt.Fprintf(&b, "  %-10s %d\n", tier, s.TierCounts[tier])
		}
		b.WriteString("\n")
	}

	ranked := make([]model.AnalysisRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].VulnerabilityIndex > ranked[j].VulnerabilityIndex
	})

	n := topRowCount
	if len(ranked) < n {
		n = len(ranked)
	}
	if n > 0 {
		fmt.Fprintf(&b, "Top %d most vulnerable localities\n", n)
		for i := 0; i < n; i++ {
			r := ranked[i]
			fmt.Fprintf(&b, "  %2d. %-28s %-14s index %5.1f  %s\n",
				i+1, r.LocalityName, r.RegionName, r.VulnerabilityIndex, r.RiskTier)
		}
		b.WriteString("\n")
	}

	var gaps []model.AnalysisRow
	for _, r := range ranked {
		if r.CriticalWithin20KM == 0 && r.TotalIDPs > 0 {
			gaps = append(gaps, r)
		}
	}
	if len(gaps) > 0 {
		fmt.Fprintf(&b, "Access gaps (no hospital or clinic within %.0f km)\n", beyondThresholdKM)
		for _, r := range gaps {
			fmt.Fprintf(&b, "  %-28s %-14s %d IDPs, nearest %.1f km\n",
				r.LocalityName, r.RegionName, r.TotalIDPs, r.DistNearestCriticalKM)
		}
	}

	return b.String()
}
