package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/relief-analytics/crisis-cli/internal/analysis"
	"github.com/relief-analytics/crisis-cli/internal/dataset"
	"github.com/relief-analytics/crisis-cli/internal/export"
	"github.com/relief-analytics/crisis-cli/internal/gazetteer"
	"github.com/relief-analytics/crisis-cli/internal/model"
	"github.com/relief-analytics/crisis-cli/internal/vulnerability"
)

var (
	analyzeSeed    int64
	analyzeWorkers int
	analyzeOut     string
	analyzeSave    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full vulnerability analysis and export results",
	Long:  "Loads the cleaned displacement, facility, and boundary tables, resolves locality centroids, computes proximity metrics and vulnerability scores, and writes the CSV/GeoJSON artifacts.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		localities, facilities, err := loadInputs()
		if err != nil {
			return err
		}

		tables := gazetteer.SudanTables()
		if path := cfg.Data.BoundaryShapePath; path != "" {
			features, err := dataset.LoadBoundaryShapefile(path)
			if err != nil {
				return err
			}
			// Polygon centroids from the shapefile take precedence over the
			// curated table.
			for name, pt := range dataset.VerifiedFromFeatures(features) {
				tables.Verified[name] = pt
			}
		}

		seed := cfg.Analysis.Seed
		if cmd.Flags().Changed("seed") {
			seed = analyzeSeed
		}
		workers := cfg.Analysis.Workers
		if analyzeWorkers > 0 {
			workers = analyzeWorkers
		}

		res, err := analysis.Run(ctx, localities, facilities, analysis.Options{
			Scoring: scoringConfig(),
			Tables:  tables,
			Seed:    seed,
			Workers: workers,
		})
		if err != nil {
			return err
		}

		outDir := analyzeOut
		if outDir == "" {
			outDir = cfg.Data.OutputDir
		}
		if err := writeArtifacts(outDir, res); err != nil {
			return err
		}

		if analyzeSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			if err := st.SaveRun(ctx, &res.Run, res.Rows); err != nil {
				return err
			}
			fmt.Printf("Saved run %s\n", res.Run.ID)
		}

		fmt.Print(analysis.RenderReport(&res.Run, res.Rows))
		return nil
	},
}

// loadInputs reads the displacement, facility, and boundary tables and
// merges them into the locality set. The displacement table comes from the
// raw DTM workbook when one is configured, otherwise from the cleaned CSV.
func loadInputs() ([]model.Locality, []model.Facility, error) {
	var records []dataset.IDPRecord
	var err error
	if cfg.Data.IDPWorkbookPath != "" {
		records, err = dataset.LoadIDPWorkbook(cfg.Data.IDPWorkbookPath, cfg.Data.IDPWorkbookSheet)
	} else {
		records, err = dataset.LoadIDPLocalities(cfg.Data.IDPLocalityPath)
	}
	if err != nil {
		return nil, nil, err
	}

	facilities, err := dataset.LoadFacilities(cfg.Data.FacilityPath)
	if err != nil {
		return nil, nil, err
	}

	boundaries := map[string]dataset.Boundary{}
	if cfg.Data.BoundaryPath != "" {
		boundaries, err = dataset.LoadBoundaries(cfg.Data.BoundaryPath)
		if err != nil {
			return nil, nil, err
		}
	}

	return dataset.MergeLocalities(records, boundaries), facilities, nil
}

func scoringConfig() vulnerability.Config {
	return vulnerability.Config{
		BurdenWeight:     cfg.Analysis.BurdenWeight,
		AccessWeight:     cfg.Analysis.AccessWeight,
		OriginWeight:     cfg.Analysis.OriginWeight,
		DistanceWeight:   cfg.Analysis.DistanceWeight,
		CountWeight:      cfg.Analysis.CountWeight,
		CapitalOriginKey: cfg.Analysis.CapitalOriginKey,
	}
}

func writeArtifacts(outDir string, res *analysis.Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return eris.Wrap(err, "create output directory")
	}

	if err := export.WriteAnalysisCSV(filepath.Join(outDir, "crisis_analysis.csv"), res.Rows); err != nil {
		return err
	}
	if err := export.WriteGeoJSON(filepath.Join(outDir, "localities.geojson"), export.LocalityFeatureCollection(res.Rows)); err != nil {
		return err
	}
	if err := export.WriteGeoJSON(filepath.Join(outDir, "facilities.geojson"), export.FacilityFeatureCollection(res.Facilities)); err != nil {
		return err
	}

	report := analysis.RenderReport(&res.Run, res.Rows)
	if err := os.WriteFile(filepath.Join(outDir, "summary_report.txt"), []byte(report), 0o644); err != nil {
		return eris.Wrap(err, "write summary report")
	}

	zap.L().Info("analysis artifacts written", zap.String("dir", outDir))
	return nil
}

func init() {
	analyzeCmd.Flags().Int64Var(&analyzeSeed, "seed", 0, "random seed for centroid fallbacks (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "concurrent proximity workers (default: all CPUs)")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "output directory (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "persist the run to the results store")
	rootCmd.AddCommand(analyzeCmd)
}
