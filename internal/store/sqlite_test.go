package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relief-analytics/crisis-cli/internal/model"
)

var _ Store = (*SQLiteStore)(nil)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testRows() []model.AnalysisRow {
	return []model.AnalysisRow{
		{
			LocalityCode:       "SD01001",
			LocalityName:       "Khartoum",
			RegionName:         "Khartoum",
			TotalIDPs:          100000,
			VulnerabilityIndex: 72.5,
			RiskTier:           "High",
		},
		{
			LocalityCode:       "SD16001",
			LocalityName:       "Kosti",
			RegionName:         "White Nile",
			TotalIDPs:          50000,
			VulnerabilityIndex: 85.1,
			RiskTier:           "Critical",
		},
		{
			LocalityCode:       "SD17001",
			LocalityName:       "Port Sudan",
			RegionName:         "Red Sea",
			TotalIDPs:          85000,
			VulnerabilityIndex: 31.0,
			RiskTier:           "Low",
		},
	}
}

func TestSQLiteSaveAndGetRun(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run := &model.AnalysisRun{
		Params: model.RunParams{Seed: 42, BurdenWeight: 0.4, CapitalOriginKey: "origin_khartoum"},
		Summary: &model.Summary{
			Localities: 3,
			TotalIDPs:  235000,
			TierCounts: map[string]int{"Critical": 1, "High": 1, "Low": 1},
		},
	}
	require.NoError(t, s.SaveRun(ctx, run, testRows()))
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, int64(42), got.Params.Seed)
	assert.Equal(t, "origin_khartoum", got.Params.CapitalOriginKey)
	require.NotNil(t, got.Summary)
	assert.Equal(t, int64(235000), got.Summary.TotalIDPs)
	assert.Equal(t, 1, got.Summary.TierCounts["Critical"])
}

func TestSQLiteGetRunNotFound(t *testing.T) {
	s := newTestSQLiteStore(t)

	_, err := s.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteLatestRun(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	first := &model.AnalysisRun{Params: model.RunParams{Seed: 1}}
	require.NoError(t, s.SaveRun(ctx, first, nil))

	second := &model.AnalysisRun{Params: model.RunParams{Seed: 2}}
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, s.SaveRun(ctx, second, nil))

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Nil(t, latest.Summary)
}

func TestSQLiteLatestRunEmpty(t *testing.T) {
	s := newTestSQLiteStore(t)

	_, err := s.LatestRun(context.Background())
	assert.Error(t, err)
}

func TestSQLiteListRuns(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.SaveRun(ctx, &model.AnalysisRun{Params: model.RunParams{Seed: int64(i)}}, nil))
	}

	runs, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSQLiteGetRows(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run := &model.AnalysisRun{Params: model.RunParams{Seed: 42}}
	require.NoError(t, s.SaveRun(ctx, run, testRows()))

	rows, err := s.GetRows(ctx, run.ID, RowFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Most vulnerable first
	assert.Equal(t, "SD16001", rows[0].LocalityCode)
	assert.Equal(t, "SD01001", rows[1].LocalityCode)
	assert.Equal(t, "SD17001", rows[2].LocalityCode)

	critical, err := s.GetRows(ctx, run.ID, RowFilter{RiskTier: "Critical"})
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, "Kosti", critical[0].LocalityName)

	redSea, err := s.GetRows(ctx, run.ID, RowFilter{Region: "Red Sea"})
	require.NoError(t, err)
	require.Len(t, redSea, 1)
	assert.Equal(t, "Port Sudan", redSea[0].LocalityName)

	none, err := s.GetRows(ctx, run.ID, RowFilter{RiskTier: "Moderate"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteGetRowsLimitOffset(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run := &model.AnalysisRun{}
	require.NoError(t, s.SaveRun(ctx, run, testRows()))

	rows, err := s.GetRows(ctx, run.ID, RowFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SD01001", rows[0].LocalityCode)
}

func TestSQLiteRunsAreIsolated(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	first := &model.AnalysisRun{}
	require.NoError(t, s.SaveRun(ctx, first, testRows()))

	second := &model.AnalysisRun{}
	require.NoError(t, s.SaveRun(ctx, second, testRows()[:1]))

	rows, err := s.GetRows(ctx, second.ID, RowFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
