package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun(label string, at time.Time) *Run {
	stop := domain.AmortizationRow{Month: 3, Year: 2030, PlanMaxStop: true}
	result := &domain.CalculationResult{
		Schedule: []domain.AmortizationRow{
			{Contributions: decimal.NewFromInt(1000), EndingBalance: decimal.NewFromInt(1000)},
			{Contributions: decimal.NewFromInt(100), Earnings: decimal.NewFromFloat(5.25), EndingBalance: decimal.NewFromFloat(1105.25)},
		},
		PlanMaxStopRow: &stop,
	}
	input := domain.CalculationInput{
		StartingBalance:     decimal.NewFromInt(1000),
		AnnualReturnPercent: decimal.NewFromInt(6),
		FilingStatus:        domain.FilingSingle,
		StateCode:           "IL",
	}
	return NewRun(label, input, result, at)
}

func openMemory(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestNewRun(t *testing.T) {
	run := sampleRun("baseline", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Len(t, run.ID, 36)
	assert.True(t, run.FinalBalance.Equal(decimal.NewFromFloat(1105.25)))
	assert.True(t, run.TotalContributions.Equal(decimal.NewFromInt(1100)))
	assert.True(t, run.TotalEarnings.Equal(decimal.NewFromFloat(5.25)))
	assert.Equal(t, "Mar 2030", run.PlanMaxStop)

	other := sampleRun("baseline", time.Now())
	assert.NotEqual(t, run.ID, other.ID)
}

func TestSaveAndGet(t *testing.T) {
	r := openMemory(t)
	run := sampleRun("baseline", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, r.Save(run))

	got, err := r.Get(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "baseline", got.Label)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, got.FinalBalance.Equal(run.FinalBalance))
	assert.True(t, got.TotalEarnings.Equal(run.TotalEarnings))
	assert.Equal(t, "Mar 2030", got.PlanMaxStop)
	assert.Equal(t, "IL", got.Input.StateCode)
	assert.Equal(t, domain.FilingSingle, got.Input.FilingStatus)
	assert.True(t, got.Input.StartingBalance.Equal(decimal.NewFromInt(1000)))
}

func TestGetMissing(t *testing.T) {
	r := openMemory(t)
	_, err := r.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveDuplicateID(t *testing.T) {
	r := openMemory(t)
	run := sampleRun("a", time.Now())
	require.NoError(t, r.Save(run))
	assert.Error(t, r.Save(run))
}

func TestListNewestFirst(t *testing.T) {
	r := openMemory(t)
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, label := range []string{"first", "second", "third"} {
		require.NoError(t, r.Save(sampleRun(label, base.Add(time.Duration(i)*time.Hour))))
	}
	// no plan max stop
	noStop := sampleRun("fourth", base.Add(-time.Hour))
	noStop.PlanMaxStop = ""
	require.NoError(t, r.Save(noStop))

	runs, err := r.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 4)
	assert.Equal(t, "third", runs[0].Label)
	assert.Equal(t, "second", runs[1].Label)
	assert.Equal(t, "first", runs[2].Label)
	assert.Equal(t, "fourth", runs[3].Label)
	assert.Empty(t, runs[3].PlanMaxStop)

	limited, err := r.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSaveStampsCreatedAt(t *testing.T) {
	r := openMemory(t)
	run := sampleRun("x", time.Time{})
	run.CreatedAt = time.Time{}
	require.NoError(t, r.Save(run))
	assert.False(t, run.CreatedAt.IsZero())
}

func TestFileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	run := sampleRun("kept", time.Now())
	require.NoError(t, r.Save(run))
	require.NoError(t, r.Close())

	reopened, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	got, err := reopened.Get(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Label)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.Save(sampleRun("x", time.Now())))
	runs, err := r.List(5)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	_, err = r.Get("x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, r.Close())
}

func TestExecAllReportsStatement(t *testing.T) {
	r, err := NewSQLiteRecorder(MemoryPath)
	require.NoError(t, err)
	defer r.Close()

	err = execAll(r.db, []string{"SELEC 1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `exec "SELEC 1"`)

	long := "CREATE TABLE broken (id TEXT PRIMARY KEY, id TEXT)"
	err = execAll(r.db, []string{long})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `exec "CREATE TABLE broken (id TEXT P"`)
}
