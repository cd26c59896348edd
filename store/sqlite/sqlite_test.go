package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/factory-trace/model"
	"github.com/warp/factory-trace/store/sqlite"
	"github.com/warp/factory-trace/synth"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(filepath.Join(t.TempDir(), "factory.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testSnapshot(t *testing.T) *model.Snapshot {
	t.Helper()
	snap, err := synth.New(synth.Config{Seed: 7, Days: 5, EndDate: "2024-03-30"}, zerolog.Nop()).Generate()
	require.NoError(t, err)
	return snap
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

func TestLoad_EmptyDatabase_NilWithoutError(t *testing.T) {
	st := newTestStore(t)

	snap, err := st.Load(context.Background())
	require.NoError(t, err, "an empty database means no data, not a failure")
	assert.Nil(t, snap)
}

func TestSaveLoad_RoundTripsEntities(t *testing.T) {
	// GIVEN: a generated snapshot
	// WHEN:  saved and loaded back
	// THEN:  every entity collection survives, in order
	st := newTestStore(t)
	want := testSnapshot(t)

	require.NoError(t, st.Save(context.Background(), want))

	got, err := st.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, want.StartDate, got.StartDate)
	assert.Equal(t, want.EndDate, got.EndDate)
	assert.Equal(t, want.Machines, got.Machines)
	assert.Equal(t, want.Shifts, got.Shifts)
	assert.Equal(t, want.Suppliers, got.Suppliers)
	assert.Equal(t, want.MaterialsCatalog, got.MaterialsCatalog)
	assert.Equal(t, want.MaterialLots, got.MaterialLots)
	assert.Equal(t, want.Orders, got.Orders)
	assert.Equal(t, want.ProductionBatches, got.ProductionBatches,
		"batch order must be preserved across persistence")
}

func TestLoad_RederivesProductionFromBatches(t *testing.T) {
	// The rollup is never persisted; Load rebuilds it from the stored
	// batches, so the counters must match the originals.
	st := newTestStore(t)
	want := testSnapshot(t)

	require.NoError(t, st.Save(context.Background(), want))
	got, err := st.Load(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, got.Production)
	for date, byMachine := range want.Production {
		for machine, day := range byMachine {
			reloaded := got.Production.Lookup(date, machine)
			require.NotNil(t, reloaded, "missing rollup for %s/%s", date, machine)
			assert.Equal(t, day.PartsProduced, reloaded.PartsProduced)
			assert.Equal(t, day.ScrapParts, reloaded.ScrapParts)
			assert.InDelta(t, day.UptimeHours, reloaded.UptimeHours, 0.001)
			assert.InDelta(t, day.DowntimeHours, reloaded.DowntimeHours, 0.001)
			assert.Equal(t, day.Batches, reloaded.Batches)
		}
	}
}

func TestSave_ReplacesPreviousSnapshot(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, testSnapshot(t)))

	second, err := synth.New(synth.Config{Seed: 8, Days: 5, EndDate: "2024-03-30"}, zerolog.Nop()).Generate()
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, second))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.ProductionBatches, len(second.ProductionBatches),
		"saving again must not accumulate rows")
	assert.Equal(t, second.ProductionBatches, got.ProductionBatches)
}
