package stats_test

import (
	"context"
	"testing"
	"time"

	"github.com/quadmind/ingestwatch/internal/model"
	"github.com/quadmind/ingestwatch/internal/stats"
	"github.com/quadmind/ingestwatch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreIncrementAndTotals(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Increment(ctx, model.DomainBody))
	require.NoError(t, store.Increment(ctx, model.DomainBody))
	require.NoError(t, store.Increment(ctx, model.DomainSoul))

	totals, err := store.Totals(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, totals[model.DomainBody])
	assert.Equal(t, 1, totals[model.DomainSoul])
	// Untouched domains report zero rather than being absent.
	assert.Equal(t, 0, totals[model.DomainMind])
	assert.Equal(t, 0, totals[model.DomainHeart])
}

func TestSQLiteStorePerformance(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordDuration(ctx, model.DomainMind, 2*time.Second))
	require.NoError(t, store.RecordDuration(ctx, model.DomainMind, 4*time.Second))
	require.NoError(t, store.RecordDuration(ctx, model.DomainHeart, time.Second))

	perf, err := store.Performance(ctx)
	require.NoError(t, err)

	mind, ok := perf[model.DomainMind]
	require.True(t, ok)
	assert.Equal(t, 2, mind.TotalFiles)
	assert.Equal(t, 3*time.Second, mind.AvgTime)
	assert.Equal(t, 2*time.Second, mind.MinTime)
	assert.Equal(t, 4*time.Second, mind.MaxTime)

	heart := perf[model.DomainHeart]
	assert.Equal(t, 1, heart.TotalFiles)

	_, ok = perf[model.DomainBody]
	assert.False(t, ok)
}

func TestSQLiteStoreRejectsNegativeDuration(t *testing.T) {
	store := testutil.SetupTestStore(t)

	err := store.RecordDuration(context.Background(), model.DomainBody, -time.Second)
	assert.ErrorIs(t, err, stats.ErrNegativeDuration)
}

func TestNewSQLiteStoreRejectsEmptyPath(t *testing.T) {
	_, err := stats.NewSQLiteStore("")
	assert.ErrorIs(t, err, stats.ErrEmptyString)
}

func TestSQLiteStoreOnDisk(t *testing.T) {
	path := t.TempDir() + "/nested/stats.db"

	store, err := stats.NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Increment(ctx, model.DomainHeart))

	totals, err := store.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, totals[model.DomainHeart])
}
