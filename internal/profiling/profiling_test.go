package profiling

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackAccumulatesPerFrame(t *testing.T) {
	ResetFrame()
	for range 3 {
		stop := Track("test.Op")
		time.Sleep(time.Millisecond)
		stop()
	}

	snap := Snapshot()
	require.Contains(t, snap, "test.Op")
	assert.GreaterOrEqual(t, snap["test.Op"], 3*time.Millisecond)

	ResetFrame()
	assert.Empty(t, Snapshot())
}

func TestTrackObservesHistogram(t *testing.T) {
	Track("test.Histogram")()
	assert.GreaterOrEqual(t, testutil.CollectAndCount(opDuration), 1)
}

func TestTopNOrdersByDuration(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["a"] = 1 * time.Millisecond
	frameTotals["b"] = 3500 * time.Microsecond
	frameTotals["c"] = 2 * time.Millisecond
	mu.Unlock()
	defer ResetFrame()

	assert.Equal(t, "b:3.5ms, c:2ms", TopN(2))
	assert.Equal(t, 3, len(strings.Split(TopN(10), ", ")))
	assert.Empty(t, TopN(0))
	assert.Empty(t, TopN(-1))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(chunksGenerated)
	CountChunkGenerated()
	assert.Equal(t, before+1, testutil.ToFloat64(chunksGenerated))

	hits := testutil.ToFloat64(meshCache.WithLabelValues("hit"))
	CountMeshCache(true)
	assert.Equal(t, hits+1, testutil.ToFloat64(meshCache.WithLabelValues("hit")))
}

func TestRegistryGathers(t *testing.T) {
	CountChunkGenerated()
	families, err := Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
