package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Per-frame CPU totals for the overlay log, mirrored into Prometheus so the
// same Track calls feed /metrics.

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)

	registry = prometheus.NewRegistry()

	opDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "voxelmesh",
		Name:      "operation_duration_seconds",
		Help:      "Duration of tracked operations.",
		Buckets:   []float64{.00005, .0001, .0005, .001, .0025, .005, .01, .025, .05, .1},
	}, []string{"op"})

	chunksGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "voxelmesh",
		Name:      "chunks_generated_total",
		Help:      "Chunks generated by the world.",
	})

	meshCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voxelmesh",
		Name:      "mesh_cache_lookups_total",
		Help:      "Mesh cache lookups by result.",
	}, []string{"result"})

	meshVertices = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "voxelmesh",
		Name:      "mesh_vertices",
		Help:      "Vertices across all cached chunk meshes.",
	})
)

func init() {
	registry.MustRegister(opDuration, chunksGenerated, meshCache, meshVertices)
}

// Registry returns the registry holding every profiling collector.
func Registry() *prometheus.Registry {
	return registry
}

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
		opDuration.WithLabelValues(name).Observe(d.Seconds())
	}
}

// CountChunkGenerated records one generated chunk.
func CountChunkGenerated() {
	chunksGenerated.Inc()
}

// CountMeshCache records a mesh cache lookup.
func CountMeshCache(hit bool) {
	if hit {
		meshCache.WithLabelValues("hit").Inc()
	} else {
		meshCache.WithLabelValues("miss").Inc()
	}
}

// AddMeshVertices adjusts the cached vertex gauge by delta.
func AddMeshVertices(delta int) {
	meshVertices.Add(float64(delta))
}

// ResetFrame clears current per-frame totals. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	mu.Unlock()
}

// Snapshot returns a copy of current per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// TopN formats top N durations from the current frame totals.
// Example: "graphics.RenderChunks:4.2ms, meshing.Build:2.1ms"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	n = max(min(n, len(list)), 0)
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		ms := float64(p.dur.Microseconds()) / 1000.0
		parts = append(parts, p.name+":"+formatMs(ms))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing ".0".
func formatMs(ms float64) string {
	s := strconv.FormatFloat(ms, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "ms"
}
