package world

import (
	"math"
	"runtime"
	"sync"

	"voxelmesh/internal/profiling"
)

// ChunkStreamer generates chunks around a moving point on background workers so
// the frame loop rarely pays for generation in ChunkAt.
type ChunkStreamer struct {
	jobs       chan ChunkCoord
	pending    map[ChunkCoord]struct{}
	pendingMu  sync.Mutex
	maxPending int

	maxJobsPerCall int

	world *World
	wg    sync.WaitGroup
	once  sync.Once
}

// NewChunkStreamer starts workers generating into w. workers <= 0 uses one
// worker per CPU.
func NewChunkStreamer(w *World, workers int) *ChunkStreamer {
	cs := &ChunkStreamer{
		jobs:           make(chan ChunkCoord, 1024),
		pending:        make(map[ChunkCoord]struct{}),
		maxJobsPerCall: 512,
		maxPending:     4096,
		world:          w,
	}

	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	cs.wg.Add(workers)
	for range workers {
		go cs.worker()
	}

	return cs
}

// Close stops the workers after the queued chunks are generated.
func (cs *ChunkStreamer) Close() {
	cs.once.Do(func() {
		close(cs.jobs)
		cs.wg.Wait()
	})
}

func (cs *ChunkStreamer) worker() {
	defer cs.wg.Done()
	for coord := range cs.jobs {
		cs.world.ChunkAt(coord.X, coord.Z)
		cs.pendingMu.Lock()
		delete(cs.pending, coord)
		cs.pendingMu.Unlock()
	}
}

// Pending returns the number of queued or in-flight chunks.
func (cs *ChunkStreamer) Pending() int {
	cs.pendingMu.Lock()
	defer cs.pendingMu.Unlock()
	return len(cs.pending)
}

// StreamAround queues missing chunks within radius of world position (x, z),
// nearest ring first. It returns the number of chunks queued.
func (cs *ChunkStreamer) StreamAround(x, z float32, radius int) int {
	defer profiling.Track("world.StreamAround")()
	center, ok := chunkOfPosition(x, z)
	if !ok {
		return 0
	}

	pushed := 0
	push := func(dx, dz int) bool {
		if coord, ok := center.Offset(dx, dz); ok && cs.request(coord) {
			pushed++
		}
		return pushed < cs.maxJobsPerCall
	}

	if !push(0, 0) {
		return pushed
	}
	for r := 1; r <= radius; r++ {
		for d := -r; d <= r; d++ {
			if !push(d, -r) || !push(d, r) {
				return pushed
			}
		}
		for d := -r + 1; d <= r-1; d++ {
			if !push(-r, d) || !push(r, d) {
				return pushed
			}
		}
	}
	return pushed
}

// request enqueues coord unless it is already loaded, pending or over the cap.
func (cs *ChunkStreamer) request(coord ChunkCoord) bool {
	if cs.world.store.HasChunk(coord) {
		return false
	}

	cs.pendingMu.Lock()
	if _, ok := cs.pending[coord]; ok {
		cs.pendingMu.Unlock()
		return false
	}
	if cs.maxPending > 0 && len(cs.pending) >= cs.maxPending {
		cs.pendingMu.Unlock()
		return false
	}
	cs.pending[coord] = struct{}{}
	cs.pendingMu.Unlock()

	select {
	case cs.jobs <- coord:
		return true
	default:
		// queue full: rollback
		cs.pendingMu.Lock()
		delete(cs.pending, coord)
		cs.pendingMu.Unlock()
		return false
	}
}

// chunkOfPosition maps a floating point world position to its chunk.
func chunkOfPosition(x, z float32) (ChunkCoord, bool) {
	coord, _, _, ok := ChunkCoordOf(int64(math.Floor(float64(x))), int64(math.Floor(float64(z))))
	return coord, ok
}
