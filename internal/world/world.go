package world

import (
	"log/slog"

	"voxelmesh/internal/profiling"
)

// World owns every chunk of the playable area. Chunks are generated on first
// access and kept for the lifetime of the world.
type World struct {
	seed  string
	store *ChunkStore
	gen   TerrainGenerator
	log   *slog.Logger
}

// Option configures a World.
type Option func(*World)

// WithGenerator replaces the default flat generator.
func WithGenerator(gen TerrainGenerator) Option {
	return func(w *World) { w.gen = gen }
}

// WithLogger sets the logger used for generation events.
func WithLogger(log *slog.Logger) Option {
	return func(w *World) { w.log = log }
}

// New creates an empty world. The seed is recorded but the default flat
// generator does not use it.
func New(seed string, opts ...Option) *World {
	w := &World{
		seed:  seed,
		store: NewChunkStore(),
		gen:   NewFlatGenerator(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Seed returns the generation seed.
func (w *World) Seed() string {
	return w.seed
}

// Generator returns the terrain generator used for new chunks.
func (w *World) Generator() TerrainGenerator {
	return w.gen
}

// ChunkAt returns the chunk at (x, z), generating it synchronously on first access.
func (w *World) ChunkAt(x, z uint32) *Chunk {
	return w.store.GetOrCreate(ChunkCoord{X: x, Z: z}, w.generate)
}

// LoadedChunk returns the chunk at coord only if it has already been generated.
func (w *World) LoadedChunk(coord ChunkCoord) (*Chunk, bool) {
	return w.store.Get(coord)
}

// Neighbor returns the chunk (dx, dz) chunks away from coord, generating it if
// needed. ok is false when that position lies outside the world grid.
func (w *World) Neighbor(coord ChunkCoord, dx, dz int) (*Chunk, bool) {
	nb, ok := coord.Offset(dx, dz)
	if !ok {
		return nil, false
	}
	return w.ChunkAt(nb.X, nb.Z), true
}

// Chunks returns all generated chunks ordered by coordinate.
func (w *World) Chunks() []*Chunk {
	return w.store.All()
}

// ChunkCount returns the number of generated chunks.
func (w *World) ChunkCount() int {
	return w.store.Len()
}

// ChunksInRadius generates (if needed) and returns the chunks of the square of
// side 2*radius+1 centred on center, clipped to the world grid.
func (w *World) ChunksInRadius(center ChunkCoord, radius int) []*Chunk {
	defer profiling.Track("world.ChunksInRadius")()
	chunks := make([]*Chunk, 0, (2*radius+1)*(2*radius+1))
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			coord, ok := center.Offset(dx, dz)
			if !ok {
				continue
			}
			chunks = append(chunks, w.ChunkAt(coord.X, coord.Z))
		}
	}
	return chunks
}

// BlockAt returns the block at world position (wx, y, wz), generating the
// containing chunk if needed. Positions outside the world are air.
func (w *World) BlockAt(wx int64, y int, wz int64) BlockType {
	coord, lx, lz, ok := ChunkCoordOf(wx, wz)
	if !ok || y < 0 || y > MaxLocalY {
		return BlockTypeAir
	}
	return w.ChunkAt(coord.X, coord.Z).BlockAt(lx, uint8(y), lz)
}

// SetBlockAt sets the block at world position (wx, y, wz). It reports false if
// the position lies outside the world. Touching a border block marks the
// adjacent loaded chunk dirty, since its boundary faces may change.
func (w *World) SetBlockAt(wx int64, y int, wz int64, block BlockType) bool {
	coord, lx, lz, ok := ChunkCoordOf(wx, wz)
	if !ok || y < 0 || y > MaxLocalY {
		return false
	}
	w.ChunkAt(coord.X, coord.Z).SetBlockAt(lx, uint8(y), lz, block)

	// Mark neighbor chunks dirty if we touched a border block
	if lx == 0 {
		w.markDirty(coord, -1, 0)
	} else if lx == MaxLocalX {
		w.markDirty(coord, 1, 0)
	}
	if lz == 0 {
		w.markDirty(coord, 0, -1)
	} else if lz == MaxLocalZ {
		w.markDirty(coord, 0, 1)
	}
	return true
}

func (w *World) markDirty(coord ChunkCoord, dx, dz int) {
	nb, ok := coord.Offset(dx, dz)
	if !ok {
		return
	}
	if ch, loaded := w.store.Get(nb); loaded {
		ch.MarkDirty()
	}
}

func (w *World) generate(coord ChunkCoord) *Chunk {
	defer profiling.Track("world.GenerateChunk")()
	chunk := NewChunk(coord.X, coord.Z)
	w.gen.PopulateChunk(chunk)
	profiling.CountChunkGenerated()
	w.log.Debug("chunk generated", "x", coord.X, "z", coord.Z, "blocks", chunk.Len())
	return chunk
}
