package meshing

import (
	"log/slog"
	"sync"

	"voxelmesh/internal/profiling"
	"voxelmesh/internal/world"
)

// Cache keeps the latest mesh of every chunk and rebuilds it only when the
// chunk's version has moved on.
type Cache struct {
	mu     sync.RWMutex
	meshes map[world.ChunkCoord]*Mesh
	build  BuildFunc
	log    *slog.Logger
}

// NewCache creates a cache that builds missing meshes with build.
func NewCache(build BuildFunc, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		meshes: make(map[world.ChunkCoord]*Mesh),
		build:  build,
		log:    log,
	}
}

// Get returns an up to date mesh for c, building it if needed.
func (mc *Cache) Get(c *world.Chunk) *Mesh {
	if m, ok := mc.Fresh(c); ok {
		profiling.CountMeshCache(true)
		return m
	}
	profiling.CountMeshCache(false)
	m := mc.build(c)
	mc.Put(m)
	mc.log.Debug("chunk mesh rebuilt", "x", m.Coord.X, "z", m.Coord.Z, "version", m.Version, "vertices", m.VertexCount())
	return m
}

// Stale reports whether c has no mesh or a mesh from an older version.
func (mc *Cache) Stale(c *world.Chunk) bool {
	_, ok := mc.Fresh(c)
	return !ok
}

// Fresh returns the cached mesh of c if it matches the chunk's current version.
func (mc *Cache) Fresh(c *world.Chunk) (*Mesh, bool) {
	mc.mu.RLock()
	m, ok := mc.meshes[c.Coord()]
	mc.mu.RUnlock()
	if !ok || m.Version != c.Version() {
		return nil, false
	}
	return m, true
}

// Lookup returns whatever mesh is stored for coord, stale or not.
func (mc *Cache) Lookup(coord world.ChunkCoord) (*Mesh, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	m, ok := mc.meshes[coord]
	return m, ok
}

// Put stores m unless a mesh built from a newer chunk version is already held.
// It reports whether m was stored.
func (mc *Cache) Put(m *Mesh) bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	old, ok := mc.meshes[m.Coord]
	if ok && old.Version > m.Version {
		return false
	}
	delta := m.VertexCount()
	if ok {
		delta -= old.VertexCount()
	}
	mc.meshes[m.Coord] = m
	profiling.AddMeshVertices(delta)
	return true
}

// Invalidate drops the mesh for coord.
func (mc *Cache) Invalidate(coord world.ChunkCoord) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if old, ok := mc.meshes[coord]; ok {
		profiling.AddMeshVertices(-old.VertexCount())
		delete(mc.meshes, coord)
	}
}

// Len returns the number of cached meshes.
func (mc *Cache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.meshes)
}

// TotalVertices sums the vertex counts of all cached meshes.
func (mc *Cache) TotalVertices() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	total := 0
	for _, m := range mc.meshes {
		total += m.VertexCount()
	}
	return total
}
