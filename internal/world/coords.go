package world

import "math"

// ChunkCoord identifies a chunk column in chunk space.
type ChunkCoord struct {
	X, Z uint32
}

// Offset returns the coordinate moved by (dx, dz) chunks. ok is false when the
// result would leave the non-negative uint32 grid.
func (c ChunkCoord) Offset(dx, dz int) (ChunkCoord, bool) {
	nx := int64(c.X) + int64(dx)
	nz := int64(c.Z) + int64(dz)
	if nx < 0 || nz < 0 || nx > math.MaxUint32 || nz > math.MaxUint32 {
		return ChunkCoord{}, false
	}
	return ChunkCoord{X: uint32(nx), Z: uint32(nz)}, true
}

// Origin returns the world-space block position of the chunk's (0, 0, 0) corner.
func (c ChunkCoord) Origin() (x, z int64) {
	return int64(c.X) * ChunkSizeX, int64(c.Z) * ChunkSizeZ
}

// ChunkCoordOf returns the chunk holding world block column (wx, wz) together
// with the local coordinates inside it. ok is false for negative positions,
// which lie outside the world grid.
func ChunkCoordOf(wx, wz int64) (coord ChunkCoord, lx, lz uint8, ok bool) {
	if wx < 0 || wz < 0 {
		return ChunkCoord{}, 0, 0, false
	}
	cx, cz := wx/ChunkSizeX, wz/ChunkSizeZ
	if cx > math.MaxUint32 || cz > math.MaxUint32 {
		return ChunkCoord{}, 0, 0, false
	}
	return ChunkCoord{X: uint32(cx), Z: uint32(cz)}, uint8(wx % ChunkSizeX), uint8(wz % ChunkSizeZ), true
}
