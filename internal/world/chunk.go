package world

import (
	"fmt"
	"sync/atomic"
)

const (
	// Chunk dimensions
	ChunkSizeX = 16
	ChunkSizeY = 256
	ChunkSizeZ = 16

	// MaxLocalX and MaxLocalZ are the largest valid horizontal local coordinates.
	MaxLocalX = ChunkSizeX - 1
	MaxLocalZ = ChunkSizeZ - 1
	// MaxLocalY is the highest layer addressable with a uint8 local coordinate.
	MaxLocalY = ChunkSizeY - 1

	// Section dimensions
	SectionHeight = 16
	NumSections   = ChunkSizeY / SectionHeight
	SectionVolume = ChunkSizeX * SectionHeight * ChunkSizeZ
)

// section is a 16x16x16 slab of a chunk. It only exists while it holds at least
// one non-air block.
type section struct {
	blocks [SectionVolume]BlockType
	solid  int // non-air count
}

// Chunk is a 16x256x16 column of blocks at a fixed chunk coordinate.
//
// Reads may run concurrently with each other; mutation must not overlap with
// any other access.
type Chunk struct {
	coord    ChunkCoord
	sections [NumSections]*section
	count    int
	version  atomic.Uint64
}

// NewChunk creates an empty chunk at the specified chunk coordinates.
func NewChunk(x, z uint32) *Chunk {
	return &Chunk{coord: ChunkCoord{X: x, Z: z}}
}

// indexInSection converts local section coordinates (x, localY, z) to a flat index.
func indexInSection(x, localY, z int) int {
	return x*SectionHeight*ChunkSizeZ + localY*ChunkSizeZ + z
}

// Coordinates returns the chunk-space position of the chunk.
func (c *Chunk) Coordinates() (uint32, uint32) {
	return c.coord.X, c.coord.Z
}

// Coord returns the chunk coordinate as a map key.
func (c *Chunk) Coord() ChunkCoord {
	return c.coord
}

// BlockAt returns the block at the local coordinates. Any coordinate may be
// queried; positions that were never set (or lie outside the footprint) are air.
func (c *Chunk) BlockAt(x, y, z uint8) BlockType {
	if x > MaxLocalX || z > MaxLocalZ {
		return BlockTypeAir
	}
	sec := c.sections[y/SectionHeight]
	if sec == nil {
		return BlockTypeAir
	}
	return sec.blocks[indexInSection(int(x), int(y%SectionHeight), int(z))]
}

// SetBlockAt stores a block at the local coordinates. x and z must be within
// [0, 15]; anything else is a caller bug and panics. Storing air releases the
// slot, and the enclosing section once it becomes empty.
func (c *Chunk) SetBlockAt(x, y, z uint8, block BlockType) {
	if x > MaxLocalX || z > MaxLocalZ {
		panic(fmt.Sprintf("world: local block coordinate (%d, %d, %d) outside chunk footprint [0,%d]x[0,%d]",
			x, y, z, MaxLocalX, MaxLocalZ))
	}

	secIdx := y / SectionHeight
	idx := indexInSection(int(x), int(y%SectionHeight), int(z))
	sec := c.sections[secIdx]

	if block == BlockTypeAir {
		if sec == nil || sec.blocks[idx] == BlockTypeAir {
			return
		}
		sec.blocks[idx] = BlockTypeAir
		sec.solid--
		c.count--
		if sec.solid == 0 {
			c.sections[secIdx] = nil
		}
		c.MarkDirty()
		return
	}

	if sec == nil {
		sec = &section{}
		c.sections[secIdx] = sec
	}
	old := sec.blocks[idx]
	if old == block {
		return
	}
	if old == BlockTypeAir {
		sec.solid++
		c.count++
	}
	sec.blocks[idx] = block
	c.MarkDirty()
}

// FillLayer sets every (x, z) position of layer y to block.
func (c *Chunk) FillLayer(y uint8, block BlockType) {
	for x := uint8(0); x <= MaxLocalX; x++ {
		for z := uint8(0); z <= MaxLocalZ; z++ {
			c.SetBlockAt(x, y, z, block)
		}
	}
}

// Len returns the number of non-air blocks.
func (c *Chunk) Len() int {
	return c.count
}

// IsEmpty reports whether the chunk holds only air.
func (c *Chunk) IsEmpty() bool {
	return c.count == 0
}

// ForEachBlock calls fn for every non-air block, bottom section first.
func (c *Chunk) ForEachBlock(fn func(x, y, z uint8, block BlockType)) {
	for secIdx, sec := range c.sections {
		if sec == nil {
			continue
		}
		baseY := secIdx * SectionHeight
		for lx := range ChunkSizeX {
			for ly := range SectionHeight {
				for lz := range ChunkSizeZ {
					b := sec.blocks[indexInSection(lx, ly, lz)]
					if b != BlockTypeAir {
						fn(uint8(lx), uint8(baseY+ly), uint8(lz), b)
					}
				}
			}
		}
	}
}

// Version increases on every change that can affect the chunk's mesh.
func (c *Chunk) Version() uint64 {
	return c.version.Load()
}

// MarkDirty invalidates any mesh built from an earlier version of the chunk.
// Neighbouring chunks call this when a border block changes.
func (c *Chunk) MarkDirty() {
	c.version.Add(1)
}
