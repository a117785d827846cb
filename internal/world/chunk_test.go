package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSetThenGet(t *testing.T) {
	c := NewChunk(3, 4)
	c.SetBlockAt(1, 2, 3, BlockTypeStone)

	assert.Equal(t, BlockTypeStone, c.BlockAt(1, 2, 3))
	assert.Equal(t, BlockTypeAir, c.BlockAt(1, 3, 3), "unset positions read as air")
	assert.Equal(t, 1, c.Len())

	x, z := c.Coordinates()
	assert.Equal(t, uint32(3), x)
	assert.Equal(t, uint32(4), z)
}

func TestChunkSetAirRemoves(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlockAt(5, 40, 5, BlockTypeDirt)
	require.False(t, c.IsEmpty())

	c.SetBlockAt(5, 40, 5, BlockTypeAir)
	assert.Equal(t, BlockTypeAir, c.BlockAt(5, 40, 5))
	assert.True(t, c.IsEmpty())
	assert.Nil(t, c.sections[40/SectionHeight], "empty section must be released")
}

func TestChunkTopLayerAddressable(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlockAt(15, 255, 15, BlockTypeGrass)
	assert.Equal(t, BlockTypeGrass, c.BlockAt(15, 255, 15))
}

func TestChunkOutOfFootprintPanics(t *testing.T) {
	c := NewChunk(0, 0)
	assert.Panics(t, func() { c.SetBlockAt(16, 0, 0, BlockTypeStone) })
	assert.Panics(t, func() { c.SetBlockAt(0, 0, 16, BlockTypeStone) })
	assert.NotPanics(t, func() { c.SetBlockAt(15, 0, 15, BlockTypeStone) })

	assert.Equal(t, BlockTypeAir, c.BlockAt(200, 0, 0), "reads never fail")
}

func TestChunkFillLayer(t *testing.T) {
	c := NewChunk(0, 0)
	c.FillLayer(7, BlockTypeBedrock)

	assert.Equal(t, ChunkSizeX*ChunkSizeZ, c.Len())
	for x := uint8(0); x <= MaxLocalX; x++ {
		for z := uint8(0); z <= MaxLocalZ; z++ {
			require.Equal(t, BlockTypeBedrock, c.BlockAt(x, 7, z))
		}
	}
	assert.Equal(t, BlockTypeAir, c.BlockAt(0, 6, 0))
	assert.Equal(t, BlockTypeAir, c.BlockAt(0, 8, 0))
}

func TestChunkForEachBlock(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlockAt(0, 200, 0, BlockTypeGrass)
	c.SetBlockAt(2, 1, 3, BlockTypeStone)

	type visit struct {
		x, y, z uint8
		b       BlockType
	}
	var got []visit
	c.ForEachBlock(func(x, y, z uint8, b BlockType) {
		got = append(got, visit{x, y, z, b})
	})

	assert.Equal(t, []visit{
		{2, 1, 3, BlockTypeStone},
		{0, 200, 0, BlockTypeGrass},
	}, got)
}

func TestChunkVersionTracksChanges(t *testing.T) {
	c := NewChunk(0, 0)
	v0 := c.Version()

	c.SetBlockAt(1, 1, 1, BlockTypeStone)
	v1 := c.Version()
	assert.Greater(t, v1, v0)

	c.SetBlockAt(1, 1, 1, BlockTypeStone)
	assert.Equal(t, v1, c.Version(), "rewriting the same block is not a change")

	c.SetBlockAt(2, 2, 2, BlockTypeAir)
	assert.Equal(t, v1, c.Version(), "clearing air is not a change")

	c.MarkDirty()
	assert.Greater(t, c.Version(), v1)
}

func TestBlockTypeString(t *testing.T) {
	assert.Equal(t, "bedrock", BlockTypeBedrock.String())
	assert.Equal(t, "BlockType(42)", BlockType(42).String())
}

func TestChunkCoordOf(t *testing.T) {
	coord, lx, lz, ok := ChunkCoordOf(33, 15)
	require.True(t, ok)
	assert.Equal(t, ChunkCoord{X: 2, Z: 0}, coord)
	assert.Equal(t, uint8(1), lx)
	assert.Equal(t, uint8(15), lz)

	_, _, _, ok = ChunkCoordOf(-1, 0)
	assert.False(t, ok)
}

func TestChunkCoordOffset(t *testing.T) {
	c := ChunkCoord{X: 0, Z: 5}
	_, ok := c.Offset(-1, 0)
	assert.False(t, ok)

	nb, ok := c.Offset(1, -1)
	require.True(t, ok)
	assert.Equal(t, ChunkCoord{X: 1, Z: 4}, nb)

	x, z := nb.Origin()
	assert.Equal(t, int64(16), x)
	assert.Equal(t, int64(64), z)
}
