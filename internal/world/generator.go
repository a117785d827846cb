package world

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/cespare/xxhash/v2"
)

// TerrainGenerator fills a freshly created chunk.
type TerrainGenerator interface {
	PopulateChunk(c *Chunk)
	// HeightAt returns the y of the topmost non-air block in world column (wx, wz).
	HeightAt(wx, wz int64) int
}

// Layer is a run of identical horizontal layers, From and To inclusive.
type Layer struct {
	From, To uint8
	Block    BlockType
}

// DefaultLayers is the stack used for every column of a new world.
var DefaultLayers = []Layer{
	{From: 0, To: 2, Block: BlockTypeBedrock},
	{From: 3, To: 19, Block: BlockTypeStone},
	{From: 20, To: 21, Block: BlockTypeDirt},
	{From: 22, To: 22, Block: BlockTypeGrass},
}

// FlatGenerator builds the same layer stack in every chunk, regardless of its
// position.
type FlatGenerator struct {
	layers []Layer
}

// NewFlatGenerator creates a generator for the given layers. With no layers it
// uses DefaultLayers.
func NewFlatGenerator(layers ...Layer) *FlatGenerator {
	if len(layers) == 0 {
		layers = DefaultLayers
	}
	return &FlatGenerator{layers: layers}
}

// PopulateChunk fills every layer of the stack.
func (g *FlatGenerator) PopulateChunk(c *Chunk) {
	for _, l := range g.layers {
		for y := int(l.From); y <= int(l.To); y++ {
			c.FillLayer(uint8(y), l.Block)
		}
	}
}

// HeightAt returns the top of the highest non-air layer.
func (g *FlatGenerator) HeightAt(_, _ int64) int {
	top := -1
	for _, l := range g.layers {
		if l.Block != BlockTypeAir && int(l.To) > top {
			top = int(l.To)
		}
	}
	return top
}

// PerlinGenerator builds rolling terrain from 2D Perlin noise. Every column
// keeps the default three-layer bedrock floor.
type PerlinGenerator struct {
	noise      *perlin.Perlin
	scale      float64
	baseHeight float64
	amp        float64
}

// NewPerlinGenerator creates a noise generator seeded from the world seed string.
func NewPerlinGenerator(seed string) *PerlinGenerator {
	alpha := 2.0  // smoothing
	beta := 2.0   // frequency
	n := int32(3) // octaves
	return &PerlinGenerator{
		noise:      perlin.NewPerlin(alpha, beta, n, SeedValue(seed)),
		scale:      1.0 / 48.0,
		baseHeight: 28,
		amp:        12,
	}
}

// SeedValue maps a seed string onto the integer seed used by noise functions.
func SeedValue(seed string) int64 {
	return int64(xxhash.Sum64String(seed))
}

// HeightAt computes the surface height at world column (wx, wz).
func (g *PerlinGenerator) HeightAt(wx, wz int64) int {
	n := g.noise.Noise2D(float64(wx)*g.scale, float64(wz)*g.scale)
	h := int(math.Floor(g.baseHeight + n*g.amp))
	return min(max(h, 3), MaxLocalY)
}

// PopulateChunk fills each column up to its noise height: bedrock floor, stone,
// two layers of dirt and a grass top.
func (g *PerlinGenerator) PopulateChunk(c *Chunk) {
	ox, oz := c.coord.Origin()
	for lx := range ChunkSizeX {
		for lz := range ChunkSizeZ {
			top := g.HeightAt(ox+int64(lx), oz+int64(lz))
			for y := 0; y <= top; y++ {
				var b BlockType
				switch {
				case y <= 2:
					b = BlockTypeBedrock
				case y == top:
					b = BlockTypeGrass
				case y >= top-2:
					b = BlockTypeDirt
				default:
					b = BlockTypeStone
				}
				c.SetBlockAt(uint8(lx), uint8(y), uint8(lz), b)
			}
		}
	}
}
