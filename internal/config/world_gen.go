package config

import "fmt"

// Terrain generator names.
const (
	GeneratorFlat   = "flat"
	GeneratorPerlin = "perlin"
)

// WorldConfig holds world generation configuration
type WorldConfig struct {
	// Seed is kept with the world; the flat generator ignores it.
	Seed      string `yaml:"seed"`
	Generator string `yaml:"generator"`
	// CullChunkBorders culls side faces against neighbouring chunks instead of
	// always emitting them.
	CullChunkBorders bool `yaml:"cull_chunk_borders"`
}

// Validate checks the generator name.
func (w WorldConfig) Validate() error {
	switch w.Generator {
	case GeneratorFlat, GeneratorPerlin:
		return nil
	default:
		return fmt.Errorf("%w: world.generator %q", ErrInvalidConfig, w.Generator)
	}
}
