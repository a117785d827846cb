package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voxel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, GeneratorFlat, cfg.World.Generator)
	assert.True(t, cfg.World.CullChunkBorders)
	assert.Equal(t, "test", cfg.Render.Shader)
	assert.Equal(t, [3]float32{0, 0, 1}, cfg.Camera.Direction)
}

func TestLoadEmptyPathWithoutEnv(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Render, cfg.Render)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
world:
  seed: hills
  generator: perlin
render:
  distance: 100
  shader: terrain
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hills", cfg.World.Seed)
	assert.Equal(t, GeneratorPerlin, cfg.World.Generator)
	assert.True(t, cfg.World.CullChunkBorders, "unset keys keep their default")
	assert.Equal(t, 32, cfg.Render.Distance, "distance is clamped")
	assert.Equal(t, "terrain", cfg.Render.Shader)
	assert.Equal(t, 1024, cfg.Render.Width)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "world:\n  seed: from-env\n")
	t.Setenv(EnvPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.World.Seed)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "world: [not, a, map]"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "world:\n  generator: caves\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Render.Width = 0 }},
		{"empty shader", func(c *Config) { c.Render.Shader = "" }},
		{"negative workers", func(c *Config) { c.Render.MeshWorkers = -1 }},
		{"zero direction", func(c *Config) { c.Camera.Direction = [3]float32{} }},
		{"log level", func(c *Config) { c.Log.Level = "trace" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestRenderDistanceClamp(t *testing.T) {
	defer SetRenderDistance(GetRenderDistance())

	SetRenderDistance(0)
	assert.Equal(t, 1, GetRenderDistance())
	SetRenderDistance(99)
	assert.Equal(t, 32, GetRenderDistance())
	assert.Equal(t, 33, GetChunkLoadRadius())
}

func TestApply(t *testing.T) {
	defer SetRenderDistance(GetRenderDistance())
	defer SetFPSLimit(GetFPSLimit())

	cfg := Default()
	cfg.Render.Distance = 6
	cfg.Render.FPSLimit = 144
	cfg.Apply()

	assert.Equal(t, 6, GetRenderDistance())
	assert.Equal(t, 144, GetFPSLimit())
}
