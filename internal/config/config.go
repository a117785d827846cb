package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when no config path is given.
const EnvPath = "VOXEL_CONFIG"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the root of the YAML configuration.
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Render  RenderConfig  `yaml:"render"`
	Camera  CameraConfig  `yaml:"camera"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// RenderConfig controls the window and the chunk renderer.
type RenderConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Distance      int    `yaml:"distance"` // in chunks
	ShaderDir     string `yaml:"shader_dir"`
	Shader        string `yaml:"shader"`
	MeshWorkers   int    `yaml:"mesh_workers"`
	StreamWorkers int    `yaml:"stream_workers"`
	FPSLimit      int    `yaml:"fps_limit"`
}

// CameraConfig sets the initial camera pose.
type CameraConfig struct {
	Position  [3]float32 `yaml:"position"`
	Direction [3]float32 `yaml:"direction"`
	// ElapsedScaling scales camera motion by frame time instead of stepping it
	// once per fixed tick.
	ElapsedScaling bool `yaml:"elapsed_scaling"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

// MetricsConfig controls the Prometheus endpoint of the viewer.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables /metrics
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Generator:        GeneratorFlat,
			CullChunkBorders: true,
		},
		Render: RenderConfig{
			Width:         1024,
			Height:        768,
			Distance:      4,
			ShaderDir:     "assets/shaders",
			Shader:        "test",
			MeshWorkers:   runtime.NumCPU(),
			StreamWorkers: 2,
		},
		Camera: CameraConfig{
			Position:  [3]float32{0, 0, -1},
			Direction: [3]float32{0, 0, 1},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults. With an empty path it
// falls back to $VOXEL_CONFIG, and to the defaults alone when that is unset.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPath)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Render.Distance = clampRenderDistance(cfg.Render.Distance)
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := c.World.Validate(); err != nil {
		return err
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("%w: render size %dx%d", ErrInvalidConfig, c.Render.Width, c.Render.Height)
	}
	if c.Render.Shader == "" {
		return fmt.Errorf("%w: render.shader is empty", ErrInvalidConfig)
	}
	if c.Render.MeshWorkers < 0 || c.Render.StreamWorkers < 0 || c.Render.FPSLimit < 0 {
		return fmt.Errorf("%w: negative worker count or fps limit", ErrInvalidConfig)
	}
	if d := c.Camera.Direction; d == [3]float32{} {
		return fmt.Errorf("%w: camera.direction is zero", ErrInvalidConfig)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// RenderSettings holds render configuration adjustable at runtime
type RenderSettings struct {
	mu             sync.RWMutex
	renderDistance int // in chunks
}

var globalRenderSettings = &RenderSettings{
	renderDistance: 4, // default value
}

const (
	minRenderDistance = 1
	maxRenderDistance = 32
)

func clampRenderDistance(distance int) int {
	return min(max(distance, minRenderDistance), maxRenderDistance)
}

// GetRenderDistance returns the current render distance in chunks
func GetRenderDistance() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.renderDistance
}

// SetRenderDistance sets the render distance in chunks, clamped to [1, 32]
func SetRenderDistance(distance int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.renderDistance = clampRenderDistance(distance)
}

// GetChunkLoadRadius returns the radius chunks are pre-generated in, one ring
// beyond the render distance so border culling never waits on generation.
func GetChunkLoadRadius() int {
	return GetRenderDistance() + 1
}

// FPS limit, 0 means uncapped.
var (
	fpsMu    sync.RWMutex
	fpsLimit int
)

// GetFPSLimit returns the frame cap.
func GetFPSLimit() int {
	fpsMu.RLock()
	defer fpsMu.RUnlock()
	return fpsLimit
}

// SetFPSLimit sets the frame cap.
func SetFPSLimit(limit int) {
	fpsMu.Lock()
	defer fpsMu.Unlock()
	fpsLimit = max(limit, 0)
}

// Apply publishes the runtime-adjustable settings of c.
func (c *Config) Apply() {
	SetRenderDistance(c.Render.Distance)
	SetFPSLimit(c.Render.FPSLimit)
}
