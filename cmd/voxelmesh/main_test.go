package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"voxelmesh/internal/config"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvPath, "")
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"voxelmesh"}, args...))
	return out.String(), err
}

func TestStatsCulledBorders(t *testing.T) {
	out, err := runApp(t, "stats", "--radius", "1")
	require.NoError(t, err)
	// Four chunks survive clipping. Only the sides facing off the grid keep
	// their 23x16 walls: two on (0,0), one each on (0,1) and (1,0).
	assert.Equal(t, "chunks=4 blocks=23552 faces=3520 triangles=7040 vertices=21120\n", out)
}

func TestStatsWithoutBorderCulling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  cull_chunk_borders: false\n"), 0o600))

	out, err := runApp(t, "--config", path, "stats", "--radius", "0", "--x", "3", "--z", "3")
	require.NoError(t, err)
	assert.Equal(t, "chunks=1 blocks=5888 faces=1984 triangles=3968 vertices=11904\n", out)
}

func TestExportWritesObj(t *testing.T) {
	path := filepath.Join(t.TempDir(), "area.obj")
	_, err := runApp(t, "export", "--radius", "0", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, "# voxelmesh export\n"))
	assert.Contains(t, doc, "o chunk_0_0\n")
}

func TestSeedFlagOverridesConfig(t *testing.T) {
	t.Setenv(config.EnvPath, "")
	app := newApp()
	app.Writer, app.ErrWriter = &bytes.Buffer{}, &bytes.Buffer{}
	app.Commands = append(app.Commands, &cli.Command{
		Name: "seed",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			assert.Equal(t, "hills", cfg.World.Seed)
			return nil
		},
	})
	require.NoError(t, app.Run([]string{"voxelmesh", "--seed", "hills", "seed"}))
}

func TestExportNeedsPath(t *testing.T) {
	_, err := runApp(t, "export")
	assert.Error(t, err)
}
