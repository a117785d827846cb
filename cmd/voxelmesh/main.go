package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"voxelmesh/internal/config"
	"voxelmesh/internal/logging"
	"voxelmesh/internal/meshing"
	"voxelmesh/internal/world"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "voxelmesh:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "voxelmesh",
		Usage: "generates voxel chunks, meshes them and shows the result",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				EnvVars: []string{config.EnvPath},
			},
			&cli.StringFlag{
				Name:  "seed",
				Usage: "world seed, overrides world.seed",
			},
		},
		Commands: []*cli.Command{
			viewCommand(),
			statsCommand(),
			exportCommand(),
		},
	}
}

// loadConfig reads the config selected by the global flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("seed") {
		cfg.World.Seed = c.String("seed")
	}
	cfg.Apply()
	return cfg, nil
}

// setup loads the config and builds the logger and world every command needs.
func setup(c *cli.Context) (*config.Config, *slog.Logger, *world.World, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, err
	}
	log := logging.NewWriter(c.App.ErrWriter, cfg.Log)
	return cfg, log, newWorld(cfg, log), nil
}

func newWorld(cfg *config.Config, log *slog.Logger) *world.World {
	opts := []world.Option{world.WithLogger(log)}
	if cfg.World.Generator == config.GeneratorPerlin {
		opts = append(opts, world.WithGenerator(world.NewPerlinGenerator(cfg.World.Seed)))
	}
	return world.New(cfg.World.Seed, opts...)
}

// meshBuilder picks the mesher for cfg. With border culling the world supplies
// neighbouring chunks.
func meshBuilder(cfg *config.Config, w *world.World) meshing.BuildFunc {
	if !cfg.World.CullChunkBorders {
		return meshing.Build
	}
	return func(c *world.Chunk) *meshing.Mesh {
		return meshing.BuildWithNeighbors(c, w)
	}
}
