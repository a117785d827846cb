package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"voxelmesh/internal/config"
	"voxelmesh/internal/meshing"
	"voxelmesh/internal/world"
	"voxelmesh/pkg/objexport"
)

// areaFlags select the square of chunks a headless command works on.
func areaFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "radius", Aliases: []string{"r"}, Usage: "chunks around the centre (default: render distance)"},
		&cli.UintFlag{Name: "x", Usage: "centre chunk x"},
		&cli.UintFlag{Name: "z", Usage: "centre chunk z"},
	}
}

// meshArea generates and meshes the chunks selected by areaFlags in parallel.
func meshArea(c *cli.Context, cfg *config.Config, w *world.World) ([]*world.Chunk, []*meshing.Mesh, error) {
	radius := config.GetRenderDistance()
	if c.IsSet("radius") {
		radius = c.Int("radius")
	}
	if radius < 0 {
		return nil, nil, fmt.Errorf("radius %d is negative", radius)
	}
	center := world.ChunkCoord{X: uint32(c.Uint("x")), Z: uint32(c.Uint("z"))}

	chunks := w.ChunksInRadius(center, radius)
	cache := meshing.NewCache(meshBuilder(cfg, w), nil)
	pool := meshing.NewWorkerPool(cfg.Render.MeshWorkers, cache.Get)
	defer pool.Shutdown()
	meshes, err := pool.BuildAll(chunks)
	if err != nil {
		return nil, nil, err
	}
	return chunks, meshes, nil
}

// areaStats totals a meshed area.
type areaStats struct {
	Chunks, Blocks             int
	Faces, Triangles, Vertices int
}

func summarize(chunks []*world.Chunk, meshes []*meshing.Mesh) areaStats {
	s := areaStats{Chunks: len(chunks)}
	for _, c := range chunks {
		s.Blocks += c.Len()
	}
	for _, m := range meshes {
		s.Faces += m.FaceCount()
		s.Triangles += m.TriangleCount()
		s.Vertices += m.VertexCount()
	}
	return s
}

func (s areaStats) write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "chunks=%d blocks=%d faces=%d triangles=%d vertices=%d\n",
		s.Chunks, s.Blocks, s.Faces, s.Triangles, s.Vertices)
	return err
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "mesh an area without a window and print totals",
		Flags: areaFlags(),
		Action: func(c *cli.Context) error {
			cfg, log, w, err := setup(c)
			if err != nil {
				return err
			}
			start := time.Now()
			chunks, meshes, err := meshArea(c, cfg, w)
			if err != nil {
				return err
			}
			log.Debug("area meshed", "took", time.Since(start))
			return summarize(chunks, meshes).write(c.App.Writer)
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "mesh an area and write it as Wavefront OBJ (gzip when the path ends in .gz)",
		ArgsUsage: "<output.obj>",
		Flags:     areaFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("export needs exactly one output path")
			}
			cfg, log, w, err := setup(c)
			if err != nil {
				return err
			}
			_, meshes, err := meshArea(c, cfg, w)
			if err != nil {
				return err
			}

			path := c.Args().First()
			out, err := objexport.Create(path)
			if err != nil {
				return err
			}
			stats, err := objexport.Export(out, meshes)
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			log.Info("exported", "path", path, "objects", stats.Objects, "vertices", stats.Vertices, "triangles", stats.Triangles)
			return nil
		},
	}
}
