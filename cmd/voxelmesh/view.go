package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"github.com/xlab/closer"

	"voxelmesh/internal/config"
	"voxelmesh/internal/game"
	"voxelmesh/internal/graphics"
	"voxelmesh/internal/graphics/renderables/chunks"
	renderer "voxelmesh/internal/graphics/renderer"
	"voxelmesh/internal/input"
	"voxelmesh/internal/meshing"
	"voxelmesh/internal/profiling"
	"voxelmesh/internal/world"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:   "view",
		Usage:  "open a window and fly over the world",
		Action: runView,
	}
}

func runView(c *cli.Context) error {
	cfg, log, w, err := setup(c)
	if err != nil {
		return err
	}

	// closer runs bound funcs on SIGINT/SIGTERM from its own goroutine. Cancel
	// the loop and wait until the main thread has released GL resources.
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	done := make(chan struct{})
	closer.Bind(func() {
		cancel()
		<-done
	})
	defer close(done)

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Render.Width, cfg.Render.Height)
	if err != nil {
		return err
	}
	defer window.Destroy()
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	im := input.NewInputManager()
	im.SetKeyCallback(window)

	camera := graphics.NewCamera()
	camera.SetPosition(mgl32.Vec3(cfg.Camera.Position))
	if err := camera.SetDirection(mgl32.Vec3(cfg.Camera.Direction)); err != nil {
		return err
	}

	shaders := graphics.NewShaderCache(os.DirFS(cfg.Render.ShaderDir), graphics.GLCompiler{})
	defer shaders.Close()

	cache := meshing.NewCache(meshBuilder(cfg, w), log)
	pool := meshing.NewWorkerPool(cfg.Render.MeshWorkers, cache.Get)
	defer pool.Shutdown()

	streamer := world.NewChunkStreamer(w, cfg.Render.StreamWorkers)
	defer streamer.Close()

	chunkRenderer := chunks.NewChunks(chunks.Options{
		Shaders:    shaders,
		ShaderName: cfg.Render.Shader,
		Cache:      cache,
		Pool:       pool,
		Radius:     config.GetRenderDistance,
		Log:        log,
	})
	r, err := renderer.NewRenderer(camera, chunkRenderer)
	if err != nil {
		return err
	}
	defer r.Dispose()

	if cfg.Metrics.Listen != "" {
		srv := serveMetrics(cfg.Metrics.Listen, log)
		defer srv.Close()
	}

	var fbWidth, fbHeight int
	frame := func(dt time.Duration) game.Action {
		func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
		if window.ShouldClose() || im.JustPressed(input.ActionQuit) {
			return game.Stop
		}
		if im.JustPressed(input.ActionToggleProfiling) {
			log.Info("frame profile", "top", profiling.TopN(8), "chunks", w.ChunkCount(),
				"meshes", cache.Len(), "uploaded", chunkRenderer.Uploaded(), "vertices", cache.TotalVertices(),
				"mesh_queue", pool.GetQueueLength(), "stream_queue", streamer.Pending())
		}

		fbWidth, fbHeight = window.GetFramebufferSize()
		r.SetViewport(fbWidth, fbHeight)
		camera.ApplyInput(im)
		if cfg.Camera.ElapsedScaling {
			camera.UpdateElapsed(fbWidth, fbHeight, dt)
		}

		pos := camera.Position()
		func() {
			defer profiling.Track("world.StreamAround")()
			streamer.StreamAround(pos.X(), pos.Z(), config.GetChunkLoadRadius())
		}()

		r.Render(w, dt.Seconds())
		func() { defer profiling.Track("glfw.SwapBuffers")(); window.SwapBuffers() }()
		im.PostUpdate()
		return game.Continue
	}
	update := func(time.Duration) {
		if !cfg.Camera.ElapsedScaling {
			camera.Update(fbWidth, fbHeight)
		}
	}

	log.Info("viewer started", "seed", w.Seed(), "generator", cfg.World.Generator, "distance", config.GetRenderDistance())
	loop := game.NewLoop(frame, update, log)
	err = loop.Run(ctx)
	log.Info("viewer stopped", "frames", loop.Frames(), "chunks", w.ChunkCount())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func setupWindow(width, height int) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.DepthBits, 24)

	window, err := glfw.CreateWindow(width, height, "voxelmesh", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(0)
	return window, nil
}

// serveMetrics exposes the profiling registry on addr until the server is
// closed.
func serveMetrics(addr string, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(profiling.Registry(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", "addr", addr, "err", err)
		}
	}()
	log.Info("serving metrics", "addr", addr)
	return srv
}
