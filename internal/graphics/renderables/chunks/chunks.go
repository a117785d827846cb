package chunks

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"voxelmesh/internal/graphics"
	renderer "voxelmesh/internal/graphics/renderer"
	"voxelmesh/internal/meshing"
	"voxelmesh/internal/profiling"
	"voxelmesh/internal/world"
)

// DefaultLight is the direction towards the light used for diffuse shading.
var DefaultLight = mgl32.Vec3{8, 8, 25}

// Options configures the chunk renderable.
type Options struct {
	Shaders    *graphics.ShaderCache
	ShaderName string
	Cache      *meshing.Cache
	Pool       *meshing.WorkerPool
	Radius     func() int // render distance in chunks
	Light      mgl32.Vec3
	Log        *slog.Logger
}

// chunkMesh is the GPU copy of one chunk mesh.
type chunkMesh struct {
	vao, posVBO, normVBO uint32
	vertexCount          int32
	version              uint64
}

// Chunks draws the chunks around the camera. Meshes are built on the worker
// pool and uploaded when they arrive; until then the previous upload is drawn.
type Chunks struct {
	opts   Options
	shader *graphics.Shader

	gpu      map[world.ChunkCoord]*chunkMesh
	results  chan meshing.MeshResult
	inflight map[world.ChunkCoord]uint64
	pending  int // submitted jobs whose result has not been received
}

// NewChunks creates the renderable. GL resources are created in Init.
func NewChunks(opts Options) *Chunks {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Light == (mgl32.Vec3{}) {
		opts.Light = DefaultLight
	}
	return &Chunks{
		opts:     opts,
		gpu:      make(map[world.ChunkCoord]*chunkMesh),
		results:  make(chan meshing.MeshResult, 256),
		inflight: make(map[world.ChunkCoord]uint64),
	}
}

// Init resolves the shader program.
func (c *Chunks) Init() error {
	shader, err := c.opts.Shaders.Get(c.opts.ShaderName)
	if err != nil {
		return fmt.Errorf("chunks: %w", err)
	}
	c.shader = shader
	return nil
}

// Render schedules stale meshes, uploads finished ones and draws the chunks
// inside the view frustum.
func (c *Chunks) Render(ctx renderer.RenderContext) {
	defer profiling.Track("renderer.renderChunks")()

	pos := ctx.Camera.Position()
	center, _, _, ok := world.ChunkCoordOf(
		int64(math.Floor(float64(max(pos.X(), 0)))),
		int64(math.Floor(float64(max(pos.Z(), 0)))),
	)
	if !ok {
		return
	}
	nearby := ctx.World.ChunksInRadius(center, c.opts.Radius())

	c.collectResults()
	for _, ch := range nearby {
		c.ensureMesh(ch)
	}

	frustum := graphics.NewFrustum(ctx.Proj, ctx.View)

	c.shader.Use()
	c.shader.SetMatrix4("perspective", ctx.Proj)
	c.shader.SetMatrix4("view", ctx.View)
	c.shader.SetVector3("u_light", c.opts.Light)

	for _, ch := range nearby {
		coord := ch.Coord()
		gm, ok := c.gpu[coord]
		if !ok || gm.vertexCount == 0 {
			continue
		}
		ox, oz := coord.Origin()
		if !frustum.ChunkVisible(float32(ox), float32(oz), world.ChunkSizeX, world.ChunkSizeY, world.ChunkSizeZ) {
			continue
		}
		c.shader.SetMatrix4("model", meshing.ModelMatrix(coord))
		gl.BindVertexArray(gm.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, gm.vertexCount)
	}
	gl.BindVertexArray(0)
}

// collectResults drains finished jobs without blocking.
func (c *Chunks) collectResults() {
	for {
		select {
		case res := <-c.results:
			c.pending--
			if c.inflight[res.Coord] == res.Version {
				delete(c.inflight, res.Coord)
			}
			if res.Error != nil {
				c.opts.Log.Error("chunk meshing failed", "x", res.Coord.X, "z", res.Coord.Z, "err", res.Error)
				continue
			}
			c.opts.Cache.Put(res.Mesh)
		default:
			return
		}
	}
}

// ensureMesh uploads the cached mesh of ch if it is newer than the GPU copy,
// or schedules a rebuild when the cache is stale.
func (c *Chunks) ensureMesh(ch *world.Chunk) {
	coord := ch.Coord()
	m, fresh := c.opts.Cache.Fresh(ch)
	if !fresh {
		if v, busy := c.inflight[coord]; busy && v == ch.Version() {
			return
		}
		// Keep sends on results non-blocking for the workers.
		if c.pending >= cap(c.results) {
			return
		}
		err := c.opts.Pool.SubmitJob(meshing.MeshJob{Chunk: ch, ResultChan: c.results})
		if err != nil {
			return
		}
		c.inflight[coord] = ch.Version()
		c.pending++
		return
	}

	gm, ok := c.gpu[coord]
	if ok && gm.version == m.Version {
		return
	}
	if !ok {
		gm = &chunkMesh{}
		c.gpu[coord] = gm
	}
	upload(gm, m)
	c.opts.Log.Debug("chunk mesh uploaded", "x", coord.X, "z", coord.Z, "vertices", m.VertexCount())
}

// upload replaces the buffers of gm with m.
func upload(gm *chunkMesh, m *meshing.Mesh) {
	defer profiling.Track("renderer.uploadChunk")()

	gm.version = m.Version
	gm.vertexCount = int32(m.VertexCount())
	if m.IsEmpty() {
		return
	}

	if gm.vao == 0 {
		gl.GenVertexArrays(1, &gm.vao)
		gl.GenBuffers(1, &gm.posVBO)
		gl.GenBuffers(1, &gm.normVBO)
	}
	gl.BindVertexArray(gm.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, gm.posVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Positions)*4, gl.Ptr(m.Positions), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, meshing.FloatsPerVertex, gl.FLOAT, false, meshing.FloatsPerVertex*4, 0)

	gl.BindBuffer(gl.ARRAY_BUFFER, gm.normVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Normals)*4, gl.Ptr(m.Normals), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, meshing.FloatsPerVertex, gl.FLOAT, false, meshing.FloatsPerVertex*4, 0)

	gl.BindVertexArray(0)
}

// Uploaded returns the number of chunks whose current mesh has been uploaded,
// empty meshes included.
func (c *Chunks) Uploaded() int {
	return len(c.gpu)
}

// Dispose cleans up OpenGL resources
func (c *Chunks) Dispose() {
	for coord, gm := range c.gpu {
		if gm.vao != 0 {
			gl.DeleteVertexArrays(1, &gm.vao)
			gl.DeleteBuffers(1, &gm.posVBO)
			gl.DeleteBuffers(1, &gm.normVBO)
		}
		delete(c.gpu, coord)
	}
}
