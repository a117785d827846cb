package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"voxelmesh/internal/graphics"
	"voxelmesh/internal/profiling"
	"voxelmesh/internal/world"
)

// ClearColor is the sky colour behind the terrain.
var ClearColor = [4]float32{0.0, 0.0, 1.0, 1.0}

// Renderer orchestrates rendering via renderable features
type Renderer struct {
	renderables []Renderable
	camera      *graphics.Camera
}

// NewRenderer configures the GL pipeline and initialises rs in order. It must
// run on the thread that owns the GL context.
func NewRenderer(camera *graphics.Camera, rs ...Renderable) (*Renderer, error) {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	renderer := &Renderer{
		renderables: rs,
		camera:      camera,
	}

	// Initialize all renderables
	for i, r := range rs {
		if err := r.Init(); err != nil {
			// Dispose the ones that did come up
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			return nil, err
		}
	}

	return renderer, nil
}

// Render clears the frame and draws every renderable
func (r *Renderer) Render(w *world.World, dt float64) {
	defer profiling.Track("renderer.Render")()

	gl.ClearColor(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	ctx := RenderContext{
		Camera: r.camera,
		World:  w,
		DT:     dt,
		View:   r.camera.View(),
		Proj:   r.camera.Perspective(),
	}

	for _, renderable := range r.renderables {
		renderable.Render(ctx)
	}
}

// Dispose cleans up all renderables in reverse order
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
}

// SetViewport resizes the GL viewport to the framebuffer size.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Camera returns the camera instance
func (r *Renderer) Camera() *graphics.Camera {
	return r.camera
}
