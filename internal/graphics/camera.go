package graphics

import (
	"errors"
	"math"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"voxelmesh/internal/input"
)

// ErrDegenerateDirection is returned for a view direction that cannot be
// normalised.
var ErrDegenerateDirection = errors.New("graphics: degenerate camera direction")

const (
	fieldOfView = math.Pi / 2
	nearPlane   = 0.1
	farPlane    = 1024.0

	// DefaultAspectRatio is used until the first Update.
	DefaultAspectRatio = 1024.0 / 768.0

	// MoveSpeed and RotateSpeed are applied once per Update.
	MoveSpeed   = 0.01
	RotateSpeed = 0.02

	// CameraTick is the step the per-update speeds are tuned for.
	CameraTick = time.Second / 60
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Control is one of the camera's movement or rotation flags.
type Control int

const (
	MoveUp Control = iota
	MoveDown
	MoveLeft
	MoveRight
	MoveForward
	MoveBackward
	RotateUp
	RotateDown
	RotateLeft
	RotateRight
	controlCount
)

// actionControls binds viewer actions to camera flags.
var actionControls = map[input.Action]Control{
	input.ActionMoveUp:       MoveUp,
	input.ActionMoveDown:     MoveDown,
	input.ActionMoveLeft:     MoveLeft,
	input.ActionMoveRight:    MoveRight,
	input.ActionMoveForward:  MoveForward,
	input.ActionMoveBackward: MoveBackward,
	input.ActionLookUp:       RotateUp,
	input.ActionLookDown:     RotateDown,
	input.ActionLookLeft:     RotateLeft,
	input.ActionLookRight:    RotateRight,
}

// ActionSource reports which viewer actions are held. *input.InputManager
// implements it.
type ActionSource interface {
	IsActive(action input.Action) bool
}

// Camera is a free-flying look-along camera.
type Camera struct {
	AspectRatio float32

	position  mgl32.Vec3
	direction mgl32.Vec3
	// right is the last well-defined side vector, used while direction is
	// parallel to the world up axis.
	right    mgl32.Vec3
	controls [controlCount]bool
}

// NewCamera creates a camera at the origin looking down +z.
func NewCamera() *Camera {
	return &Camera{
		AspectRatio: DefaultAspectRatio,
		direction:   mgl32.Vec3{0, 0, 1},
		right:       mgl32.Vec3{-1, 0, 0},
	}
}

// SetPosition moves the camera.
func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
}

// Position returns the camera position.
func (c *Camera) Position() mgl32.Vec3 {
	return c.position
}

// SetDirection points the camera along d, which need not be normalised.
func (c *Camera) SetDirection(d mgl32.Vec3) error {
	l := d.Len()
	if l == 0 || math.IsNaN(float64(l)) || math.IsInf(float64(l), 0) {
		return ErrDegenerateDirection
	}
	c.direction = d
	c.right, _ = sideVector(d.Mul(1/l), c.right)
	return nil
}

// Direction returns the raw view direction.
func (c *Camera) Direction() mgl32.Vec3 {
	return c.direction
}

// SetControl turns a movement or rotation flag on or off.
func (c *Camera) SetControl(ctl Control, active bool) {
	if ctl >= 0 && ctl < controlCount {
		c.controls[ctl] = active
	}
}

// Active reports whether a flag is on.
func (c *Camera) Active(ctl Control) bool {
	return ctl >= 0 && ctl < controlCount && c.controls[ctl]
}

// ApplyInput copies the held state of every camera action from src.
func (c *Camera) ApplyInput(src ActionSource) {
	for action, ctl := range actionControls {
		c.controls[ctl] = src.IsActive(action)
	}
}

// HandleKey updates the flag bound to key in the default key table. Unmapped
// keys are ignored; it reports whether key drives the camera.
func (c *Camera) HandleKey(key glfw.Key, action glfw.Action) bool {
	act, ok := input.DefaultBindings[key]
	if !ok {
		return false
	}
	ctl, ok := actionControls[act]
	if !ok {
		return false
	}
	c.controls[ctl] = action == glfw.Press || action == glfw.Repeat
	return true
}

// Perspective returns the column-major projection matrix.
func (c *Camera) Perspective() mgl32.Mat4 {
	f := float32(1 / math.Tan(fieldOfView/2))
	return mgl32.Mat4{
		f / c.AspectRatio, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (farPlane + nearPlane) / (farPlane - nearPlane), 1,
		0, 0, -(2 * farPlane * nearPlane) / (farPlane - nearPlane), 0,
	}
}

// View returns the column-major view matrix looking along the direction.
func (c *Camera) View() mgl32.Mat4 {
	f, s, u := c.basis()
	p := c.position
	return mgl32.Mat4{
		s[0], u[0], f[0], 0,
		s[1], u[1], f[1], 0,
		s[2], u[2], f[2], 0,
		-p.Dot(s), -p.Dot(u), -p.Dot(f), 1,
	}
}

// Update recomputes the aspect ratio as height/width and applies one step of
// every active flag.
func (c *Camera) Update(width, height int) {
	c.step(width, height, 1)
}

// UpdateElapsed is Update with the step scaled by dt relative to CameraTick,
// so motion speed does not depend on the update rate.
func (c *Camera) UpdateElapsed(width, height int, dt time.Duration) {
	c.step(width, height, float32(dt)/float32(CameraTick))
}

func (c *Camera) step(width, height int, scale float32) {
	if width > 0 {
		c.AspectRatio = float32(height) / float32(width)
	}

	f, s, u := c.basis()
	c.right = s

	move := float32(MoveSpeed) * scale
	rot := float32(RotateSpeed) * scale

	if c.controls[MoveUp] {
		c.position = c.position.Add(u.Mul(move))
	}
	if c.controls[MoveLeft] {
		c.position = c.position.Sub(s.Mul(move))
	}
	if c.controls[MoveDown] {
		c.position = c.position.Sub(u.Mul(move))
	}
	if c.controls[MoveRight] {
		c.position = c.position.Add(s.Mul(move))
	}
	if c.controls[MoveForward] {
		c.position = c.position.Add(f.Mul(move))
	}
	if c.controls[MoveBackward] {
		c.position = c.position.Sub(f.Mul(move))
	}

	if c.controls[RotateUp] {
		c.direction = c.direction.Add(u.Mul(rot))
	}
	if c.controls[RotateDown] {
		c.direction = c.direction.Sub(u.Mul(rot))
	}
	if c.controls[RotateRight] {
		c.direction = c.direction.Add(s.Mul(rot))
	}
	if c.controls[RotateLeft] {
		c.direction = c.direction.Sub(s.Mul(rot))
	}
}

// basis returns the normalised forward, side and up vectors.
func (c *Camera) basis() (f, s, u mgl32.Vec3) {
	f = c.direction.Normalize()
	s, _ = sideVector(f, c.right)
	u = s.Cross(f)
	return f, s, u
}

// sideVector returns normalize(f x up), or fallback when f is parallel to up.
func sideVector(f, fallback mgl32.Vec3) (mgl32.Vec3, bool) {
	s := f.Cross(worldUp)
	if s.Len() < 1e-6 {
		return fallback, false
	}
	return s.Normalize(), true
}
