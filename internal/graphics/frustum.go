package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FrustumMargin inflates boxes before testing, in blocks.
const FrustumMargin float32 = 1.0

type plane struct {
	a, b, c, d float32
}

// Frustum is the set of six clip planes of a projection*view matrix.
type Frustum struct {
	planes [6]plane
}

// NewFrustum extracts the planes of proj*view.
// Planes are stored in order: left, right, bottom, top, near, far.
func NewFrustum(proj, view mgl32.Mat4) Frustum {
	clip := proj.Mul4(view)

	// Matrix is in column-major order in mgl32
	row := func(i int) plane {
		return plane{clip[i], clip[4+i], clip[8+i], clip[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	var f Frustum
	f.planes[0] = normalizePlane(r3.add(r0))
	f.planes[1] = normalizePlane(r3.sub(r0))
	f.planes[2] = normalizePlane(r3.add(r1))
	f.planes[3] = normalizePlane(r3.sub(r1))
	f.planes[4] = normalizePlane(r3.add(r2))
	f.planes[5] = normalizePlane(r3.sub(r2))
	return f
}

func (p plane) add(q plane) plane { return plane{p.a + q.a, p.b + q.b, p.c + q.c, p.d + q.d} }
func (p plane) sub(q plane) plane { return plane{p.a - q.a, p.b - q.b, p.c - q.c, p.d - q.d} }

func normalizePlane(p plane) plane {
	l := float32(math.Sqrt(float64(p.a*p.a + p.b*p.b + p.c*p.c)))
	if l == 0 {
		return p
	}
	return plane{p.a / l, p.b / l, p.c / l, p.d / l}
}

// IntersectsAABB reports whether the box [min, max] is at least partly inside.
func (f Frustum) IntersectsAABB(min, max mgl32.Vec3) bool {
	for _, p := range f.planes {
		// Select the positive vertex for this plane normal
		px := max.X()
		if p.a < 0 {
			px = min.X()
		}
		py := max.Y()
		if p.b < 0 {
			py = min.Y()
		}
		pz := max.Z()
		if p.c < 0 {
			pz = min.Z()
		}
		// If positive vertex is outside, AABB is outside
		if p.a*px+p.b*py+p.c*pz+p.d < 0 {
			return false
		}
	}
	return true
}

// ChunkVisible tests the full-height column of the chunk whose block origin is
// (x, z), inflated by FrustumMargin.
func (f Frustum) ChunkVisible(x, z float32, sizeX, sizeY, sizeZ float32) bool {
	m := FrustumMargin
	return f.IntersectsAABB(
		mgl32.Vec3{x - m, -m, z - m},
		mgl32.Vec3{x + sizeX + m, sizeY + m, z + sizeZ + m},
	)
}
