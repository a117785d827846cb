package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelmesh/internal/profiling"
	"voxelmesh/internal/registry"
	"voxelmesh/internal/world"
)

// Face is one of the six sides of a block.
type Face uint8

const (
	FaceLeft   Face = iota // -x
	FaceRight              // +x
	FaceFront              // -z
	FaceBack               // +z
	FaceBottom             // -y
	FaceTop                // +y
)

// Faces lists the faces in the order they are checked for every block.
var Faces = [...]Face{FaceLeft, FaceRight, FaceFront, FaceBack, FaceBottom, FaceTop}

func (f Face) String() string {
	switch f {
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	case FaceBottom:
		return "bottom"
	case FaceTop:
		return "top"
	}
	return "unknown"
}

// Offset returns the unit step towards the neighbour this face looks at.
func (f Face) Offset() (dx, dy, dz int) {
	switch f {
	case FaceLeft:
		return -1, 0, 0
	case FaceRight:
		return 1, 0, 0
	case FaceFront:
		return 0, 0, -1
	case FaceBack:
		return 0, 0, 1
	case FaceBottom:
		return 0, -1, 0
	default:
		return 0, 1, 0
	}
}

const (
	// VerticesPerFace is two triangles without an index buffer.
	VerticesPerFace = 6
	// FloatsPerVertex is the component count of both positions and normals.
	FloatsPerVertex = 3
)

// Unit cube corners. 0-3 are the top ring, 4-7 the bottom ring directly below.
var cubeCorners = [8]mgl32.Vec3{
	{0, 1, 1},
	{1, 1, 1},
	{1, 1, 0},
	{0, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{1, 0, 0},
	{0, 0, 0},
}

// Per-corner normals point diagonally out of the cube through each corner.
var cornerNormals = [8]mgl32.Vec3{
	{-1, 1, 1},
	{1, 1, 1},
	{1, 1, -1},
	{-1, 1, -1},
	{-1, -1, 1},
	{1, -1, 1},
	{1, -1, -1},
	{-1, -1, -1},
}

// faceCorners holds the two counter-clockwise (seen from outside) triangles of
// each face as indices into cubeCorners.
var faceCorners = [6][VerticesPerFace]uint8{
	FaceLeft:   {0, 3, 7, 0, 7, 4},
	FaceRight:  {1, 5, 2, 2, 5, 6},
	FaceFront:  {2, 6, 3, 3, 6, 7},
	FaceBack:   {0, 4, 1, 1, 4, 5},
	FaceBottom: {4, 6, 5, 4, 7, 6},
	FaceTop:    {0, 1, 2, 0, 2, 3},
}

// Mesh is the triangle list of one chunk in chunk-local coordinates. Positions
// and Normals are parallel, three floats per vertex. A Mesh is never modified
// after it is built.
type Mesh struct {
	Coord     world.ChunkCoord
	Version   uint64 // chunk version the mesh was built from
	Positions []float32
	Normals   []float32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / FloatsPerVertex
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return m.VertexCount() / 3
}

// FaceCount returns the number of block faces.
func (m *Mesh) FaceCount() int {
	return m.VertexCount() / VerticesPerFace
}

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0
}

// ModelMatrix places the chunk-local mesh in world space.
func ModelMatrix(coord world.ChunkCoord) mgl32.Mat4 {
	x, z := coord.Origin()
	return mgl32.Translate3D(float32(x), 0, float32(z))
}

// NeighborSource supplies the chunks next to the one being meshed.
// *world.World implements it.
type NeighborSource interface {
	Neighbor(coord world.ChunkCoord, dx, dz int) (*world.Chunk, bool)
}

// BuildFunc turns a chunk into a mesh.
type BuildFunc func(c *world.Chunk) *Mesh

// Build meshes c on its own: faces on the chunk boundary are always emitted.
func Build(c *world.Chunk) *Mesh {
	return BuildWithNeighbors(c, nil)
}

// BuildWithNeighbors meshes c, culling the four side faces on the chunk
// boundary against the adjacent chunks supplied by nb. A nil nb, or a side
// with no chunk (edge of the world grid), falls back to emitting the face.
// The bottom and top of the chunk are always emitted.
func BuildWithNeighbors(c *world.Chunk, nb NeighborSource) *Mesh {
	defer profiling.Track("meshing.Build")()

	m := &Mesh{Coord: c.Coord(), Version: c.Version()}
	if c.IsEmpty() {
		return m
	}

	var sides [4]*world.Chunk
	if nb != nil {
		for _, f := range Faces[:4] {
			dx, _, dz := f.Offset()
			if ch, ok := nb.Neighbor(m.Coord, dx, dz); ok {
				sides[f] = ch
			}
		}
	}

	m.Positions = make([]float32, 0, 1024)
	m.Normals = make([]float32, 0, 1024)
	c.ForEachBlock(func(x, y, z uint8, _ world.BlockType) {
		for _, f := range Faces {
			if faceVisible(c, &sides, x, y, z, f) {
				m.appendFace(x, y, z, f)
			}
		}
	})
	return m
}

// faceVisible applies the culling rules for face f of the block at (x, y, z).
func faceVisible(c *world.Chunk, sides *[4]*world.Chunk, x, y, z uint8, f Face) bool {
	switch f {
	case FaceLeft:
		if x == 0 {
			return sideOpen(sides[f], world.MaxLocalX, y, z)
		}
		return !registry.IsSolid(c.BlockAt(x-1, y, z))
	case FaceRight:
		if x >= world.MaxLocalX {
			return sideOpen(sides[f], 0, y, z)
		}
		return !registry.IsSolid(c.BlockAt(x+1, y, z))
	case FaceFront:
		if z == 0 {
			return sideOpen(sides[f], x, y, world.MaxLocalZ)
		}
		return !registry.IsSolid(c.BlockAt(x, y, z-1))
	case FaceBack:
		if z >= world.MaxLocalZ {
			return sideOpen(sides[f], x, y, 0)
		}
		return !registry.IsSolid(c.BlockAt(x, y, z+1))
	case FaceBottom:
		if y == 0 {
			return true
		}
		return !registry.IsSolid(c.BlockAt(x, y-1, z))
	default:
		if y == world.MaxLocalY {
			return true
		}
		return !registry.IsSolid(c.BlockAt(x, y+1, z))
	}
}

// sideOpen reports whether a boundary face is visible given the adjacent chunk.
func sideOpen(adj *world.Chunk, x, y, z uint8) bool {
	if adj == nil {
		return true
	}
	return !registry.IsSolid(adj.BlockAt(x, y, z))
}

func (m *Mesh) appendFace(x, y, z uint8, f Face) {
	origin := mgl32.Vec3{float32(x), float32(y), float32(z)}
	for _, corner := range faceCorners[f] {
		p := origin.Add(cubeCorners[corner])
		n := cornerNormals[corner]
		m.Positions = append(m.Positions, p[0], p[1], p[2])
		m.Normals = append(m.Normals, n[0], n[1], n[2])
	}
}
