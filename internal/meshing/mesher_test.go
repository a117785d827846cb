package meshing

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelmesh/internal/world"
)

func TestEmptyChunkMesh(t *testing.T) {
	m := Build(world.NewChunk(0, 0))
	assert.True(t, m.IsEmpty())
	assert.Empty(t, m.Normals)
}

func TestSingleBlockMesh(t *testing.T) {
	c := world.NewChunk(0, 0)
	c.SetBlockAt(4, 10, 4, world.BlockTypeStone)

	m := Build(c)
	require.Equal(t, 36, m.VertexCount())
	assert.Equal(t, 12, m.TriangleCount())
	assert.Len(t, m.Normals, len(m.Positions))

	for i := 0; i < len(m.Positions); i += 3 {
		p := mgl32.Vec3{m.Positions[i], m.Positions[i+1], m.Positions[i+2]}
		assert.True(t, p[0] >= 4 && p[0] <= 5, "x out of block: %v", p)
		assert.True(t, p[1] >= 10 && p[1] <= 11, "y out of block: %v", p)
		assert.True(t, p[2] >= 4 && p[2] <= 5, "z out of block: %v", p)
	}
}

func TestTwoBlocksTouching(t *testing.T) {
	c := world.NewChunk(0, 0)
	c.SetBlockAt(4, 10, 4, world.BlockTypeStone)
	c.SetBlockAt(5, 10, 4, world.BlockTypeDirt)

	// Each block loses the face it shares with the other.
	assert.Equal(t, 10*VerticesPerFace, Build(c).VertexCount())
}

func TestCubeInteriorCulled(t *testing.T) {
	c := world.NewChunk(0, 0)
	for x := uint8(5); x < 8; x++ {
		for y := uint8(5); y < 8; y++ {
			for z := uint8(5); z < 8; z++ {
				c.SetBlockAt(x, y, z, world.BlockTypeStone)
			}
		}
	}
	full := Build(c)
	assert.Equal(t, 54, full.FaceCount())

	// Removing the hidden centre block exposes its six neighbours' inner faces.
	c.SetBlockAt(6, 6, 6, world.BlockTypeAir)
	assert.Equal(t, 60, Build(c).FaceCount())
}

func TestBoundaryFacesAlwaysEmitted(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z uint8
		face    Face
	}{
		{"left", 0, 10, 5, FaceLeft},
		{"right", 15, 10, 5, FaceRight},
		{"front", 5, 10, 0, FaceFront},
		{"back", 5, 10, 15, FaceBack},
		{"bottom", 5, 0, 5, FaceBottom},
		{"top", 5, 255, 5, FaceTop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := world.NewChunk(0, 0)
			c.SetBlockAt(tt.x, tt.y, tt.z, world.BlockTypeStone)
			assert.True(t, faceVisible(c, &[4]*world.Chunk{}, tt.x, tt.y, tt.z, tt.face))
		})
	}
}

func TestDefaultChunkFaceCount(t *testing.T) {
	w := world.New("")
	m := Build(w.ChunkAt(0, 0))

	// 23 layers x 16 columns on each of the four sides, plus the full bottom
	// and top layers.
	assert.Equal(t, 4*23*16+256+256, m.FaceCount())
	assert.Equal(t, 11904, m.VertexCount())
}

func TestThreeLayerChunkFaceCount(t *testing.T) {
	c := world.NewChunk(0, 0)
	for y := uint8(0); y < 3; y++ {
		c.FillLayer(y, world.BlockTypeBedrock)
	}
	assert.Equal(t, 704, Build(c).FaceCount())
}

func TestBuildWithNeighborsCullsSides(t *testing.T) {
	w := world.New("")

	inner := BuildWithNeighbors(w.ChunkAt(1, 1), w)
	assert.Equal(t, 512, inner.FaceCount(), "only bottom and top remain")

	corner := BuildWithNeighbors(w.ChunkAt(0, 0), w)
	assert.Equal(t, 2*23*16+512, corner.FaceCount(), "world-edge sides stay open")
}

func TestBuildWithNeighborsOpenNeighbor(t *testing.T) {
	w := world.New("")
	c := w.ChunkAt(1, 1)
	require.True(t, w.SetBlockAt(32, 10, 20, world.BlockTypeAir))

	// Chunk (2,1) lost a block at local x=0, exposing one right face of (1,1).
	m := BuildWithNeighbors(c, w)
	assert.Equal(t, 513, m.FaceCount())
}

func TestMeshNormalsFromCornerTable(t *testing.T) {
	c := world.NewChunk(0, 0)
	c.SetBlockAt(3, 3, 3, world.BlockTypeGrass)
	m := Build(c)

	for i := 0; i < len(m.Positions); i += 3 {
		local := mgl32.Vec3{m.Positions[i] - 3, m.Positions[i+1] - 3, m.Positions[i+2] - 3}
		n := mgl32.Vec3{m.Normals[i], m.Normals[i+1], m.Normals[i+2]}
		for k := range 3 {
			want := float32(-1)
			if local[k] == 1 {
				want = 1
			}
			assert.Equal(t, want, n[k])
		}
	}
}

func TestFaceTrianglesFaceOutward(t *testing.T) {
	for _, f := range Faces {
		dx, dy, dz := f.Offset()
		out := mgl32.Vec3{float32(dx), float32(dy), float32(dz)}
		idx := faceCorners[f]
		for tri := 0; tri < VerticesPerFace; tri += 3 {
			a, b, c := cubeCorners[idx[tri]], cubeCorners[idx[tri+1]], cubeCorners[idx[tri+2]]
			n := b.Sub(a).Cross(c.Sub(a))
			assert.Equal(t, out, n, "face %v triangle %d", f, tri/3)
		}
	}
}

func TestFaceCornersCoverQuad(t *testing.T) {
	for _, f := range Faces {
		seen := map[uint8]int{}
		for _, i := range faceCorners[f] {
			seen[i]++
		}
		assert.Len(t, seen, 4, "face %v must use four distinct corners", f)
	}
}

func TestModelMatrix(t *testing.T) {
	m := ModelMatrix(world.ChunkCoord{X: 2, Z: 3})
	p := m.Mul4x1(mgl32.Vec4{1, 2, 3, 1})
	assert.Equal(t, mgl32.Vec4{33, 2, 51, 1}, p)
}

func BenchmarkBuildDefaultChunk(b *testing.B) {
	ch := world.New("").ChunkAt(0, 0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Build(ch)
	}
}
