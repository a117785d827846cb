package objexport

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"voxelmesh/internal/meshing"
)

// Stats summarises what a Writer has written.
type Stats struct {
	Objects   int
	Vertices  int
	Triangles int
}

// Writer streams chunk meshes as one Wavefront OBJ document. Every chunk
// becomes an object and vertices are translated to world coordinates.
type Writer struct {
	w     *bufio.Writer
	buf   []byte
	stats Stats
}

// NewWriter creates a writer on w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), buf: make([]byte, 0, 64)}
}

// Comment writes a "#" line. Newlines in text are replaced by spaces.
func (ow *Writer) Comment(text string) error {
	_, err := fmt.Fprintf(ow.w, "# %s\n", strings.ReplaceAll(text, "\n", " "))
	return err
}

// WriteMesh appends m as object "chunk_<x>_<z>". Empty meshes are skipped.
func (ow *Writer) WriteMesh(m *meshing.Mesh) error {
	if m == nil || m.IsEmpty() {
		return nil
	}
	ox, oz := m.Coord.Origin()
	if _, err := fmt.Fprintf(ow.w, "o chunk_%d_%d\n", m.Coord.X, m.Coord.Z); err != nil {
		return err
	}

	n := m.VertexCount()
	for i := 0; i < n; i++ {
		p := m.Positions[i*meshing.FloatsPerVertex:]
		if err := ow.vec("v", p[0]+float32(ox), p[1], p[2]+float32(oz)); err != nil {
			return err
		}
	}
	for i := 0; i < n; i++ {
		nm := m.Normals[i*meshing.FloatsPerVertex:]
		if err := ow.vec("vn", nm[0], nm[1], nm[2]); err != nil {
			return err
		}
	}

	// OBJ indices are 1-based and global to the file.
	base := ow.stats.Vertices + 1
	for i := 0; i < n; i += 3 {
		b := ow.buf[:0]
		b = append(b, 'f')
		for k := range 3 {
			idx := strconv.Itoa(base + i + k)
			b = append(b, ' ')
			b = append(b, idx...)
			b = append(b, "//"...)
			b = append(b, idx...)
		}
		b = append(b, '\n')
		ow.buf = b
		if _, err := ow.w.Write(b); err != nil {
			return err
		}
	}

	ow.stats.Objects++
	ow.stats.Vertices += n
	ow.stats.Triangles += n / 3
	return nil
}

func (ow *Writer) vec(tag string, x, y, z float32) error {
	b := append(ow.buf[:0], tag...)
	for _, f := range [3]float32{x, y, z} {
		b = append(b, ' ')
		b = strconv.AppendFloat(b, float64(f), 'g', -1, 32)
	}
	b = append(b, '\n')
	ow.buf = b
	_, err := ow.w.Write(b)
	return err
}

// Stats returns the totals written so far.
func (ow *Writer) Stats() Stats {
	return ow.stats
}

// Flush writes any buffered data to the underlying writer.
func (ow *Writer) Flush() error {
	return ow.w.Flush()
}

// Export writes meshes to w as a single OBJ document.
func Export(w io.Writer, meshes []*meshing.Mesh) (Stats, error) {
	ow := NewWriter(w)
	if err := ow.Comment("voxelmesh export"); err != nil {
		return Stats{}, err
	}
	for _, m := range meshes {
		if err := ow.WriteMesh(m); err != nil {
			return ow.Stats(), fmt.Errorf("objexport: chunk %d,%d: %w", m.Coord.X, m.Coord.Z, err)
		}
	}
	return ow.Stats(), ow.Flush()
}

// gzipFile closes the gzip stream before the file.
type gzipFile struct {
	*gzip.Writer
	f *os.File
}

func (g *gzipFile) Close() error {
	if err := g.Writer.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

// Create opens path for writing. Paths ending in ".gz" are gzip compressed.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("objexport: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	return &gzipFile{Writer: gzip.NewWriter(f), f: f}, nil
}
