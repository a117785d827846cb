package graphics

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sync"
)

// ErrInvalidShaderName is returned for names that are empty or would escape the
// shader directory.
var ErrInvalidShaderName = errors.New("graphics: invalid shader name")

var shaderName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ShaderCompiler turns shader sources into programs. GLCompiler is the
// OpenGL implementation.
type ShaderCompiler interface {
	Compile(name, vertexSrc, fragmentSrc string) (*Shader, error)
	Delete(s *Shader)
}

// ShaderCache loads each named program once from <name>.vert and <name>.frag.
type ShaderCache struct {
	mu       sync.Mutex
	sources  fs.FS
	compiler ShaderCompiler
	programs map[string]*Shader
}

// NewShaderCache creates a cache reading sources from the root of sources.
func NewShaderCache(sources fs.FS, compiler ShaderCompiler) *ShaderCache {
	return &ShaderCache{
		sources:  sources,
		compiler: compiler,
		programs: make(map[string]*Shader),
	}
}

// Get returns the program called name, loading and compiling it on first use.
// Failures are not cached, so a fixed source can be retried.
func (sc *ShaderCache) Get(name string) (*Shader, error) {
	if !shaderName.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidShaderName, name)
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if s, ok := sc.programs[name]; ok {
		return s, nil
	}

	vert, err := fs.ReadFile(sc.sources, name+".vert")
	if err != nil {
		return nil, fmt.Errorf("graphics: load shader %q: %w", name, err)
	}
	frag, err := fs.ReadFile(sc.sources, name+".frag")
	if err != nil {
		return nil, fmt.Errorf("graphics: load shader %q: %w", name, err)
	}

	s, err := sc.compiler.Compile(name, string(vert), string(frag))
	if err != nil {
		return nil, fmt.Errorf("graphics: compile shader %q: %w", name, err)
	}
	sc.programs[name] = s
	return s, nil
}

// Len returns the number of loaded programs.
func (sc *ShaderCache) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.programs)
}

// Close deletes every loaded program.
func (sc *ShaderCache) Close() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for name, s := range sc.programs {
		sc.compiler.Delete(s)
		delete(sc.programs, name)
	}
}
