package meshing

import (
	"errors"
	"fmt"
	"sync"

	"github.com/alitto/pond/v2"

	"voxelmesh/internal/world"
)

// ErrPoolClosed is returned when work is submitted after Shutdown.
var ErrPoolClosed = errors.New("meshing: worker pool closed")

// MeshJob represents a meshing job request
type MeshJob struct {
	Chunk *world.Chunk
	// Result channel - will be sent the result when done. It should be
	// buffered; the worker blocks until the result is received.
	ResultChan chan MeshResult
}

// MeshResult contains the result of a meshing operation
type MeshResult struct {
	Coord   world.ChunkCoord
	Version uint64 // chunk version when the job started
	Mesh    *Mesh
	Error   error
}

// WorkerPool meshes chunks on a fixed set of goroutines. Each job produces its
// own Mesh, so chunks never share buffers.
type WorkerPool struct {
	pool  pond.Pool
	build BuildFunc

	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool creates a pool of workers goroutines building meshes with build.
func NewWorkerPool(workers int, build BuildFunc) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	return &WorkerPool{
		pool:  pond.NewPool(workers),
		build: build,
	}
}

// SubmitJob submits a mesh generation job to the pool. The result is delivered
// on job.ResultChan.
func (p *WorkerPool) SubmitJob(job MeshJob) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.pool.Submit(func() {
		job.ResultChan <- p.run(job.Chunk)
	})
	return nil
}

func (p *WorkerPool) run(c *world.Chunk) (res MeshResult) {
	res.Coord = c.Coord()
	res.Version = c.Version()
	defer func() {
		if r := recover(); r != nil {
			res.Mesh = nil
			res.Error = fmt.Errorf("meshing: build chunk %v: %v", res.Coord, r)
		}
	}()
	res.Mesh = p.build(c)
	return res
}

// BuildAll meshes every chunk in parallel and returns the meshes in input order.
func (p *WorkerPool) BuildAll(chunks []*world.Chunk) ([]*Mesh, error) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil, ErrPoolClosed
	}

	meshes := make([]*Mesh, len(chunks))
	errs := make([]error, len(chunks))
	var wg sync.WaitGroup
	for i, c := range chunks {
		wg.Add(1)
		p.pool.Submit(func() {
			defer wg.Done()
			res := p.run(c)
			meshes[i], errs[i] = res.Mesh, res.Error
		})
	}
	p.mu.RUnlock()

	wg.Wait()
	return meshes, errors.Join(errs...)
}

// Shutdown waits for running jobs and stops the workers. It is safe to call
// more than once.
func (p *WorkerPool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()
	p.pool.StopAndWait()
}

// GetQueueLength returns the current number of jobs waiting for a worker.
func (p *WorkerPool) GetQueueLength() int {
	return int(p.pool.WaitingTasks())
}
