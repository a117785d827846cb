package world

import (
	"sort"
	"sync"
)

// chunkSlot holds a chunk that is generated exactly once. done is closed when
// chunk has been filled in.
type chunkSlot struct {
	done  chan struct{}
	chunk *Chunk
}

func (s *chunkSlot) wait() *Chunk {
	<-s.done
	return s.chunk
}

// ChunkStore manages the storage and retrieval of chunks.
type ChunkStore struct {
	mu    sync.RWMutex
	slots map[ChunkCoord]*chunkSlot
}

// NewChunkStore creates a new chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		slots: make(map[ChunkCoord]*chunkSlot),
	}
}

// GetOrCreate returns the chunk at coord, building it with create if it does not
// exist yet. create runs at most once per coordinate even under concurrent first
// access; goroutines that lose the race block until the winner's chunk is ready.
// If create panics the coordinate is released so a later call can retry.
func (cs *ChunkStore) GetOrCreate(coord ChunkCoord, create func(ChunkCoord) *Chunk) *Chunk {
	for {
		cs.mu.RLock()
		slot, exists := cs.slots[coord]
		cs.mu.RUnlock()
		if exists {
			if ch := slot.wait(); ch != nil {
				return ch
			}
			continue
		}

		cs.mu.Lock()
		// Double-check locking: another goroutine might have claimed it while we were waiting for the lock
		if slot, exists = cs.slots[coord]; exists {
			cs.mu.Unlock()
			if ch := slot.wait(); ch != nil {
				return ch
			}
			continue
		}
		slot = &chunkSlot{done: make(chan struct{})}
		cs.slots[coord] = slot
		cs.mu.Unlock()

		return cs.fill(coord, slot, create)
	}
}

// fill runs create outside the lock so other coordinates are not held up.
// A failed slot is removed before its waiters wake.
func (cs *ChunkStore) fill(coord ChunkCoord, slot *chunkSlot, create func(ChunkCoord) *Chunk) (ch *Chunk) {
	defer func() {
		r := recover()
		if ch == nil {
			cs.mu.Lock()
			delete(cs.slots, coord)
			cs.mu.Unlock()
		}
		close(slot.done)
		if r != nil {
			panic(r)
		}
	}()
	slot.chunk = create(coord)
	return slot.chunk
}

// Get returns the chunk at coord without creating it. If the chunk is being
// generated, Get waits for it.
func (cs *ChunkStore) Get(coord ChunkCoord) (*Chunk, bool) {
	cs.mu.RLock()
	slot, exists := cs.slots[coord]
	cs.mu.RUnlock()
	if !exists {
		return nil, false
	}
	ch := slot.wait()
	return ch, ch != nil
}

// HasChunk checks if a chunk exists (or is being generated) without creating it.
func (cs *ChunkStore) HasChunk(coord ChunkCoord) bool {
	cs.mu.RLock()
	_, exists := cs.slots[coord]
	cs.mu.RUnlock()
	return exists
}

// Len returns the number of stored chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.slots)
}

// All returns every stored chunk ordered by (X, Z).
func (cs *ChunkStore) All() []*Chunk {
	cs.mu.RLock()
	slots := make([]*chunkSlot, 0, len(cs.slots))
	for _, slot := range cs.slots {
		slots = append(slots, slot)
	}
	cs.mu.RUnlock()

	chunks := make([]*Chunk, 0, len(slots))
	for _, slot := range slots {
		if ch := slot.wait(); ch != nil {
			chunks = append(chunks, ch)
		}
	}
	sort.Slice(chunks, func(i, j int) bool {
		a, b := chunks[i].coord, chunks[j].coord
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Z < b.Z
	})
	return chunks
}
