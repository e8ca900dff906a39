package playback

import "sync"

// ProcessInfo identifies the origin process of a replayed stream: the host
// it ran on and its process ID as recorded in that stream's leading Start
// event.
type ProcessInfo struct {
	Host      string
	ProcessID uint64
}

// ThreadGroupAllocator hands out dense, process-wide IDs for (process,
// host) pairs so the sink can cluster a replayed timeline's threads by
// their origin. It is safe for concurrent use, though in practice the
// scheduler is its only caller.
type ThreadGroupAllocator struct {
	mu     sync.Mutex
	byProc map[uint64]map[string]uint32
	nextID uint32
}

// NewThreadGroupAllocator constructs an empty allocator. The counter
// starts at 1 and is pre-incremented before use, so the first ID handed
// out is 2.
func NewThreadGroupAllocator() *ThreadGroupAllocator {
	return &ThreadGroupAllocator{
		byProc: make(map[uint64]map[string]uint32),
		nextID: 1,
	}
}

// Allocate returns the existing group ID for process, or allocates a new
// one if this is the first time process has been seen.
func (a *ThreadGroupAllocator) Allocate(process ProcessInfo) uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	names, ok := a.byProc[process.ProcessID]
	if !ok {
		names = make(map[string]uint32)
		a.byProc[process.ProcessID] = names
	}
	if id, ok := names[process.Host]; ok {
		return id
	}
	a.nextID++
	names[process.Host] = a.nextID
	return a.nextID
}
