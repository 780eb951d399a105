package indexer

import (
	"sync"
	"sync/atomic"
)

// IndexLock guards a project against concurrent indexing runs.
// A second run fails fast instead of queueing behind the first.
type IndexLock struct {
	state atomic.Int32 // 0 = unlocked, 1 = locked
}

// TryAcquire attempts to acquire the lock without blocking
func (l *IndexLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release releases the lock.
// Must only be called by the goroutine that acquired it.
func (l *IndexLock) Release() {
	l.state.Store(0)
}

// ProjectLocks hands out one IndexLock per project root.
// The zero value is ready to use.
type ProjectLocks struct {
	mu    sync.Mutex
	locks map[string]*IndexLock
}

// For returns the lock of root, creating it on first use
func (p *ProjectLocks) For(root string) *IndexLock {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.locks == nil {
		p.locks = make(map[string]*IndexLock)
	}
	lock, ok := p.locks[root]
	if !ok {
		lock = &IndexLock{}
		p.locks[root] = lock
	}
	return lock
}

// TryLock acquires the lock of root. ok is false while another run holds it.
func (p *ProjectLocks) TryLock(root string) (release func(), ok bool) {
	lock := p.For(root)
	if !lock.TryAcquire() {
		return nil, false
	}
	return lock.Release, true
}
