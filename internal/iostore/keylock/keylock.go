// Package keylock serializes writers of the same bucket key while
// writers of different keys proceed in parallel. Keys are spread over a
// fixed number of mutexes by their xxhash.
package keylock

import (
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Locks is a set of striped mutexes.
type Locks struct {
	mus []sync.Mutex
}

// New creates n striped locks. If n is not positive, one lock is used.
func New(n int) *Locks {
	n = max(n, 1)
	return &Locks{mus: make([]sync.Mutex, n)}
}

// Lock acquires the lock of the key and returns a function that releases
// it.
func (l *Locks) Lock(key string) func() {
	mu := &l.mus[l.stripe(key)]
	mu.Lock()
	return mu.Unlock
}

// LockAll acquires locks of all keys and returns a function that
// releases them. Stripes are locked in ascending order, so LockAll never
// deadlocks with Lock or with another LockAll.
func (l *Locks) LockAll(keys []string) func() {
	stripes := make([]uint64, 0, len(keys))
	for _, k := range keys {
		stripes = append(stripes, l.stripe(k))
	}
	slices.Sort(stripes)
	stripes = slices.Compact(stripes)

	for _, i := range stripes {
		l.mus[i].Lock()
	}
	return func() {
		for _, i := range slices.Backward(stripes) {
			l.mus[i].Unlock()
		}
	}
}

// Len returns the number of stripes.
func (l *Locks) Len() int {
	return len(l.mus)
}

func (l *Locks) stripe(key string) uint64 {
	return xxhash.Sum64String(key) % uint64(len(l.mus))
}
