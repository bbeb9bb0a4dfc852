// Package pool provides string interning for connectors that load whole
// datasets into memory. Categorical columns repeat a small set of values
// across many rows; interning keeps one copy of each.
package pool

import (
	"sync"
	"sync/atomic"
)

// DefaultMaxSize bounds an interner created with a non-positive size
const DefaultMaxSize = 10000

// StringInternPool returns a canonical copy of each string it has seen, up to
// maxSize distinct strings. Beyond that, strings are returned unchanged.
type StringInternPool struct {
	mu      sync.RWMutex
	strings map[string]string
	maxSize int
	size    int64
	hits    int64
	misses  int64
}

// NewStringInternPool creates an interner holding at most maxSize strings
func NewStringInternPool(maxSize int) *StringInternPool {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &StringInternPool{
		strings: make(map[string]string, 256),
		maxSize: maxSize,
	}
}

// Intern returns an interned version of the string
func (p *StringInternPool) Intern(s string) string {
	p.mu.RLock()
	if interned, ok := p.strings[s]; ok {
		p.mu.RUnlock()
		atomic.AddInt64(&p.hits, 1)
		return interned
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if interned, ok := p.strings[s]; ok {
		atomic.AddInt64(&p.hits, 1)
		return interned
	}

	atomic.AddInt64(&p.misses, 1)
	if atomic.LoadInt64(&p.size) >= int64(p.maxSize) {
		return s
	}
	p.strings[s] = s
	atomic.AddInt64(&p.size, 1)
	return s
}

// Stats returns intern pool statistics
func (p *StringInternPool) Stats() (size, hits, misses int64) {
	return atomic.LoadInt64(&p.size),
		atomic.LoadInt64(&p.hits),
		atomic.LoadInt64(&p.misses)
}
