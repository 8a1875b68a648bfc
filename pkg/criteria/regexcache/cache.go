// Package regexcache keeps compiled regular expressions for the lifetime of
// the process. A conditional breakpoint may be evaluated thousands of times
// per session, each pattern is compiled only once.
package regexcache

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"go.uber.org/atomic"
)

// ErrBadPattern pattern could not be compiled
var ErrBadPattern = errors.New("bad regex pattern")

// CompileFunc compiles a pattern.
type CompileFunc func(pattern string) (*regexp.Regexp, error)

// Cache maps pattern source to its compiled form. Entries are never evicted.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*regexp.Regexp
	compile CompileFunc

	hits   *atomic.Uint64
	misses *atomic.Uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithCompiler replaces regexp.Compile.
func WithCompiler(fn CompileFunc) Option {
	return func(c *Cache) {
		c.compile = fn
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: map[string]*regexp.Regexp{},
		compile: regexp.Compile,
		hits:    atomic.NewUint64(0),
		misses:  atomic.NewUint64(0),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GetOrCompile returns the regex compiled from pattern, compiling it on the
// first request. Failed compilations are not cached.
func (c *Cache) GetOrCompile(pattern string) (*regexp.Regexp, error) {
	c.mu.RLock()
	re, ok := c.entries[pattern]
	c.mu.RUnlock()
	if ok {
		c.hits.Inc()
		return re, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// another caller may have compiled it between the two locks
	if re, ok = c.entries[pattern]; ok {
		c.hits.Inc()
		return re, nil
	}

	c.misses.Inc()
	re, err := c.compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrBadPattern, pattern, err)
	}
	c.entries[pattern] = re
	return re, nil
}

// Stats cache counters
type Stats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()

	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   n,
	}
}

var defaultCache = New()

// Default returns the process-wide cache.
func Default() *Cache {
	return defaultCache
}

// GetOrCompile looks pattern up in the process-wide cache.
func GetOrCompile(pattern string) (*regexp.Regexp, error) {
	return defaultCache.GetOrCompile(pattern)
}
