// Package criteria provides conditions for breakpoints: predicates over the
// stopped frame that decide whether the debugger should really stop.
//
// A predicate is registered under a name, which turns it into a Factory. The
// host binds parameters through the factory and gets back a Callback with the
// signature its breakpoint-stop mechanism expects. A Callback returning false
// means "don't stop, keep running".
package criteria

import (
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/exp/slices"

	"github.com/hitzhangjie/bpcond/pkg/frame"
)

// Predicate answers a yes/no question about the stopped frame.
type Predicate func(f frame.Frame, args ...interface{}) (bool, error)

// Callback is invoked by the host when a breakpoint is hit. loc and extra are
// host context and are ignored by every predicate here.
type Callback func(f frame.Frame, loc, extra interface{}) (bool, error)

// Factory binds parameters to a predicate. Each call returns an independent
// Callback.
type Factory func(args ...interface{}) Callback

// Entry 注册表中的一项
type Entry struct {
	Name    string
	Usage   string
	Seq     uint64 // 注册序号，重复注册时递增
	Factory Factory
}

// Registry maps predicate names to factories.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	seq     *atomic.Uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: map[string]*Entry{},
		seq:     atomic.NewUint64(0),
	}
}

// Bind wraps p into a factory without publishing it anywhere.
func Bind(p Predicate) Factory {
	return func(args ...interface{}) Callback {
		bound := append([]interface{}(nil), args...)
		return func(f frame.Frame, _, _ interface{}) (bool, error) {
			return p(f, bound...)
		}
	}
}

// Register publishes p under name and returns its factory. An existing entry
// with the same name is replaced.
func (r *Registry) Register(name, usage string, p Predicate) Factory {
	factory := Bind(p)

	r.mu.Lock()
	r.entries[name] = &Entry{
		Name:    name,
		Usage:   usage,
		Seq:     r.seq.Inc(),
		Factory: factory,
	}
	r.mu.Unlock()

	return factory
}

// Unregister removes name, reporting whether it was registered.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.entries[name]
	delete(r.entries, name)
	return ok
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.Factory, true
}

// Entry returns a copy of the entry registered under name.
func (r *Registry) Entry(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Entries returns copies of all entries sorted by name.
func (r *Registry) Entries() []Entry {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if e, ok := r.entries[name]; ok {
			entries = append(entries, *e)
		}
	}
	return entries
}

// Len returns the number of registered predicates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Reset removes every entry.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.entries = map[string]*Entry{}
	r.mu.Unlock()
}

// Default is the process-wide registry the host resolves names against. It
// holds the builtin catalog once the package is loaded.
var Default = NewRegistry()

func init() {
	Setup(Default)
}

// Setup registers the builtin catalog into r.
func Setup(r *Registry) {
	for _, b := range builtins {
		r.Register(b.name, b.usage, b.pred)
	}
}

// Teardown empties the process-wide registry. Call Setup(Default) to restore
// the builtin catalog.
func Teardown() {
	Default.Reset()
}
