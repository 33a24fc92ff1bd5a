// Package format maps output types declared in a resource tree to the
// formatters that produce their text.
package format

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/teranos/grit/grd"
)

// Func produces the lines of one output file. Every yielded line ends
// in "\n"; a non-nil error ends the sequence.
type Func func(tree grd.Tree, lang, outputDir string) iter.Seq2[string, error]

// Registry holds one formatter per output type.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Func)}
}

// Register binds outputType to fn. Registering a type twice panics.
func (r *Registry) Register(outputType string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.formatters[outputType]; dup {
		panic(fmt.Sprintf("format: formatter for %q registered twice", outputType))
	}
	r.formatters[outputType] = fn
}

// Lookup returns the formatter for outputType.
func (r *Registry) Lookup(outputType string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.formatters[outputType]
	return fn, ok
}

// Types returns the registered output types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.formatters))
	for t := range r.formatters {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
