// Package module defines the feature contract used by web composition.
package module

import (
	"net/http"
	"slices"

	"github.com/louisbranch/talevortex/internal/services/web/routepath"
)

// Mount describes the paths a module answers and the handler serving them.
// Patterns are method-less so the composing mux can route every method to the
// module, which then answers 405 for methods it does not register.
type Mount struct {
	Patterns []string
	Handler  http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// Router records the patterns a module registers while building its mux.
type Router struct {
	mux      *http.ServeMux
	patterns []string
}

// NewRouter returns an empty module router.
func NewRouter() *Router {
	return &Router{mux: http.NewServeMux()}
}

// HandleFunc registers a method-qualified pattern.
func (r *Router) HandleFunc(pattern string, handler http.HandlerFunc) {
	if r == nil || handler == nil {
		return
	}
	r.mux.HandleFunc(pattern, handler)
	path := routepath.PathOf(pattern)
	if !slices.Contains(r.patterns, path) {
		r.patterns = append(r.patterns, path)
	}
}

// Mount returns the recorded patterns with the module mux.
func (r *Router) Mount() Mount {
	return Mount{Patterns: slices.Clone(r.patterns), Handler: r.mux}
}
