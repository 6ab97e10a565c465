// Package app composes web modules into the root handler.
package app

import (
	"fmt"
	"net/http"
	"strings"

	module "github.com/louisbranch/talevortex/internal/services/web/module"
	"github.com/louisbranch/talevortex/internal/services/web/platform/httpx"
	"github.com/louisbranch/talevortex/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/talevortex/internal/services/web/session"
)

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	PublicModules       []module.Module
	ProtectedModules    []module.Module
	RequestSchemePolicy requestmeta.SchemePolicy
	// NotFound answers paths no module claims. Defaults to http.NotFound.
	NotFound http.Handler
}

// Compose builds a root HTTP handler from module groups. Every pattern a
// module registers is claimed on the root mux exactly once.
func Compose(input ComposeInput) (*http.ServeMux, error) {
	root := http.NewServeMux()
	seen := make(map[string]string)

	for _, feature := range input.PublicModules {
		if feature == nil {
			return nil, fmt.Errorf("public module is nil")
		}
		if err := mountModule(root, feature, seen, nil); err != nil {
			return nil, err
		}
	}

	protect := wrapProtectedModule(input.RequestSchemePolicy)
	for _, feature := range input.ProtectedModules {
		if feature == nil {
			return nil, fmt.Errorf("protected module is nil")
		}
		if err := mountModule(root, feature, seen, protect); err != nil {
			return nil, err
		}
	}

	if _, claimed := seen["/"]; !claimed {
		notFound := input.NotFound
		if notFound == nil {
			notFound = http.NotFoundHandler()
		}
		root.Handle("/", notFound)
	}
	return root, nil
}

func mountModule(root *http.ServeMux, feature module.Module, seen map[string]string, wrap httpx.Middleware) error {
	mount, err := resolveMount(feature)
	if err != nil {
		return err
	}
	handler := mount.Handler
	if wrap != nil {
		handler = wrap(handler)
	}
	for _, pattern := range mount.Patterns {
		if previous, ok := seen[pattern]; ok {
			return fmt.Errorf("module %q duplicates pattern %q owned by module %q", feature.ID(), pattern, previous)
		}
		seen[pattern] = feature.ID()
		root.Handle(pattern, handler)
	}
	return nil
}

func resolveMount(feature module.Module) (module.Mount, error) {
	mount, err := feature.Mount()
	if err != nil {
		return module.Mount{}, fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if mount.Handler == nil {
		return module.Mount{}, fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	if len(mount.Patterns) == 0 {
		return module.Mount{}, fmt.Errorf("mount module %q: no routes registered", feature.ID())
	}
	for _, pattern := range mount.Patterns {
		if err := validatePattern(pattern); err != nil {
			return module.Mount{}, fmt.Errorf("mount module %q has invalid pattern %q: %w", feature.ID(), pattern, err)
		}
	}
	return mount, nil
}

func validatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("pattern is required")
	}
	if strings.TrimSpace(pattern) != pattern {
		return fmt.Errorf("pattern must not include surrounding whitespace")
	}
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("pattern must begin with /")
	}
	return nil
}

// wrapProtectedModule requires a session and rejects cross-origin mutations.
func wrapProtectedModule(policy requestmeta.SchemePolicy) httpx.Middleware {
	requireSession := session.Require(policy)
	sameOrigin := httpx.SameOrigin(policy)
	return func(next http.Handler) http.Handler {
		return requireSession(sameOrigin(next))
	}
}
