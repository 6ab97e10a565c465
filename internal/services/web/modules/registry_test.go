package modules

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/talevortex/internal/services/web/platform/modulehandler"
)

func TestRegistryModuleOrder(t *testing.T) {
	t.Parallel()

	deps := Dependencies{Base: modulehandler.NewTestBase()}
	public := PublicModules(deps)
	protected := ProtectedModules(deps)

	var gotPublic, gotProtected []string
	for _, m := range public {
		gotPublic = append(gotPublic, m.ID())
	}
	for _, m := range protected {
		gotProtected = append(gotProtected, m.ID())
	}
	if got := strings.Join(gotPublic, ","); got != "publicauth" {
		t.Fatalf("public modules = %q", got)
	}
	if got := strings.Join(gotProtected, ","); got != "catalog,account,stories,units" {
		t.Fatalf("protected modules = %q", got)
	}
}

func TestModulesClaimDistinctPatterns(t *testing.T) {
	t.Parallel()

	deps := Dependencies{Base: modulehandler.NewTestBase()}
	seen := map[string]string{}
	for _, m := range append(PublicModules(deps), ProtectedModules(deps)...) {
		mount, err := m.Mount()
		if err != nil {
			t.Fatalf("module %q mount error = %v", m.ID(), err)
		}
		if len(mount.Patterns) == 0 {
			t.Fatalf("module %q registers no routes", m.ID())
		}
		for _, pattern := range mount.Patterns {
			if owner, ok := seen[pattern]; ok {
				t.Fatalf("pattern %q claimed by %q and %q", pattern, owner, m.ID())
			}
			seen[pattern] = m.ID()
		}
	}
}

func TestFeatureModulesDoNotImportSiblingModules(t *testing.T) {
	t.Parallel()

	entries, err := filepath.Glob(filepath.Join("*", "*.go"))
	if err != nil {
		t.Fatalf("glob module files: %v", err)
	}
	fset := token.NewFileSet()
	for _, file := range entries {
		parsed, err := parser.ParseFile(fset, file, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parse imports for %s: %v", file, err)
		}
		for _, imp := range parsed.Imports {
			path := strings.Trim(imp.Path.Value, "\"")
			if strings.Contains(path, "/internal/services/web/modules/") {
				t.Fatalf("file %s imports sibling module path %q", file, path)
			}
		}
	}
}
