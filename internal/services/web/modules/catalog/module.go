// Package catalog serves the home page: the story list, the current story and
// the unit browser with its label and copy actions.
package catalog

import (
	"context"

	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/storage"
	module "github.com/louisbranch/talevortex/internal/services/web/module"
	"github.com/louisbranch/talevortex/internal/services/web/platform/modulehandler"
)

// Catalog is the read and browse surface used by the module.
type Catalog interface {
	ListStories(ctx context.Context, email string) ([]domain.Story, error)
	Aggregate(ctx context.Context, email, storyID string) (domain.Aggregate, error)
	Labels(ctx context.Context) ([]domain.Label, error)
	BrowseUnits(ctx context.Context, filter storage.UnitFilter) ([]domain.Unit, error)
	BrowsedUnit(ctx context.Context, unitID string) (domain.Unit, error)
	AssignLabel(ctx context.Context, unitIDs []string, labelName string) (domain.Label, int, error)
	CopyUnit(ctx context.Context, email, storyID, unitID string) (domain.Unit, error)
	TextEnabled() bool
}

// Module provides the home page and unit browser routes.
type Module struct {
	base    modulehandler.Base
	catalog Catalog
}

// New returns a catalog module.
func New(base modulehandler.Base, catalog Catalog) Module {
	return Module{base: base, catalog: catalog}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "catalog" }

// Mount wires catalog route handlers.
func (m Module) Mount() (module.Mount, error) {
	router := module.NewRouter()
	registerRoutes(router, handlers{Base: m.base, catalog: m.catalog})
	return router.Mount(), nil
}
