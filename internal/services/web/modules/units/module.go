// Package units serves the add, edit and delete unit forms of the current
// story, including assistant-filled suggestions.
package units

import (
	"context"

	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/fieldfill"
	"github.com/louisbranch/talevortex/internal/services/story/service"
	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
	module "github.com/louisbranch/talevortex/internal/services/web/module"
	"github.com/louisbranch/talevortex/internal/services/web/platform/modulehandler"
)

// Units is the unit surface used by the module.
type Units interface {
	Aggregate(ctx context.Context, email, storyID string) (domain.Aggregate, error)
	Unit(ctx context.Context, email, storyID, name string) (domain.Unit, error)
	AddUnit(ctx context.Context, email, storyID string, in service.UnitInput) (domain.Unit, error)
	UpdateUnit(ctx context.Context, email, storyID, currentName string, in service.UnitInput) (domain.Unit, error)
	DeleteUnit(ctx context.Context, email, storyID, name string) (domain.Unit, error)
	BrowsedUnit(ctx context.Context, unitID string) (domain.Unit, error)
	SuggestFields(ctx context.Context, email, storyID string, t unitschema.Type, description, name string) (fieldfill.Suggestion, error)
	FillEnabled() bool
}

// Module provides unit routes.
type Module struct {
	base  modulehandler.Base
	units Units
}

// New returns a units module.
func New(base modulehandler.Base, units Units) Module {
	return Module{base: base, units: units}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "units" }

// Mount wires unit route handlers.
func (m Module) Mount() (module.Mount, error) {
	router := module.NewRouter()
	registerRoutes(router, handlers{Base: m.base, units: m.units})
	return router.Mount(), nil
}
