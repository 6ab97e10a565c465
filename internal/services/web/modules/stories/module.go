// Package stories serves story creation, selection, deletion, import and the
// export downloads.
package stories

import (
	"context"
	"io"

	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/service"
	module "github.com/louisbranch/talevortex/internal/services/web/module"
	"github.com/louisbranch/talevortex/internal/services/web/platform/modulehandler"
)

// Stories is the story surface used by the module.
type Stories interface {
	CreateStory(ctx context.Context, email string, in service.StoryInput) (domain.Story, error)
	Story(ctx context.Context, email, storyID string) (domain.Story, error)
	Aggregate(ctx context.Context, email, storyID string) (domain.Aggregate, error)
	DeleteStory(ctx context.Context, email, storyID string) (domain.Story, error)
	ImportStory(ctx context.Context, email string, data []byte) (domain.Story, error)
	ExportJSON(ctx context.Context, email, storyID string) (domain.Aggregate, []byte, error)
	ExportPDF(ctx context.Context, email, storyID string, w io.Writer) (domain.Aggregate, error)
	ExportText(ctx context.Context, email, storyID string) (domain.Aggregate, string, error)
}

// Module provides story routes.
type Module struct {
	base    modulehandler.Base
	stories Stories
}

// New returns a stories module.
func New(base modulehandler.Base, stories Stories) Module {
	return Module{base: base, stories: stories}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "stories" }

// Mount wires story route handlers.
func (m Module) Mount() (module.Mount, error) {
	router := module.NewRouter()
	registerRoutes(router, handlers{Base: m.base, stories: m.stories})
	return router.Mount(), nil
}
