// Package account serves the display-name settings page.
package account

import (
	"context"

	"github.com/louisbranch/talevortex/internal/services/story/domain"
	module "github.com/louisbranch/talevortex/internal/services/web/module"
	"github.com/louisbranch/talevortex/internal/services/web/platform/modulehandler"
)

// Accounts reads and renames users.
type Accounts interface {
	GetUser(ctx context.Context, email string) (domain.User, error)
	ChangeDisplayName(ctx context.Context, email, raw string) (string, error)
}

// Module provides account settings routes.
type Module struct {
	base     modulehandler.Base
	accounts Accounts
}

// New returns an account module.
func New(base modulehandler.Base, accounts Accounts) Module {
	return Module{base: base, accounts: accounts}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "account" }

// Mount wires account route handlers.
func (m Module) Mount() (module.Mount, error) {
	router := module.NewRouter()
	registerRoutes(router, handlers{Base: m.base, accounts: m.accounts})
	return router.Mount(), nil
}
