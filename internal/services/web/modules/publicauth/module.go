package publicauth

import (
	"github.com/louisbranch/talevortex/internal/platform/mail"
	module "github.com/louisbranch/talevortex/internal/services/web/module"
	"github.com/louisbranch/talevortex/internal/services/web/platform/modulehandler"
)

// Config carries the dependencies of the login module.
type Config struct {
	Base    modulehandler.Base
	Users   Users
	Tokens  Tokens
	Sender  mail.Sender
	BaseURL string
}

// Module provides magic-link login and logout routes.
type Module struct {
	cfg Config
}

// New returns a login module.
func New(cfg Config) Module {
	return Module{cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "publicauth" }

// Mount wires login route handlers.
func (m Module) Mount() (module.Mount, error) {
	router := module.NewRouter()
	h := newHandlers(m.cfg.Base, newService(m.cfg.Users, m.cfg.Tokens, m.cfg.Sender, m.cfg.BaseURL))
	registerRoutes(router, h)
	return router.Mount(), nil
}
