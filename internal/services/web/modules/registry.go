package modules

import (
	"github.com/louisbranch/talevortex/internal/services/web/modules/account"
	"github.com/louisbranch/talevortex/internal/services/web/modules/catalog"
	"github.com/louisbranch/talevortex/internal/services/web/modules/publicauth"
	"github.com/louisbranch/talevortex/internal/services/web/modules/stories"
	"github.com/louisbranch/talevortex/internal/services/web/modules/units"
)

// PublicModules returns the modules served without a session.
func PublicModules(deps Dependencies) []Module {
	return []Module{
		publicauth.New(publicauth.Config{
			Base:    deps.Base,
			Users:   deps.Users,
			Tokens:  deps.Tokens,
			Sender:  deps.Sender,
			BaseURL: deps.BaseURL,
		}),
	}
}

// ProtectedModules returns the modules that require a signed-in session.
func ProtectedModules(deps Dependencies) []Module {
	return []Module{
		catalog.New(deps.Base, deps.Catalog),
		account.New(deps.Base, deps.Accounts),
		stories.New(deps.Base, deps.Stories),
		units.New(deps.Base, deps.Units),
	}
}
