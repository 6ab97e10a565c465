// Package modules defines web module registry helpers.
package modules

import (
	"github.com/louisbranch/talevortex/internal/platform/mail"
	module "github.com/louisbranch/talevortex/internal/services/web/module"
	"github.com/louisbranch/talevortex/internal/services/web/modules/account"
	"github.com/louisbranch/talevortex/internal/services/web/modules/catalog"
	"github.com/louisbranch/talevortex/internal/services/web/modules/publicauth"
	"github.com/louisbranch/talevortex/internal/services/web/modules/stories"
	"github.com/louisbranch/talevortex/internal/services/web/modules/units"
	"github.com/louisbranch/talevortex/internal/services/web/platform/modulehandler"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries what the web module registry needs. Each service field
// is typed as the narrow interface defined by the consuming module.
type Dependencies struct {
	Base modulehandler.Base

	// Login module.
	Users   publicauth.Users
	Tokens  publicauth.Tokens
	Sender  mail.Sender
	BaseURL string

	Accounts account.Accounts
	Catalog  catalog.Catalog
	Stories  stories.Stories
	Units    units.Units
}
