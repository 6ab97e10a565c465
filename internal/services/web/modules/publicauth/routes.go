package publicauth

import (
	"net/http"

	module "github.com/louisbranch/talevortex/internal/services/web/module"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
)

func registerRoutes(router *module.Router, h handlers) {
	if router == nil {
		return
	}
	router.HandleFunc(http.MethodGet+" "+routepath.Login, h.handleLoginPage)
	router.HandleFunc(http.MethodPost+" "+routepath.Login, h.handleLoginRequest)
	router.HandleFunc(http.MethodGet+" "+routepath.LoginToken, h.handleLoginToken)
	router.HandleFunc(http.MethodGet+" "+routepath.Logout, h.handleLogout)
}
