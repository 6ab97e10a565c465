package account

import (
	"net/http"

	module "github.com/louisbranch/talevortex/internal/services/web/module"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
)

func registerRoutes(router *module.Router, h handlers) {
	if router == nil {
		return
	}
	router.HandleFunc(http.MethodGet+" "+routepath.ChangeUsername, h.handleChangeUsernamePage)
	router.HandleFunc(http.MethodPost+" "+routepath.ChangeUsername, h.handleChangeUsername)
}
