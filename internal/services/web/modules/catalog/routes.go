package catalog

import (
	"net/http"

	module "github.com/louisbranch/talevortex/internal/services/web/module"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
)

func registerRoutes(router *module.Router, h handlers) {
	if router == nil {
		return
	}
	router.HandleFunc(http.MethodGet+" "+routepath.RootPattern, h.handleIndex)
	router.HandleFunc(http.MethodPost+" "+routepath.AssignLabels, h.handleAssignLabels)
	router.HandleFunc(http.MethodPost+" "+routepath.AddExistingUnitPattern, h.handleAddExisting)
}
