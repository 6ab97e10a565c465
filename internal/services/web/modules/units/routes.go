package units

import (
	"net/http"

	module "github.com/louisbranch/talevortex/internal/services/web/module"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
)

func registerRoutes(router *module.Router, h handlers) {
	if router == nil {
		return
	}
	router.HandleFunc(http.MethodGet+" "+routepath.AddUnitPattern, h.handleAddPage)
	router.HandleFunc(http.MethodPost+" "+routepath.AddUnitPattern, h.handleAdd)
	router.HandleFunc(http.MethodGet+" "+routepath.EditUnitPattern, h.handleEditPage)
	router.HandleFunc(http.MethodPost+" "+routepath.EditUnitPattern, h.handleEdit)
	router.HandleFunc(http.MethodGet+" "+routepath.DeleteUnitPattern, h.handleDelete)
}
