package stories

import (
	"net/http"

	module "github.com/louisbranch/talevortex/internal/services/web/module"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
)

func registerRoutes(router *module.Router, h handlers) {
	if router == nil {
		return
	}
	router.HandleFunc(http.MethodGet+" "+routepath.CreateStory, h.handleCreatePage)
	router.HandleFunc(http.MethodPost+" "+routepath.CreateStory, h.handleCreate)
	router.HandleFunc(http.MethodPost+" "+routepath.ImportStory, h.handleImport)
	router.HandleFunc(http.MethodGet+" "+routepath.SelectStoryPattern, h.handleSelect)
	router.HandleFunc(http.MethodPost+" "+routepath.DeleteStoryPattern, h.handleDelete)
	router.HandleFunc(http.MethodGet+" "+routepath.ViewStoryPattern, h.handleView)
	router.HandleFunc(http.MethodGet+" "+routepath.DownloadPDFPattern, h.handleDownloadPDF)
	router.HandleFunc(http.MethodGet+" "+routepath.DownloadTextPattern, h.handleDownloadText)
	router.HandleFunc(http.MethodGet+" "+routepath.DownloadJSONPattern, h.handleDownloadJSON)
}
