package stories

import (
	"bytes"
	"io"
	"net/http"

	"go.uber.org/zap"

	shared "github.com/louisbranch/talevortex/internal/services/shared/templates"
	"github.com/louisbranch/talevortex/internal/services/story/service"
	apperrors "github.com/louisbranch/talevortex/internal/services/web/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/web/platform/flash"
	"github.com/louisbranch/talevortex/internal/services/web/platform/httpx"
	"github.com/louisbranch/talevortex/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/talevortex/internal/services/web/platform/weberror"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
	"github.com/louisbranch/talevortex/internal/services/web/session"
	webtemplates "github.com/louisbranch/talevortex/internal/services/web/templates"
)

// maxImportBytes bounds uploaded story files.
const maxImportBytes = 4 << 20

type handlers struct {
	modulehandler.Base
	stories Stories
}

func (h handlers) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	h.writeCreatePage(w, r, http.StatusOK, webtemplates.CreateStoryView{})
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_form", "parse form"))
		return
	}
	in := service.StoryInput{
		Name:      r.PostFormValue("name"),
		Setting:   r.PostFormValue("setting"),
		Challenge: r.PostFormValue("challenge"),
	}
	story, err := h.stories.CreateStory(r.Context(), h.RequestEmail(r), in)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		if weberror.ShouldRenderAppError(status) {
			h.WriteError(w, r, err)
			return
		}
		loc, _ := h.PageLocalizer(r)
		h.writeCreatePage(w, r, status, webtemplates.CreateStoryView{
			Name:      in.Name,
			Setting:   in.Setting,
			Challenge: in.Challenge,
			Error:     weberror.PublicMessage(loc, err),
		})
		return
	}
	h.selectStory(r, story.ID)
	h.RedirectWithFlash(w, r, routepath.Root, flash.Success("notice.story_created", story.Name))
}

func (h handlers) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile(routepath.StoryFileKey)
	if err != nil {
		h.RedirectWithFlash(w, r, routepath.Root, flash.Error("error.import_file_missing"))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.RedirectWithFlash(w, r, routepath.Root, flash.Error("error.import_malformed"))
		return
	}
	story, err := h.stories.ImportStory(r.Context(), h.RequestEmail(r), data)
	if err != nil {
		h.RedirectWithError(w, r, routepath.Root, err)
		return
	}
	h.selectStory(r, story.ID)
	h.RedirectWithFlash(w, r, routepath.Root, flash.Success("notice.story_imported", story.Name))
}

func (h handlers) handleSelect(w http.ResponseWriter, r *http.Request) {
	story, err := h.stories.Story(r.Context(), h.RequestEmail(r), r.PathValue("storyID"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.selectStory(r, story.ID)
	httpx.WriteRedirect(w, r, routepath.Root)
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	story, err := h.stories.DeleteStory(r.Context(), h.RequestEmail(r), r.PathValue("storyID"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if sessions := h.Sessions(); sessions != nil {
		sessions.ForgetStory(story.ID)
	}
	h.RedirectWithFlash(w, r, routepath.Root, flash.Success("notice.story_deleted", story.Name))
}

func (h handlers) handleView(w http.ResponseWriter, r *http.Request) {
	agg, err := h.stories.Aggregate(r.Context(), h.RequestEmail(r), r.PathValue("storyID"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(r)
	crumbs := shared.Trail(
		shared.BreadcrumbItem{Label: webtemplates.T(loc, "title.home"), URL: routepath.Root},
		shared.BreadcrumbItem{Label: agg.Story.Name},
	)
	h.WritePage(w, r, agg.Story.Name, http.StatusOK, crumbs, webtemplates.StoryViewPage(agg, loc))
}

func (h handlers) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	agg, err := h.stories.ExportPDF(r.Context(), h.RequestEmail(r), r.PathValue("storyID"), &buf)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.writeAttachment(w, agg.Story.Name+".pdf", "application/pdf", buf.Bytes())
}

func (h handlers) handleDownloadJSON(w http.ResponseWriter, r *http.Request) {
	agg, data, err := h.stories.ExportJSON(r.Context(), h.RequestEmail(r), r.PathValue("storyID"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.writeAttachment(w, agg.Story.Name+".json", "application/json", data)
}

func (h handlers) handleDownloadText(w http.ResponseWriter, r *http.Request) {
	agg, text, err := h.stories.ExportText(r.Context(), h.RequestEmail(r), r.PathValue("storyID"))
	if err != nil {
		h.RedirectWithError(w, r, routepath.Root, err)
		return
	}
	h.writeAttachment(w, agg.Story.Name+".txt", "text/plain; charset=utf-8", []byte(text))
}

func (h handlers) writeAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	if err := httpx.WriteAttachment(w, filename, contentType, data); err != nil {
		h.Logger().Warn("write attachment", zap.String("filename", filename), zap.Error(err))
	}
}

func (h handlers) selectStory(r *http.Request, storyID string) {
	h.UpdateSession(r, func(s *session.Session) {
		s.StoryID = storyID
	})
}

func (h handlers) writeCreatePage(w http.ResponseWriter, r *http.Request, status int, view webtemplates.CreateStoryView) {
	loc, _ := h.PageLocalizer(r)
	h.WritePage(w, r, webtemplates.T(loc, "title.create_story"), status, nil, webtemplates.CreateStoryPage(view, loc))
}
