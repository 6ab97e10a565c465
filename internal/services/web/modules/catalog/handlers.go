package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/storage"
	apperrors "github.com/louisbranch/talevortex/internal/services/web/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/web/platform/flash"
	"github.com/louisbranch/talevortex/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
	"github.com/louisbranch/talevortex/internal/services/web/session"
	webtemplates "github.com/louisbranch/talevortex/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	catalog Catalog
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := h.RequestEmail(r)
	stories, err := h.catalog.ListStories(ctx, email)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	view := webtemplates.IndexView{Stories: stories, TextEnabled: h.catalog.TextEnabled()}
	if sess, ok := h.Session(r); ok && sess.StoryID != "" {
		agg, err := h.catalog.Aggregate(ctx, email, sess.StoryID)
		switch {
		case err == nil:
			view.Current = &agg
		case apperrors.HTTPStatus(err) == http.StatusNotFound:
			h.Logger().Info("dropping stale current story", zap.String("story_id", sess.StoryID))
			h.UpdateSession(r, func(s *session.Session) {
				s.StoryID = ""
			})
		default:
			h.WriteError(w, r, err)
			return
		}
	}

	query := r.URL.Query()
	filter := storage.UnitFilter{
		IncludeLabelIDs: routepath.SplitList(query[routepath.LabelIDsKey]),
		ExcludeLabelIDs: routepath.SplitList(query[routepath.ExcludeLabelIDsKey]),
		Query:           strings.TrimSpace(query.Get(routepath.SearchQueryKey)),
	}
	labels, err := h.catalog.Labels(ctx)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	units, err := h.catalog.BrowseUnits(ctx, filter)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	view.Browser = webtemplates.BrowserView{
		Labels:          labels,
		IncludeLabelIDs: filter.IncludeLabelIDs,
		ExcludeLabelIDs: filter.ExcludeLabelIDs,
		Query:           filter.Query,
		Units:           units,
		CanAdd:          view.Current != nil,
	}

	loc, _ := h.PageLocalizer(r)
	h.WritePage(w, r, webtemplates.T(loc, "title.home"), http.StatusOK, nil, webtemplates.IndexPage(view, loc))
}

func (h handlers) handleAssignLabels(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_form", "parse form"))
		return
	}
	unitIDs := domain.DedupeNames(routepath.SplitList(r.PostForm[routepath.UnitIDsKey]))
	label, labelled, err := h.catalog.AssignLabel(r.Context(), unitIDs, r.PostFormValue(routepath.LabelNameKey))
	if err != nil {
		h.RedirectWithError(w, r, routepath.Root, err)
		return
	}
	h.RedirectWithFlash(w, r, routepath.Root, flash.Success("notice.label_assigned", label.Name, strconv.Itoa(labelled)))
}

func (h handlers) handleAddExisting(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Session(r)
	if !ok || sess.StoryID == "" {
		h.RedirectWithFlash(w, r, routepath.Root, flash.Error("error.no_current_story"))
		return
	}
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_form", "parse form"))
		return
	}
	unitID := r.PathValue("unitID")

	switch r.PostFormValue(routepath.ActionKey) {
	case routepath.ActionAdd:
		unit, err := h.catalog.CopyUnit(r.Context(), h.RequestEmail(r), sess.StoryID, unitID)
		if err != nil {
			h.RedirectWithError(w, r, routepath.Root, err)
			return
		}
		h.RedirectWithFlash(w, r, routepath.Root, flash.Success("notice.unit_copied", unit.Name))
	case routepath.ActionUseAsTemplate:
		unit, err := h.catalog.BrowsedUnit(r.Context(), unitID)
		if err != nil {
			h.RedirectWithError(w, r, routepath.Root, err)
			return
		}
		h.UpdateSession(r, func(s *session.Session) {
			s.TemplateUnitID = unit.ID
		})
		target := routepath.AddUnit(sess.StoryID, string(unit.Type))
		h.RedirectWithFlash(w, r, target, flash.Success("notice.template_loaded", unit.Name))
	default:
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_form", "unknown browser action"))
	}
}
