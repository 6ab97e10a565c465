package units

import (
	"net/http"

	"go.uber.org/zap"

	shared "github.com/louisbranch/talevortex/internal/services/shared/templates"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/service"
	"github.com/louisbranch/talevortex/internal/services/story/unitform"
	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
	apperrors "github.com/louisbranch/talevortex/internal/services/web/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/web/platform/flash"
	"github.com/louisbranch/talevortex/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/talevortex/internal/services/web/platform/weberror"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
	"github.com/louisbranch/talevortex/internal/services/web/session"
	webtemplates "github.com/louisbranch/talevortex/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	units Units
}

// formState is what a unit form shows besides the story it belongs to.
type formState struct {
	unitType     unitschema.Type
	originalName string
	name         string
	description  string
	fields       domain.Fields
	notice       string
	err          string
	fieldErrors  map[string]string
}

func (h handlers) handleAddPage(w http.ResponseWriter, r *http.Request) {
	t, err := unitschema.ParseType(r.PathValue("unitType"))
	if err != nil {
		h.WriteNotFound(w, r)
		return
	}
	agg, err := h.units.Aggregate(r.Context(), h.RequestEmail(r), r.PathValue("storyID"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	state := formState{unitType: t}
	if source, ok := h.takeTemplate(r); ok && source.Type == t {
		state.name = source.Name
		state.fields = source.Fields
	}
	h.writeForm(w, r, http.StatusOK, agg, state)
}

func (h handlers) handleAdd(w http.ResponseWriter, r *http.Request) {
	t, err := unitschema.ParseType(r.PathValue("unitType"))
	if err != nil {
		h.WriteNotFound(w, r)
		return
	}
	agg, err := h.units.Aggregate(r.Context(), h.RequestEmail(r), r.PathValue("storyID"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.submit(w, r, agg, formState{unitType: t}, func(in service.UnitInput) (domain.Unit, error) {
		return h.units.AddUnit(r.Context(), h.RequestEmail(r), agg.Story.ID, in)
	})
}

func (h handlers) handleEditPage(w http.ResponseWriter, r *http.Request) {
	agg, unit, ok := h.loadUnit(w, r)
	if !ok {
		return
	}
	h.writeForm(w, r, http.StatusOK, agg, formState{
		unitType:     unit.Type,
		originalName: unit.Name,
		name:         unit.Name,
		fields:       unit.Fields,
	})
}

func (h handlers) handleEdit(w http.ResponseWriter, r *http.Request) {
	agg, unit, ok := h.loadUnit(w, r)
	if !ok {
		return
	}
	state := formState{unitType: unit.Type, originalName: unit.Name}
	h.submit(w, r, agg, state, func(in service.UnitInput) (domain.Unit, error) {
		return h.units.UpdateUnit(r.Context(), h.RequestEmail(r), agg.Story.ID, unit.Name, in)
	})
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	unit, err := h.units.DeleteUnit(r.Context(), h.RequestEmail(r), r.PathValue("storyID"), r.PathValue("unitName"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.RedirectWithFlash(w, r, routepath.Root, flash.Success("notice.unit_deleted", unit.Name))
}

// submit handles both form actions. Filling re-renders the form with merged
// suggestions; saving persists through save and returns home.
func (h handlers) submit(w http.ResponseWriter, r *http.Request, agg domain.Aggregate, state formState, save func(service.UnitInput) (domain.Unit, error)) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_form", "parse form"))
		return
	}
	sub, fieldErrs, err := unitform.Parse(state.unitType, r.PostForm)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	state.name = sub.Name
	state.fields = sub.Fields
	state.description = r.PostFormValue(routepath.DescriptionKey)
	loc, _ := h.PageLocalizer(r)

	switch r.PostFormValue(routepath.ActionKey) {
	case routepath.ActionFillFeatures:
		h.fill(w, r, agg, state)
	case routepath.ActionSaveUnit, "":
		if len(fieldErrs) > 0 {
			state.fieldErrors = make(map[string]string, len(fieldErrs))
			for _, fieldErr := range fieldErrs {
				state.fieldErrors[fieldErr.Field] = fieldErr.Message
			}
			h.writeForm(w, r, http.StatusBadRequest, agg, state)
			return
		}
		unit, err := save(service.UnitInput{Type: state.unitType, Name: sub.Name, Fields: sub.Fields})
		if err != nil {
			status := apperrors.HTTPStatus(err)
			if weberror.ShouldRenderAppError(status) {
				h.WriteError(w, r, err)
				return
			}
			state.err = weberror.PublicMessage(loc, err)
			h.writeForm(w, r, status, agg, state)
			return
		}
		h.RedirectWithFlash(w, r, routepath.Root, flash.Success("notice.unit_saved", unit.Name))
	default:
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_form", "unknown unit form action"))
	}
}

func (h handlers) fill(w http.ResponseWriter, r *http.Request, agg domain.Aggregate, state formState) {
	loc, _ := h.PageLocalizer(r)
	suggestion, err := h.units.SuggestFields(r.Context(), h.RequestEmail(r), agg.Story.ID, state.unitType, state.description, state.name)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		if status == http.StatusNotFound {
			h.WriteError(w, r, err)
			return
		}
		h.Logger().Warn("unit fill failed", zap.String("story_id", agg.Story.ID), zap.Error(err))
		state.err = webtemplates.T(loc, "unit.fill_failed")
		h.writeForm(w, r, status, agg, state)
		return
	}
	state.fields = unitform.Overlay(state.fields, suggestion.Fields, suggestion.Keys)
	if state.name == "" {
		state.name = suggestion.Name
	}
	state.notice = webtemplates.T(loc, "unit.fill_applied")
	h.writeForm(w, r, http.StatusOK, agg, state)
}

func (h handlers) loadUnit(w http.ResponseWriter, r *http.Request) (domain.Aggregate, domain.Unit, bool) {
	email := h.RequestEmail(r)
	agg, err := h.units.Aggregate(r.Context(), email, r.PathValue("storyID"))
	if err != nil {
		h.WriteError(w, r, err)
		return domain.Aggregate{}, domain.Unit{}, false
	}
	unit, err := h.units.Unit(r.Context(), email, agg.Story.ID, r.PathValue("unitName"))
	if err != nil {
		h.WriteError(w, r, err)
		return domain.Aggregate{}, domain.Unit{}, false
	}
	return agg, unit, true
}

// takeTemplate returns the unit chosen with "use as template" and forgets it,
// so the prefill applies to one form only.
func (h handlers) takeTemplate(r *http.Request) (domain.Unit, bool) {
	sess, ok := h.Session(r)
	if !ok || sess.TemplateUnitID == "" {
		return domain.Unit{}, false
	}
	h.UpdateSession(r, func(s *session.Session) {
		s.TemplateUnitID = ""
	})
	unit, err := h.units.BrowsedUnit(r.Context(), sess.TemplateUnitID)
	if err != nil {
		h.Logger().Info("template unit unavailable", zap.String("unit_id", sess.TemplateUnitID), zap.Error(err))
		return domain.Unit{}, false
	}
	return unit, true
}

func (h handlers) writeForm(w http.ResponseWriter, r *http.Request, status int, agg domain.Aggregate, state formState) {
	choices := unitform.Choices{UndefinedNames: agg.Story.UndefinedNames}
	for _, name := range agg.UnitNames() {
		if state.originalName != "" && domain.NameKey(name) == domain.NameKey(state.originalName) {
			continue
		}
		choices.UnitNames = append(choices.UnitNames, name)
	}
	fields, err := unitform.Build(state.unitType, state.fields, choices)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	loc, _ := h.PageLocalizer(r)
	title := webtemplates.T(loc, "title.add_unit", string(state.unitType))
	if state.originalName != "" {
		title = webtemplates.T(loc, "title.edit_unit", state.originalName)
	}
	crumbs := shared.Trail(
		shared.BreadcrumbItem{Label: webtemplates.T(loc, "title.home"), URL: routepath.Root},
		shared.BreadcrumbItem{Label: agg.Story.Name, URL: routepath.ViewStory(agg.Story.ID)},
		shared.BreadcrumbItem{Label: title},
	)
	h.WritePage(w, r, title, status, crumbs, webtemplates.UnitFormPage(webtemplates.UnitFormView{
		StoryID:      agg.Story.ID,
		StoryName:    agg.Story.Name,
		Type:         state.unitType,
		OriginalName: state.originalName,
		Name:         state.name,
		Description:  state.description,
		Fields:       fields,
		FillEnabled:  h.units.FillEnabled(),
		Notice:       state.notice,
		Error:        state.err,
		FieldErrors:  state.fieldErrors,
	}, loc))
}
