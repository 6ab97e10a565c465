package account

import (
	"net/http"

	"go.uber.org/zap"

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
	accounts Accounts
}

func (h handlers) handleChangeUsernamePage(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.GetUser(r.Context(), h.RequestEmail(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.writePage(w, r, http.StatusOK, webtemplates.ChangeUsernameView{Current: user.DisplayName, Value: user.DisplayName})
}

func (h handlers) handleChangeUsername(w http.ResponseWriter, r *http.Request) {
	email := h.RequestEmail(r)
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_form", "parse form"))
		return
	}
	raw := r.PostFormValue("username")
	name, err := h.accounts.ChangeDisplayName(r.Context(), email, raw)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		if weberror.ShouldRenderAppError(status) {
			h.WriteError(w, r, err)
			return
		}
		current, _ := h.Session(r)
		loc, _ := h.PageLocalizer(r)
		h.writePage(w, r, status, webtemplates.ChangeUsernameView{
			Current: current.DisplayName,
			Value:   raw,
			Error:   weberror.PublicMessage(loc, err),
		})
		return
	}
	h.UpdateSession(r, func(s *session.Session) { s.DisplayName = name })
	h.Logger().Info("display name changed", zap.String("display_name", name))
	h.RedirectWithFlash(w, r, routepath.Root, flash.Success("notice.username_changed", name))
}

func (h handlers) writePage(w http.ResponseWriter, r *http.Request, status int, view webtemplates.ChangeUsernameView) {
	loc, _ := h.PageLocalizer(r)
	h.WritePage(w, r, webtemplates.T(loc, "title.change_username"), status, nil, webtemplates.ChangeUsernamePage(view, loc))
}
