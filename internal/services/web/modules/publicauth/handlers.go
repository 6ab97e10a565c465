package publicauth

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	domainerrors "github.com/louisbranch/talevortex/internal/platform/errors"
	apperrors "github.com/louisbranch/talevortex/internal/services/web/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/web/platform/flash"
	"github.com/louisbranch/talevortex/internal/services/web/platform/httpx"
	"github.com/louisbranch/talevortex/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/talevortex/internal/services/web/platform/weberror"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/talevortex/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(base modulehandler.Base, s service) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.Session(r); ok {
		httpx.WriteRedirect(w, r, routepath.Root)
		return
	}
	h.writeLoginPage(w, r, http.StatusOK, webtemplates.LoginView{})
}

func (h handlers) handleLoginRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeLoginPage(w, r, http.StatusBadRequest, webtemplates.LoginView{Error: h.message(r, "error.invalid_form")})
		return
	}
	raw := r.PostFormValue("email")
	email, err := h.service.requestLink(r.Context(), raw)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			h.Logger().Warn("login link delivery failed", zap.String("login_link", deliveryLink(err)), zap.Error(err))
		}
		loc, _ := h.PageLocalizer(r)
		h.writeLoginPage(w, r, status, webtemplates.LoginView{Email: raw, Error: weberror.PublicMessage(loc, err)})
		return
	}
	h.writeLoginPage(w, r, http.StatusOK, webtemplates.LoginView{Email: email, Sent: true})
}

func (h handlers) handleLoginToken(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.completeLogin(r.Context(), r.PathValue("token"))
	if err != nil {
		h.RedirectWithError(w, r, routepath.Login, err)
		return
	}
	if _, ok := h.Session(r); ok {
		h.EndSession(w, r)
	}
	if _, err := h.StartSession(w, r, user.Email, user.DisplayName); err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.Logger().Info("user signed in", zap.String("display_name", user.DisplayName))
	h.RedirectWithFlash(w, r, routepath.Root, flash.Success("notice.logged_in", user.DisplayName))
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.EndSession(w, r)
	h.RedirectWithFlash(w, r, routepath.Login, flash.Success("notice.logged_out"))
}

func (h handlers) writeLoginPage(w http.ResponseWriter, r *http.Request, status int, view webtemplates.LoginView) {
	loc, _ := h.PageLocalizer(r)
	h.WritePage(w, r, webtemplates.T(loc, "title.login"), status, nil, webtemplates.LoginPage(view, loc))
}

func (h handlers) message(r *http.Request, key string) string {
	loc, _ := h.PageLocalizer(r)
	return webtemplates.T(loc, key)
}

// deliveryLink recovers the undelivered login link so an operator can pass it
// on by hand.
func deliveryLink(err error) string {
	var failure *domainerrors.Error
	if errors.As(err, &failure) {
		return failure.Metadata["Link"]
	}
	return ""
}
