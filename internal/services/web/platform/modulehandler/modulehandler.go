// Package modulehandler provides a composable base for web module handlers.
//
// Modules share request-scoped plumbing for session access, localization,
// page rendering, flash notices and error handling. Handlers embed Base
// rather than duplicating it.
package modulehandler

import (
	"net/http"
	"time"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/louisbranch/talevortex/internal/platform/logging"
	shared "github.com/louisbranch/talevortex/internal/services/shared/templates"
	webi18n "github.com/louisbranch/talevortex/internal/services/web/i18n"
	apperrors "github.com/louisbranch/talevortex/internal/services/web/platform/errors"
	"github.com/louisbranch/talevortex/internal/services/web/platform/flash"
	"github.com/louisbranch/talevortex/internal/services/web/platform/httpx"
	"github.com/louisbranch/talevortex/internal/services/web/platform/pagerender"
	"github.com/louisbranch/talevortex/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/talevortex/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/talevortex/internal/services/web/platform/weberror"
	"github.com/louisbranch/talevortex/internal/services/web/session"
	webtemplates "github.com/louisbranch/talevortex/internal/services/web/templates"
)

// Base carries the shared dependencies used by module handlers.
type Base struct {
	sessions *session.Store
	policy   requestmeta.SchemePolicy
	logger   *zap.Logger
}

// NewBase builds a handler base.
func NewBase(sessions *session.Store, policy requestmeta.SchemePolicy, logger *zap.Logger) Base {
	return Base{
		sessions: sessions,
		policy:   policy,
		logger:   logging.OrNop(logger),
	}
}

// NewTestBase builds a handler base with a fresh session store and a no-op
// logger.
func NewTestBase() Base {
	return NewBase(session.NewStore(time.Hour), requestmeta.SchemePolicy{}, nil)
}

// Sessions returns the session store.
func (b Base) Sessions() *session.Store {
	return b.sessions
}

// Logger returns the handler logger.
func (b Base) Logger() *zap.Logger {
	return logging.OrNop(b.logger)
}

// Policy returns the request scheme policy used for cookies.
func (b Base) Policy() requestmeta.SchemePolicy {
	return b.policy
}

// Session returns the session attached to the request.
func (b Base) Session(r *http.Request) (session.Session, bool) {
	if r == nil {
		return session.Session{}, false
	}
	return session.FromContext(r.Context())
}

// RequestEmail returns the signed-in account email, if any.
func (b Base) RequestEmail(r *http.Request) string {
	sess, _ := b.Session(r)
	return sess.Email
}

// Viewer returns top-bar state for the request.
func (b Base) Viewer(r *http.Request) webtemplates.Viewer {
	sess, ok := b.Session(r)
	if !ok {
		return webtemplates.Viewer{}
	}
	return webtemplates.Viewer{DisplayName: sess.DisplayName, SignedIn: true}
}

// PageLocalizer resolves a localizer and language tag from the request.
func (b Base) PageLocalizer(r *http.Request) (webtemplates.Localizer, string) {
	return webi18n.ForRequest(r)
}

// UpdateSession mutates the request's session. It reports false when the
// request has no live session.
func (b Base) UpdateSession(r *http.Request, fn func(*session.Session)) (session.Session, bool) {
	sess, ok := b.Session(r)
	if !ok || b.sessions == nil {
		return session.Session{}, false
	}
	return b.sessions.Update(sess.ID, fn)
}

// StartSession creates a session and sets its cookie.
func (b Base) StartSession(w http.ResponseWriter, r *http.Request, email, displayName string) (session.Session, error) {
	sess, err := b.sessions.Create(email, displayName)
	if err != nil {
		return session.Session{}, err
	}
	sessioncookie.Write(w, r, sess.ID, b.sessions.TTL(), b.policy)
	return sess, nil
}

// EndSession drops the request's session and clears its cookie.
func (b Base) EndSession(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := sessioncookie.Read(r); ok && b.sessions != nil {
		b.sessions.Delete(sessionID)
	}
	sessioncookie.Clear(w, r, b.policy)
}

// WritePage renders a full page with the given title, status and body.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, title string, statusCode int, crumbs []shared.BreadcrumbItem, body templ.Component) {
	if err := pagerender.WritePage(w, r, pagerender.Page{
		Title:       title,
		StatusCode:  statusCode,
		Viewer:      b.Viewer(r),
		Breadcrumbs: crumbs,
		Body:        body,
	}, b.policy); err != nil {
		b.WriteError(w, r, err)
	}
}

// WriteError renders a localized error response. Server-side failures are
// logged.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if status := apperrors.HTTPStatus(err); status >= http.StatusInternalServerError {
		b.Logger().Error("request failed",
			zap.String("path", requestPath(r)),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	weberror.WriteModuleError(w, r, err, b.Viewer(r))
}

// WriteNotFound renders the 404 page.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, b.Viewer(r))
}

// Flash queues a notice for the next rendered page.
func (b Base) Flash(w http.ResponseWriter, r *http.Request, notice flash.Notice) {
	flash.Write(w, r, notice, b.policy)
}

// RedirectWithFlash queues notice and redirects to target.
func (b Base) RedirectWithFlash(w http.ResponseWriter, r *http.Request, target string, notice flash.Notice) {
	b.Flash(w, r, notice)
	httpx.WriteRedirect(w, r, target)
}

// RedirectWithError flashes the localized message key of err and redirects.
// Not-found and internal errors render the error page instead; unavailable
// dependencies are flashed like any other failure.
func (b Base) RedirectWithError(w http.ResponseWriter, r *http.Request, target string, err error) {
	if status := apperrors.HTTPStatus(err); status == http.StatusNotFound || status == http.StatusInternalServerError {
		b.WriteError(w, r, err)
		return
	}
	key, args := apperrors.MessageKey(err)
	if key == "" {
		key = "error.unknown"
	}
	b.RedirectWithFlash(w, r, target, flash.Error(key, args...))
}

func requestPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.URL.Path
}
