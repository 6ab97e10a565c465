package session

import (
	"net/http"

	"github.com/louisbranch/talevortex/internal/platform/requestctx"
	"github.com/louisbranch/talevortex/internal/services/web/platform/flash"
	"github.com/louisbranch/talevortex/internal/services/web/platform/httpx"
	"github.com/louisbranch/talevortex/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/talevortex/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
)

// Load attaches the session named by the request cookie, if live, to the
// request context. Stale cookies are cleared.
func Load(store *Store, policy requestmeta.SchemePolicy) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, ok := sessioncookie.Read(r)
			if !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}
			sess, ok := store.Get(sessionID)
			if !ok {
				sessioncookie.Clear(w, r, policy)
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithSession(r.Context(), sess)
			if sess.StoryID != "" {
				ctx = requestctx.WithStoryID(ctx, sess.StoryID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require redirects requests without a session to the login page.
func Require(policy requestmeta.SchemePolicy) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			if r.URL.Path != routepath.Root {
				flash.Write(w, r, flash.Warning("notice.login_required"), policy)
			}
			http.Redirect(w, r, routepath.Login, http.StatusSeeOther)
		})
	}
}
