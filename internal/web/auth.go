package web

import (
	"context"
	"net/http"

	"github.com/example/commute-front/internal/backend"
	"github.com/example/commute-front/internal/observability"
	"github.com/example/commute-front/internal/session"
)

const sessionKey contextKey = "session"

func sessionFromContext(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(sessionKey).(*session.Session); ok {
		return s
	}
	return nil
}

// currentSession resolves the browser's session cookie through the validity
// contract in session.Load. Returns nil for anonymous visitors.
func (s *Server) currentSession(r *http.Request) *session.Session {
	c, err := r.Cookie(s.cfg.CookieName)
	if err != nil {
		return nil
	}
	sess, err := session.Load(r.Context(), s.sessions, c.Value)
	if err != nil {
		s.logger.Error("session load failed", "error", err)
		return nil
	}
	return sess
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// requireAuth gates a page on a valid session and puts it in the context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.currentSession(r)
		if sess == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	}
}

// endSession purges the stored session, detaches its tabs and clears the
// cookie. Used by logout, account deletion and the 401 interceptor alike.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if sess == nil {
		s.clearSessionCookie(w)
		return
	}
	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		s.logger.Error("session delete failed", "session_id", sess.ID, "error", err)
	} else {
		observability.SessionsActive.Dec()
	}
	s.hub.SessionEnded(sess.ID)
	s.clearSessionCookie(w)
}

func isAuthPage(path string) bool {
	return path == "/login" || path == "/signup"
}

// backendFailure is the single place surfaced backend errors funnel through.
// A 401 ends the session and redirects to login (unless already on an auth
// page); anything else becomes an error flash with the backend's own message
// when it sent one, then redirects back to redirectTo so the page re-fetches
// authoritative state.
func (s *Server) backendFailure(w http.ResponseWriter, r *http.Request, err error, fallback, redirectTo string) {
	if backend.IsUnauthorized(err) {
		s.endSession(w, r, sessionFromContext(r.Context()))
		if !isAuthPage(r.URL.Path) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		return
	}
	s.flashError(w, backend.UserMessage(err, fallback))
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}
