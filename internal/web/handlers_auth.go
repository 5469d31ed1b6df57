package web

import (
	"net/http"
	"strings"

	"github.com/example/commute-front/internal/backend"
	"github.com/example/commute-front/internal/observability"
	"github.com/example/commute-front/internal/session"
)

type authPage struct {
	basePage
	Error string
	Email string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.currentSession(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, "login.html", authPage{basePage: s.base(w, r, "login")})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		s.render(w, "login.html", authPage{
			basePage: s.base(w, r, "login"),
			Error:    "E-posta ve şifre gereklidir.",
			Email:    email,
		})
		return
	}
	s.startSession(w, r, email, password)
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	if s.currentSession(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, "signup.html", authPage{basePage: s.base(w, r, "signup")})
}

// handleSignup registers the account and, on success, logs straight in: the
// signup endpoint only returns a message, so the session comes from the
// follow-up login call.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	req := backend.SignupRequest{
		Email:     strings.TrimSpace(r.FormValue("email")),
		Password:  r.FormValue("password"),
		FirstName: strings.TrimSpace(r.FormValue("firstName")),
		LastName:  strings.TrimSpace(r.FormValue("lastName")),
		Phone:     strings.TrimSpace(r.FormValue("phone")),
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		s.render(w, "signup.html", authPage{
			basePage: s.base(w, r, "signup"),
			Error:    "Lütfen tüm zorunlu alanları doldurun.",
			Email:    req.Email,
		})
		return
	}
	if err := s.backend.Signup(r.Context(), req); err != nil {
		s.render(w, "signup.html", authPage{
			basePage: s.base(w, r, "signup"),
			Error:    backend.UserMessage(err, "Kayıt sırasında bir hata oluştu."),
			Email:    req.Email,
		})
		return
	}
	s.startSession(w, r, req.Email, req.Password)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, email, password string) {
	resp, err := s.backend.Login(r.Context(), backend.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.render(w, "login.html", authPage{
			basePage: s.base(w, r, "login"),
			Error:    backend.UserMessage(err, "Giriş başarısız oldu."),
			Email:    email,
		})
		return
	}
	sess := session.New(resp.Token, resp.User)
	if !sess.Valid() {
		s.logger.Error("login response missing token or profile", "email", email)
		s.render(w, "login.html", authPage{
			basePage: s.base(w, r, "login"),
			Error:    "Giriş başarısız oldu.",
			Email:    email,
		})
		return
	}
	if err := s.sessions.Put(r.Context(), sess); err != nil {
		s.logger.Error("session store failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	observability.SessionsActive.Inc()
	s.setSessionCookie(w, sess.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.endSession(w, r, s.currentSession(r))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
