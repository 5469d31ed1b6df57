package web

import (
	"net/http"
	"strings"

	"github.com/example/commute-front/internal/backend"
	"github.com/example/commute-front/internal/models"
)

type dashboardPage struct {
	basePage
	User models.User
}

// handleDashboard shows the profile and the vehicle section. The profile is
// re-fetched on every load and the session snapshot refreshed, so a vehicle
// added here is visible to the ride-creation gate immediately.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	user, err := s.backend.CurrentUser(r.Context(), sess.Token)
	if err != nil {
		if backend.IsUnauthorized(err) {
			s.backendFailure(w, r, err, "", "/dashboard")
			return
		}
		// Stale snapshot beats an empty page.
		s.logger.Error("profile fetch failed", "error", err)
		user = sess.User
	} else {
		sess.User = user
		if err := s.sessions.Put(r.Context(), sess); err != nil {
			s.logger.Error("session refresh failed", "error", err)
		}
	}
	s.render(w, "dashboard.html", dashboardPage{basePage: s.base(w, r, "dashboard"), User: user})
}

// handleDeleteAccount removes the account after a confirmation step. The
// backend cascades the deletion; client-side all that remains is ending the
// session.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if r.FormValue("confirmed") != "yes" {
		s.renderConfirm(w, r, confirmPage{
			basePage: s.base(w, r, "confirm"),
			Title:    "Hesabı Sil",
			Message:  "Hesabınızı silmek istediğinizden emin misiniz?",
			Action:   "/account/delete",
		})
		return
	}
	if err := s.backend.DeleteCurrentUser(r.Context(), sess.Token); err != nil {
		s.backendFailure(w, r, err, "Hesap silinirken bir hata oluştu.", "/dashboard")
		return
	}
	s.endSession(w, r, sess)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleAddVehicle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	req := backend.VehicleRequest{
		Plate: strings.TrimSpace(r.FormValue("plate")),
		Brand: strings.TrimSpace(r.FormValue("brand")),
		Model: strings.TrimSpace(r.FormValue("model")),
	}
	if req.Plate == "" || req.Brand == "" || req.Model == "" {
		s.flashError(w, "Plaka, marka ve model alanları zorunludur.")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	key := "add-vehicle:" + sess.ID
	if !s.guard.Begin(key) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	defer s.guard.End(key)

	if _, err := s.backend.AddVehicle(r.Context(), sess.Token, req); err != nil {
		s.backendFailure(w, r, err, "Araç eklenirken bir hata oluştu.", "/dashboard")
		return
	}
	s.flashSuccess(w, "Araç başarıyla eklendi!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if r.FormValue("confirmed") != "yes" {
		s.renderConfirm(w, r, confirmPage{
			basePage: s.base(w, r, "confirm"),
			Title:    "Aracı Sil",
			Message:  "Aracınızı silmek istediğinizden emin misiniz?",
			Action:   "/vehicles/delete",
		})
		return
	}
	if err := s.backend.DeleteVehicle(r.Context(), sess.Token); err != nil {
		s.backendFailure(w, r, err, "Araç silinirken bir hata oluştu.", "/dashboard")
		return
	}
	s.flashSuccess(w, "Araç başarıyla silindi!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// confirmPage is the blocking yes/no prompt used before destructive actions
// and ride status transitions. Fields are echoed back through the yes-form.
type confirmPage struct {
	basePage
	Title   string
	Message string
	Action  string
	// Hidden carries form fields to replay on confirmation.
	Hidden map[string]string
	Cancel string
}

func (s *Server) renderConfirm(w http.ResponseWriter, r *http.Request, page confirmPage) {
	if page.Cancel == "" {
		page.Cancel = "/dashboard"
	}
	s.render(w, "confirm.html", page)
}
