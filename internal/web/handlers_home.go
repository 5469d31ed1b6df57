package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/example/commute-front/internal/models"
)

type homePage struct {
	basePage
	Rides []models.Ride
}

// handleHome lists OPEN rides. Anonymous visitors see the listing without
// join buttons; a load failure is logged only and leaves the list empty, the
// listing is not an action the user triggered.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	page := homePage{basePage: s.base(w, r, "home")}

	token := ""
	if page.Session != nil {
		token = page.Session.Token
	}
	rides, err := s.backend.AvailableRides(r.Context(), token)
	if err != nil {
		s.logger.Error("available rides fetch failed", "error", err)
	} else {
		page.Rides = rides
	}
	s.render(w, "home.html", page)
}

// handleJoinRequest submits a guest's application to join a ride. The ride's
// status is not checked here; a request against a closed ride is the
// backend's to reject. The in-flight guard rejects a second submit for the
// same ride while the first is still pending.
func (s *Server) handleJoinRequest(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	rideID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "bad ride id", http.StatusBadRequest)
		return
	}

	key := fmt.Sprintf("join:%s:%d", sess.ID, rideID)
	if !s.guard.Begin(key) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	defer s.guard.End(key)

	if _, err := s.backend.CreateRideRequest(r.Context(), sess.Token, rideID); err != nil {
		s.backendFailure(w, r, err, "Talep gönderilirken bir hata oluştu.", "/")
		return
	}
	s.flashSuccess(w, "Talebiniz gönderildi!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
