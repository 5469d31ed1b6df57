package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/example/commute-front/internal/backend"
	"github.com/example/commute-front/internal/models"
)

type ratingsPage struct {
	basePage
	User          models.User
	Received      []models.Rate
	Given         []models.Rate
	EligibleRides []models.Ride
}

// handleRatings loads the user's aggregate score, both rating lists and the
// rating eligibility list: COMPLETED rides taken as guest, minus rides the
// user already rated. Each fetch fails independently; a partial page with
// prior sections intact beats an error page.
func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	page := ratingsPage{basePage: s.base(w, r, "ratings"), User: sess.User}

	if user, err := s.backend.CurrentUser(r.Context(), sess.Token); err != nil {
		if backend.IsUnauthorized(err) {
			s.backendFailure(w, r, err, "", "/ratings")
			return
		}
		s.logger.Error("profile fetch failed", "error", err)
	} else {
		page.User = user
	}

	if rates, err := s.backend.MyRatesAsRated(r.Context(), sess.Token); err != nil {
		s.logger.Error("received rates fetch failed", "error", err)
	} else {
		page.Received = rates
	}

	var given []models.Rate
	if rates, err := s.backend.MyRatesAsRater(r.Context(), sess.Token); err != nil {
		s.logger.Error("given rates fetch failed", "error", err)
	} else {
		given = rates
		page.Given = rates
	}

	if rides, err := s.backend.RidesAsGuest(r.Context(), sess.Token); err != nil {
		s.logger.Error("guest rides fetch failed", "error", err)
	} else {
		page.EligibleRides = eligibleRides(rides, given)
	}

	s.render(w, "ratings.html", page)
}

// eligibleRides filters guest rides down to the ones that can still be rated:
// completed, and not yet rated by this user.
func eligibleRides(rides []models.Ride, given []models.Rate) []models.Ride {
	rated := make(map[int64]bool, len(given))
	for _, rate := range given {
		rated[rate.Ride.ID] = true
	}
	out := make([]models.Ride, 0, len(rides))
	for _, ride := range rides {
		if ride.Status == models.RideCompleted && !rated[ride.ID] {
			out = append(out, ride)
		}
	}
	return out
}

// handleCreateRate submits a review for the selected ride's driver.
// Submitting without a selection is a local validation failure and issues no
// call; the eligibility of the selected ride itself is the backend's to
// re-check.
func (s *Server) handleCreateRate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	rideIDRaw := r.FormValue("rideId")
	if rideIDRaw == "" {
		s.flashError(w, "Lütfen değerlendirmek istediğiniz yolculuğu seçin.")
		http.Redirect(w, r, "/ratings", http.StatusSeeOther)
		return
	}
	rideID, err := strconv.ParseInt(rideIDRaw, 10, 64)
	if err != nil {
		s.flashError(w, "Lütfen değerlendirmek istediğiniz yolculuğu seçin.")
		http.Redirect(w, r, "/ratings", http.StatusSeeOther)
		return
	}
	driverID, err := strconv.ParseInt(r.FormValue("driverId"), 10, 64)
	if err != nil {
		s.flashError(w, "Lütfen değerlendirmek istediğiniz yolculuğu seçin.")
		http.Redirect(w, r, "/ratings", http.StatusSeeOther)
		return
	}
	score, err := strconv.Atoi(r.FormValue("score"))
	if err != nil || score < 1 || score > 5 {
		s.flashError(w, "Puan 1 ile 5 arasında olmalıdır.")
		http.Redirect(w, r, "/ratings", http.StatusSeeOther)
		return
	}
	comment := strings.TrimSpace(r.FormValue("comment"))

	key := "rate:" + sess.ID
	if !s.guard.Begin(key) {
		http.Redirect(w, r, "/ratings", http.StatusSeeOther)
		return
	}
	defer s.guard.End(key)

	req := backend.CreateRateRequest{
		Score:        score,
		Comment:      comment,
		TargetUserID: driverID,
		TargetRideID: rideID,
	}
	if _, err := s.backend.CreateRate(r.Context(), sess.Token, req); err != nil {
		s.backendFailure(w, r, err, "Değerlendirme eklenirken hata oluştu.", "/ratings")
		return
	}
	// The redirect re-fetches score, both lists and eligibility; the rated
	// ride disappears from the eligible set on that fetch.
	s.flashSuccess(w, "Değerlendirme başarıyla eklendi!")
	http.Redirect(w, r, "/ratings", http.StatusSeeOther)
}
