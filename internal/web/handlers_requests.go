package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/example/commute-front/internal/backend"
	"github.com/example/commute-front/internal/models"
	"github.com/example/commute-front/internal/ride"
)

type myRequestsPage struct {
	basePage
	Requests []models.RideRequest
}

// handleMyRequests shows the guest's outgoing requests across all statuses,
// joined with the parent ride and its driver, for historical visibility.
func (s *Server) handleMyRequests(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	page := myRequestsPage{basePage: s.base(w, r, "requests")}
	reqs, err := s.backend.MyRideRequests(r.Context(), sess.Token)
	if err != nil {
		if backend.IsUnauthorized(err) {
			s.backendFailure(w, r, err, "", "/requests")
			return
		}
		s.logger.Error("my requests fetch failed", "error", err)
	} else {
		page.Requests = reqs
	}
	s.render(w, "requests.html", page)
}

type rideRequestsPage struct {
	basePage
	RideID   int64
	Requests []models.RideRequest
}

// handleRideRequests is the driver's view of the requests against one of
// their rides, with accept/reject controls. The control matching a request's
// current status renders disabled.
func (s *Server) handleRideRequests(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	rideID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "bad ride id", http.StatusBadRequest)
		return
	}
	page := rideRequestsPage{basePage: s.base(w, r, "ride_requests"), RideID: rideID}
	reqs, err := s.backend.RideRequestsForRide(r.Context(), sess.Token, rideID)
	if err != nil {
		if backend.IsUnauthorized(err) {
			s.backendFailure(w, r, err, "", r.URL.Path)
			return
		}
		s.logger.Error("ride requests fetch failed", "ride_id", rideID, "error", err)
	} else {
		page.Requests = reqs
	}
	s.render(w, "ride_requests.html", page)
}

// handleRequestDecision accepts or rejects a join-request. Re-selecting the
// current status mirrors the disabled control: it is dropped without a
// network call. After the mutation the redirect re-fetches the list; the
// response body of the update is never trusted as the new state.
func (s *Server) handleRequestDecision(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	reqID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "bad request id", http.StatusBadRequest)
		return
	}
	back := "/rides"
	if rideID, err := strconv.ParseInt(r.FormValue("rideId"), 10, 64); err == nil {
		back = fmt.Sprintf("/rides/%d/requests", rideID)
	}

	current := models.RequestStatus(r.FormValue("current"))
	target := models.RequestStatus(r.FormValue("status"))
	if !ride.ValidRequestDecision(current, target) {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	key := fmt.Sprintf("request-status:%d", reqID)
	if !s.guard.Begin(key) {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	defer s.guard.End(key)

	if _, err := s.backend.UpdateRideRequestStatus(r.Context(), sess.Token, reqID, target); err != nil {
		s.backendFailure(w, r, err, "Talep güncellenirken bir hata oluştu.", back)
		return
	}
	if target == models.RequestAccepted {
		s.flashSuccess(w, "Talep kabul edildi!")
	} else {
		s.flashSuccess(w, "Talep reddedildi.")
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
