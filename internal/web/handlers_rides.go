package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/commute-front/internal/backend"
	"github.com/example/commute-front/internal/config"
	"github.com/example/commute-front/internal/models"
	"github.com/example/commute-front/internal/ride"
)

type myRidesPage struct {
	basePage
	Rides []models.Ride
}

// handleMyRides lists the rides the user posted as driver, with the status
// control for non-terminal rides. The list is always a fresh fetch, so after
// a failed transition the displayed status is the server's value again.
func (s *Server) handleMyRides(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	page := myRidesPage{basePage: s.base(w, r, "rides")}
	rides, err := s.backend.MyRides(r.Context(), sess.Token)
	if err != nil {
		if backend.IsUnauthorized(err) {
			s.backendFailure(w, r, err, "", "/rides")
			return
		}
		s.logger.Error("my rides fetch failed", "error", err)
	} else {
		page.Rides = rides
	}
	s.render(w, "rides.html", page)
}

type newRidePage struct {
	basePage
	User     models.User
	Geocoded bool
	Error    string
	Form     rideForm
}

// rideForm echoes submitted values back into the template on validation
// failure.
type rideForm struct {
	Title              string
	OriginAddress      string
	DestinationAddress string
	OriginLat          string
	OriginLon          string
	DestLat            string
	DestLon            string
	Distance           string
	Duration           string
	DepartTime         string
	Price              string
}

func (s *Server) handleNewRidePage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	user, err := s.backend.CurrentUser(r.Context(), sess.Token)
	if err != nil {
		if backend.IsUnauthorized(err) {
			s.backendFailure(w, r, err, "", "/rides/new")
			return
		}
		s.logger.Error("profile fetch failed", "error", err)
		user = sess.User
	}
	s.render(w, "ride_new.html", newRidePage{
		basePage: s.base(w, r, "ride_new"),
		User:     user,
		Geocoded: s.cfg.AddressMode == config.AddressGeocoded,
	})
}

// handleCreateRide validates the form and posts the ride. Validation errors
// are rendered inline with the entered values and never reach the network.
// Owning a vehicle is a UI precondition (the form is not shown without one);
// it is not re-validated here beyond that gate.
func (s *Server) handleCreateRide(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	geocoded := s.cfg.AddressMode == config.AddressGeocoded

	form := rideForm{
		Title:              strings.TrimSpace(r.FormValue("title")),
		OriginAddress:      strings.TrimSpace(r.FormValue("originAddress")),
		DestinationAddress: strings.TrimSpace(r.FormValue("destinationAddress")),
		OriginLat:          r.FormValue("originLatitude"),
		OriginLon:          r.FormValue("originLongitude"),
		DestLat:            r.FormValue("destinationLatitude"),
		DestLon:            r.FormValue("destinationLongitude"),
		Distance:           r.FormValue("distanceInMeters"),
		Duration:           r.FormValue("durationInSeconds"),
		DepartTime:         r.FormValue("departTime"),
		Price:              r.FormValue("price"),
	}

	fail := func(msg string) {
		s.render(w, "ride_new.html", newRidePage{
			basePage: s.base(w, r, "ride_new"),
			User:     sess.User,
			Geocoded: geocoded,
			Error:    msg,
			Form:     form,
		})
	}

	if form.Title == "" || form.OriginAddress == "" || form.DestinationAddress == "" {
		fail("Başlık, kalkış ve varış adresleri zorunludur.")
		return
	}
	departTime, err := time.ParseInLocation("2006-01-02T15:04", form.DepartTime, time.Local)
	if err != nil {
		fail("Geçerli bir kalkış zamanı seçin.")
		return
	}
	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil || price < 0 {
		fail("Geçerli bir ücret girin.")
		return
	}

	req := backend.CreateRideRequest{
		Title:              form.Title,
		OriginAddress:      form.OriginAddress,
		DestinationAddress: form.DestinationAddress,
		DepartTime:         departTime,
		Price:              price,
	}

	if geocoded {
		oLat, err1 := strconv.ParseFloat(form.OriginLat, 64)
		oLon, err2 := strconv.ParseFloat(form.OriginLon, 64)
		dLat, err3 := strconv.ParseFloat(form.DestLat, 64)
		dLon, err4 := strconv.ParseFloat(form.DestLon, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			fail("Adresleri listeden seçerek koordinatların belirlenmesini sağlayın.")
			return
		}
		dist, err5 := strconv.ParseFloat(form.Distance, 64)
		dur, err6 := strconv.ParseFloat(form.Duration, 64)
		if err5 != nil || err6 != nil || dist <= 0 {
			fail("Rota henüz hesaplanmadı. Lütfen bekleyin ve tekrar deneyin.")
			return
		}
		req.OriginLatitude = oLat
		req.OriginLongitude = oLon
		req.DestinationLatitude = dLat
		req.DestinationLongitude = dLon
		req.DistanceInMeters = dist
		req.DurationInSeconds = dur
	}

	key := "create-ride:" + sess.ID
	if !s.guard.Begin(key) {
		http.Redirect(w, r, "/rides", http.StatusSeeOther)
		return
	}
	defer s.guard.End(key)

	if _, err := s.backend.CreateRide(r.Context(), sess.Token, req); err != nil {
		s.backendFailure(w, r, err, "Yolculuk oluşturulurken bir hata oluştu.", "/rides/new")
		return
	}
	s.flashSuccess(w, "Yolculuk başarıyla oluşturuldu!")
	http.Redirect(w, r, "/rides", http.StatusSeeOther)
}

// handleRideStatus drives the lifecycle state machine. Order of checks:
// no-op selections are dropped silently with no network call; invalid or
// terminal transitions never leave the client; a valid transition needs the
// operator's confirmation naming the destination status before the backend
// hears about it. Success and failure both funnel back to /rides, whose
// fresh fetch is the only source of the displayed status.
func (s *Server) handleRideStatus(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	rideID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "bad ride id", http.StatusBadRequest)
		return
	}
	current := models.RideStatus(r.FormValue("current"))
	target := models.RideStatus(r.FormValue("status"))

	if err := ride.ValidateTransition(current, target); err != nil {
		if errors.Is(err, ride.ErrSameStatus) {
			http.Redirect(w, r, "/rides", http.StatusSeeOther)
			return
		}
		s.flashError(w, "Bu durum değişikliği yapılamaz.")
		http.Redirect(w, r, "/rides", http.StatusSeeOther)
		return
	}

	if r.FormValue("confirmed") != "yes" {
		s.renderConfirm(w, r, confirmPage{
			basePage: s.base(w, r, "confirm"),
			Title:    "Durum Değişikliği",
			Message:  fmt.Sprintf("Yolculuğu %q durumuna almak istediğinizden emin misiniz?", statusLabel(target)),
			Action:   fmt.Sprintf("/rides/%d/status", rideID),
			Hidden:   map[string]string{"status": string(target), "current": string(current)},
			Cancel:   "/rides",
		})
		return
	}

	key := fmt.Sprintf("ride-status:%d", rideID)
	if !s.guard.Begin(key) {
		http.Redirect(w, r, "/rides", http.StatusSeeOther)
		return
	}
	defer s.guard.End(key)

	if _, err := s.backend.UpdateRideStatus(r.Context(), sess.Token, rideID, target); err != nil {
		s.backendFailure(w, r, err, "Durum güncellenirken bir hata oluştu.", "/rides")
		return
	}
	s.flashSuccess(w, "Yolculuk durumu güncellendi!")
	http.Redirect(w, r, "/rides", http.StatusSeeOther)
}
