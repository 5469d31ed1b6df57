package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/commute-front/internal/models"
)

// JSON endpoints backing the ride-creation form in geocoded address mode.

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// handleGeoSearch serves address autocomplete, country-restricted by the
// geocoder itself.
func (s *Server) handleGeoSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(q)) < 3 {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	places, err := s.geo.Search(r.Context(), q, 5)
	if err != nil {
		s.logger.Error("geocode search failed", "query", q, "error", err)
		jsonError(w, http.StatusBadGateway, "Adres araması başarısız oldu.")
		return
	}
	writeJSON(w, http.StatusOK, places)
}

// handleGeoRoute computes distance, duration and geometry between two
// geocoded points.
func (s *Server) handleGeoRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, ok1 := parseCoord(q.Get("fromLat"), q.Get("fromLon"))
	to, ok2 := parseCoord(q.Get("toLat"), q.Get("toLon"))
	if !ok1 || !ok2 {
		jsonError(w, http.StatusBadRequest, "Koordinatlar eksik veya hatalı.")
		return
	}
	route, err := s.geo.Route(r.Context(), from, to)
	if err != nil {
		s.logger.Error("route computation failed", "error", err)
		jsonError(w, http.StatusBadGateway, "Rota hesaplanamadı.")
		return
	}
	writeJSON(w, http.StatusOK, route)
}

func parseCoord(latRaw, lonRaw string) (models.Coord, bool) {
	lat, err1 := strconv.ParseFloat(latRaw, 64)
	lon, err2 := strconv.ParseFloat(lonRaw, 64)
	if err1 != nil || err2 != nil {
		return models.Coord{}, false
	}
	return models.Coord{Lat: lat, Lon: lon}, true
}

// handleAdvisory fetches the free-text price suggestion for the computed
// route and the caller's vehicle. Display-only: the form never writes the
// suggestion into the price input. A failure is surfaced as a transient
// error and leaves the price field untouched.
func (s *Server) handleAdvisory(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess.User.Vehicle == nil {
		jsonError(w, http.StatusBadRequest, "Öneri için önce bir araç eklemelisiniz.")
		return
	}
	q := r.URL.Query()
	dist, err1 := strconv.ParseFloat(q.Get("distanceInMeters"), 64)
	dur, err2 := strconv.ParseFloat(q.Get("durationInSeconds"), 64)
	if err1 != nil || err2 != nil || dist <= 0 {
		jsonError(w, http.StatusBadRequest, "Önce rota hesaplanmalı.")
		return
	}
	msg, err := s.backend.PriceSuggestion(r.Context(), dist, dur, sess.User.Vehicle.Brand, sess.User.Vehicle.Model)
	if err != nil {
		s.logger.Warn("price advisory failed", "error", err)
		jsonError(w, http.StatusBadGateway, "Ücret önerisi alınamadı.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}
