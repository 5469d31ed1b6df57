// Package web is the presentation layer: every page of the commute client is
// a handler here, rendering an embedded template and calling the platform API
// through the backend client. State held locally is limited to the session
// store and transient flash messages; after every mutation the next page load
// re-fetches authoritative data instead of patching anything in place.
package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/commute-front/internal/backend"
	"github.com/example/commute-front/internal/config"
	"github.com/example/commute-front/internal/geo"
	"github.com/example/commute-front/internal/ride"
	"github.com/example/commute-front/internal/session"
)

type Server struct {
	cfg      config.FrontendConfig
	logger   *slog.Logger
	backend  *backend.Client
	sessions session.Store
	geo      *geo.Service
	guard    *ride.InflightGuard
	hub      *EventHub
	mux      *mux.Router
}

func NewServer(cfg config.FrontendConfig, logger *slog.Logger, bc *backend.Client, sessions session.Store, geoSvc *geo.Service) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		backend:  bc,
		sessions: sessions,
		geo:      geoSvc,
		guard:    ride.NewInflightGuard(),
		hub:      NewEventHub(logger),
		mux:      mux.NewRouter(),
	}
	s.registerMiddleware()
	s.routes()
	return s
}

func (s *Server) routes() {
	m := s.mux

	// Public pages.
	m.HandleFunc("/", s.handleHome).Methods("GET")
	m.HandleFunc("/login", s.handleLoginPage).Methods("GET")
	m.HandleFunc("/login", s.handleLogin).Methods("POST")
	m.HandleFunc("/signup", s.handleSignupPage).Methods("GET")
	m.HandleFunc("/signup", s.handleSignup).Methods("POST")
	m.HandleFunc("/logout", s.handleLogout).Methods("POST")

	// Authenticated pages.
	m.HandleFunc("/dashboard", s.requireAuth(s.handleDashboard)).Methods("GET")
	m.HandleFunc("/account/delete", s.requireAuth(s.handleDeleteAccount)).Methods("POST")
	m.HandleFunc("/vehicles", s.requireAuth(s.handleAddVehicle)).Methods("POST")
	m.HandleFunc("/vehicles/delete", s.requireAuth(s.handleDeleteVehicle)).Methods("POST")

	m.HandleFunc("/rides", s.requireAuth(s.handleMyRides)).Methods("GET")
	m.HandleFunc("/rides/new", s.requireAuth(s.handleNewRidePage)).Methods("GET")
	m.HandleFunc("/rides", s.requireAuth(s.handleCreateRide)).Methods("POST")
	m.HandleFunc("/rides/{id:[0-9]+}/status", s.requireAuth(s.handleRideStatus)).Methods("POST")
	m.HandleFunc("/rides/{id:[0-9]+}/request", s.requireAuth(s.handleJoinRequest)).Methods("POST")
	m.HandleFunc("/rides/{id:[0-9]+}/requests", s.requireAuth(s.handleRideRequests)).Methods("GET")

	m.HandleFunc("/requests", s.requireAuth(s.handleMyRequests)).Methods("GET")
	m.HandleFunc("/requests/{id:[0-9]+}/status", s.requireAuth(s.handleRequestDecision)).Methods("POST")

	m.HandleFunc("/ratings", s.requireAuth(s.handleRatings)).Methods("GET")
	m.HandleFunc("/rates", s.requireAuth(s.handleCreateRate)).Methods("POST")

	// Form support endpoints (JSON).
	m.HandleFunc("/geo/search", s.requireAuth(s.handleGeoSearch)).Methods("GET")
	m.HandleFunc("/geo/route", s.requireAuth(s.handleGeoRoute)).Methods("GET")
	m.HandleFunc("/advisory", s.requireAuth(s.handleAdvisory)).Methods("GET")

	// Cross-tab session events.
	m.HandleFunc("/ws/session", s.requireAuth(s.handleSessionWS)).Methods("GET")

	m.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")
	m.Handle("/metrics", promhttp.Handler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }
