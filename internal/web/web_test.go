package web

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/commute-front/internal/backend"
	"github.com/example/commute-front/internal/config"
	"github.com/example/commute-front/internal/geo"
	"github.com/example/commute-front/internal/models"
	"github.com/example/commute-front/internal/session"
)

// fakeAPI stands in for the platform backend. It counts every call by
// "METHOD path", records the Authorization header it saw, and serves canned
// responses unless a test overrides status/body for a given key.
type fakeAPI struct {
	mu       sync.Mutex
	calls    map[string]int
	lastAuth map[string]string
	status   map[string]int
	body     map[string]string
	delay    map[string]time.Duration

	token string
	user  models.User
	rides []models.Ride
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	f.mu.Lock()
	f.calls[key]++
	f.lastAuth[key] = r.Header.Get("Authorization")
	delay := f.delay[key]
	status := f.status[key]
	body := f.body[key]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if status != 0 {
		w.WriteHeader(status)
		io.WriteString(w, body)
		return
	}
	switch {
	case key == "POST /auth/login":
		json.NewEncoder(w).Encode(map[string]any{"token": f.token, "user": f.user})
	case key == "POST /auth/signup":
		io.WriteString(w, `{"message":"ok"}`)
	case key == "GET /users":
		json.NewEncoder(w).Encode(f.user)
	case key == "GET /rides" || key == "GET /rides/available" || key == "GET /rides/as-guest":
		json.NewEncoder(w).Encode(f.rides)
	case strings.HasPrefix(key, "GET /ride-requests") || strings.HasPrefix(key, "GET /rates"):
		io.WriteString(w, "[]")
	default:
		io.WriteString(w, "{}")
	}
}

func (f *fakeAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeAPI) auth(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth[key]
}

type harness struct {
	api      *fakeAPI
	srv      *Server
	sessions *session.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := &fakeAPI{
		calls:    map[string]int{},
		lastAuth: map[string]string{},
		status:   map[string]int{},
		body:     map[string]string{},
		delay:    map[string]time.Duration{},
		token:    "test-token",
		user:     models.User{ID: 1, Email: "ali@example.com", FirstName: "Ali", LastName: "Kaya"},
	}
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.FrontendConfig{
		CookieName:     "sess",
		SessionTTL:     time.Hour,
		FlashTTL:       3 * time.Second,
		AddressMode:    config.AddressGeocoded,
		BackendBaseURL: ts.URL,
		CountryCode:    "tr",
	}
	sessions := session.NewMemoryStore()
	bc := backend.New(ts.URL, ts.URL, 5*time.Second, logger)
	geoSvc := geo.NewService(nil, nil, geo.NewRouteCache(time.Minute))
	return &harness{api: api, srv: NewServer(cfg, logger, bc, sessions, geoSvc), sessions: sessions}
}

func (h *harness) do(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := h.do("POST", "/login", url.Values{"email": {"ali@example.com"}, "password": {"secret"}}, nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("login: code=%d location=%q", rec.Code, rec.Header().Get("Location"))
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sess" && c.Value != "" {
			return c
		}
	}
	t.Fatal("login set no session cookie")
	return nil
}

func flashFrom(t *testing.T, rec *httptest.ResponseRecorder) *Flash {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookie && c.Value != "" {
			b, err := base64.URLEncoding.DecodeString(c.Value)
			if err != nil {
				t.Fatal(err)
			}
			var f Flash
			if err := json.Unmarshal(b, &f); err != nil {
				t.Fatal(err)
			}
			return &f
		}
	}
	return nil
}

func wantRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("code = %d, want 303 (body: %s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func TestRequireAuthRedirects(t *testing.T) {
	h := newHarness(t)
	for _, path := range []string{"/dashboard", "/rides", "/requests", "/ratings"} {
		rec := h.do("GET", path, nil, nil)
		wantRedirect(t, rec, "/login")
	}
}

func TestLoginNormalizesToken(t *testing.T) {
	h := newHarness(t)
	h.api.token = "raw-token" // backend sends it without the Bearer prefix

	cookie := h.login(t)
	rec := h.do("GET", "/dashboard", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard code = %d", rec.Code)
	}
	if got := h.api.auth("GET /users"); got != "Bearer raw-token" {
		t.Fatalf("Authorization = %q, want %q", got, "Bearer raw-token")
	}
}

func TestHomeListsAvailableRides(t *testing.T) {
	h := newHarness(t)
	h.api.rides = []models.Ride{{
		ID:                 9,
		Driver:             models.User{ID: 2, FirstName: "Zeynep", LastName: "Demir"},
		Title:              "Kadıköy - Levent sabah",
		OriginAddress:      "Kadıköy",
		DestinationAddress: "Levent",
		DepartTime:         time.Date(2026, 9, 1, 8, 30, 0, 0, time.Local),
		Price:              120,
		Status:             models.RideOpen,
	}}

	rec := h.do("GET", "/", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Kadıköy - Levent sabah") {
		t.Fatal("listing does not show the open ride")
	}
}

func TestHomeFetchFailureRendersEmpty(t *testing.T) {
	h := newHarness(t)
	h.api.status["GET /rides/available"] = http.StatusInternalServerError

	rec := h.do("GET", "/", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("a listing fetch failure must still render, got %d", rec.Code)
	}
}

func TestRideStatusSameStatusIssuesNoCall(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	rec := h.do("POST", "/rides/5/status", url.Values{
		"current": {"OPEN"}, "status": {"OPEN"}, "confirmed": {"yes"},
	}, cookie)

	wantRedirect(t, rec, "/rides")
	if f := flashFrom(t, rec); f != nil {
		t.Fatalf("no-op selection must be silent, got flash %+v", f)
	}
	if n := h.api.count("PUT /rides/5"); n != 0 {
		t.Fatalf("backend called %d times for a no-op selection", n)
	}
}

func TestRideStatusTerminalBlocked(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	for _, current := range []string{"COMPLETED", "CANCELED"} {
		rec := h.do("POST", "/rides/5/status", url.Values{
			"current": {current}, "status": {"ONGOING"}, "confirmed": {"yes"},
		}, cookie)
		wantRedirect(t, rec, "/rides")
		f := flashFrom(t, rec)
		if f == nil || f.Level != "error" {
			t.Fatalf("transition out of %s must flash an error, got %+v", current, f)
		}
	}
	if n := h.api.count("PUT /rides/5"); n != 0 {
		t.Fatalf("backend called %d times for terminal-state transitions", n)
	}
}

func TestRideStatusConfirmThenCommit(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	// First submit without confirmation: a prompt, no network call.
	rec := h.do("POST", "/rides/5/status", url.Values{
		"current": {"OPEN"}, "status": {"CANCELED"},
	}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm page code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "emin misiniz") {
		t.Fatal("confirmation prompt missing")
	}
	if !strings.Contains(rec.Body.String(), "İptal Edildi") {
		t.Fatal("prompt must name the destination status")
	}
	if n := h.api.count("PUT /rides/5"); n != 0 {
		t.Fatalf("backend called %d times before confirmation", n)
	}

	// Replayed with confirmed=yes: exactly one call, success flash.
	rec = h.do("POST", "/rides/5/status", url.Values{
		"current": {"OPEN"}, "status": {"CANCELED"}, "confirmed": {"yes"},
	}, cookie)
	wantRedirect(t, rec, "/rides")
	if f := flashFrom(t, rec); f == nil || f.Level != "success" {
		t.Fatalf("flash = %+v, want success", f)
	}
	if n := h.api.count("PUT /rides/5"); n != 1 {
		t.Fatalf("backend called %d times, want 1", n)
	}
}

func TestRideStatusBackendFailureFlashesMessage(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)
	h.api.status["PUT /rides/5"] = http.StatusConflict
	h.api.body["PUT /rides/5"] = `{"message":"Yolculuk zaten kapalı"}`

	rec := h.do("POST", "/rides/5/status", url.Values{
		"current": {"OPEN"}, "status": {"ONGOING"}, "confirmed": {"yes"},
	}, cookie)

	// Redirect back to the list: the fresh fetch shows the server's status.
	wantRedirect(t, rec, "/rides")
	f := flashFrom(t, rec)
	if f == nil || f.Level != "error" || f.Message != "Yolculuk zaten kapalı" {
		t.Fatalf("flash = %+v, want the backend message verbatim", f)
	}
}

func TestUnauthorizedEndsSession(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)
	if h.sessions.Len() != 1 {
		t.Fatalf("sessions after login = %d", h.sessions.Len())
	}
	h.api.status["GET /users"] = http.StatusUnauthorized
	h.api.body["GET /users"] = `{"message":"token expired"}`

	rec := h.do("GET", "/dashboard", nil, cookie)
	wantRedirect(t, rec, "/login")
	if h.sessions.Len() != 0 {
		t.Fatal("401 must purge the stored session")
	}
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sess" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("401 must clear the session cookie")
	}
}

func TestJoinRequestDoubleSubmit(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)
	h.api.delay["POST /ride-requests"] = 300 * time.Millisecond

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			rec := h.do("POST", "/rides/9/request", url.Values{}, cookie)
			if rec.Code != http.StatusSeeOther {
				t.Errorf("code = %d", rec.Code)
			}
		}()
	}
	close(start)
	wg.Wait()

	if n := h.api.count("POST /ride-requests"); n != 1 {
		t.Fatalf("backend received %d join requests, want 1", n)
	}
}

func TestCreateRideDoubleSubmit(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)
	h.api.delay["POST /rides"] = 300 * time.Millisecond

	form := url.Values{
		"title":                {"Sabah"},
		"originAddress":        {"Kadıköy"},
		"destinationAddress":   {"Levent"},
		"originLatitude":       {"41.0"},
		"originLongitude":      {"29.02"},
		"destinationLatitude":  {"41.07"},
		"destinationLongitude": {"29.01"},
		"distanceInMeters":     {"8450"},
		"durationInSeconds":    {"1260"},
		"departTime":           {"2026-09-01T08:30"},
		"price":                {"120"},
	}

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			rec := h.do("POST", "/rides", form, cookie)
			if rec.Code != http.StatusSeeOther {
				t.Errorf("code = %d", rec.Code)
			}
		}()
	}
	close(start)
	wg.Wait()

	if n := h.api.count("POST /rides"); n != 1 {
		t.Fatalf("backend received %d ride creations for a double submit, want 1", n)
	}
}

func TestAddVehicleDoubleSubmit(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)
	h.api.delay["POST /vehicles"] = 300 * time.Millisecond

	form := url.Values{"plate": {"34ABC123"}, "brand": {"Renault"}, "model": {"Clio"}}

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			rec := h.do("POST", "/vehicles", form, cookie)
			if rec.Code != http.StatusSeeOther {
				t.Errorf("code = %d", rec.Code)
			}
		}()
	}
	close(start)
	wg.Wait()

	if n := h.api.count("POST /vehicles"); n != 1 {
		t.Fatalf("backend received %d vehicle creations for a double submit, want 1", n)
	}
}

func TestRequestDecisionCurrentStatusDropped(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	rec := h.do("POST", "/requests/3/status", url.Values{
		"rideId": {"7"}, "current": {"ACCEPTED"}, "status": {"ACCEPTED"},
	}, cookie)

	wantRedirect(t, rec, "/rides/7/requests")
	if f := flashFrom(t, rec); f != nil {
		t.Fatalf("re-selecting the current decision must be silent, got %+v", f)
	}
	if n := h.api.count("PUT /ride-requests/3"); n != 0 {
		t.Fatalf("backend called %d times, want 0", n)
	}
}

func TestRequestDecisionAccept(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	rec := h.do("POST", "/requests/3/status", url.Values{
		"rideId": {"7"}, "current": {"PENDING"}, "status": {"ACCEPTED"},
	}, cookie)

	wantRedirect(t, rec, "/rides/7/requests")
	if f := flashFrom(t, rec); f == nil || f.Message != "Talep kabul edildi!" {
		t.Fatalf("flash = %+v", f)
	}
	if n := h.api.count("PUT /ride-requests/3"); n != 1 {
		t.Fatalf("backend called %d times, want 1", n)
	}
}

func TestRequestDecisionMalformedRideIDFallsBack(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	rec := h.do("POST", "/requests/3/status", url.Values{
		"rideId": {"../evil"}, "current": {"PENDING"}, "status": {"ACCEPTED"},
	}, cookie)

	// A rideId that is not a number must not reach the Location header.
	wantRedirect(t, rec, "/rides")
	if n := h.api.count("PUT /ride-requests/3"); n != 1 {
		t.Fatalf("backend called %d times, want 1", n)
	}
}

func TestRateWithoutSelectionIssuesNoCall(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	rec := h.do("POST", "/rates", url.Values{"score": {"5"}}, cookie)

	wantRedirect(t, rec, "/ratings")
	f := flashFrom(t, rec)
	if f == nil || f.Level != "error" {
		t.Fatalf("flash = %+v, want a selection error", f)
	}
	if n := h.api.count("POST /rates"); n != 0 {
		t.Fatalf("backend called %d times without a ride selected", n)
	}
}

func TestRateScoreOutOfRange(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	rec := h.do("POST", "/rates", url.Values{
		"rideId": {"4"}, "driverId": {"2"}, "score": {"9"},
	}, cookie)

	wantRedirect(t, rec, "/ratings")
	if f := flashFrom(t, rec); f == nil || f.Message != "Puan 1 ile 5 arasında olmalıdır." {
		t.Fatalf("flash = %+v", f)
	}
	if n := h.api.count("POST /rates"); n != 0 {
		t.Fatalf("backend called %d times for an invalid score", n)
	}
}

func TestRateSuccess(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	rec := h.do("POST", "/rates", url.Values{
		"rideId": {"4"}, "driverId": {"2"}, "score": {"5"}, "comment": {"Çok iyiydi"},
	}, cookie)

	wantRedirect(t, rec, "/ratings")
	if f := flashFrom(t, rec); f == nil || f.Level != "success" {
		t.Fatalf("flash = %+v", f)
	}
	if n := h.api.count("POST /rates"); n != 1 {
		t.Fatalf("backend called %d times, want 1", n)
	}
}

func TestAdvisoryEndpoint(t *testing.T) {
	t.Run("requires a vehicle", func(t *testing.T) {
		h := newHarness(t)
		cookie := h.login(t)
		rec := h.do("GET", "/advisory?distanceInMeters=8450&durationInSeconds=1260", nil, cookie)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %d, want 400 without a vehicle", rec.Code)
		}
	})

	t.Run("failure is a transient error", func(t *testing.T) {
		h := newHarness(t)
		h.api.user.Vehicle = &models.Vehicle{ID: 1, Brand: "Renault", Model: "Clio"}
		cookie := h.login(t)
		h.api.status["GET /ai"] = http.StatusInternalServerError

		rec := h.do("GET", "/advisory?distanceInMeters=8450&durationInSeconds=1260", nil, cookie)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("code = %d, want 502", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Ücret önerisi alınamadı.") {
			t.Fatalf("body = %s", rec.Body.String())
		}
	})

	t.Run("passes the suggestion through", func(t *testing.T) {
		h := newHarness(t)
		h.api.user.Vehicle = &models.Vehicle{ID: 1, Brand: "Renault", Model: "Clio"}
		cookie := h.login(t)
		h.api.status["GET /ai"] = http.StatusOK
		h.api.body["GET /ai"] = `{"message":"Önerilen ücret: 150 TL"}`

		rec := h.do("GET", "/advisory?distanceInMeters=8450&durationInSeconds=1260", nil, cookie)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d (body: %s)", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "Önerilen ücret: 150 TL") {
			t.Fatalf("body = %s", rec.Body.String())
		}
	})
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	rec := h.do("POST", "/logout", url.Values{}, cookie)
	wantRedirect(t, rec, "/login")
	if h.sessions.Len() != 0 {
		t.Fatal("logout must purge the stored session")
	}

	// The old cookie now resolves to nothing; protected pages bounce.
	rec = h.do("GET", "/rides", nil, cookie)
	wantRedirect(t, rec, "/login")
}

func TestEligibleRides(t *testing.T) {
	rides := []models.Ride{
		{ID: 1, Status: models.RideCompleted},
		{ID: 2, Status: models.RideOpen},
		{ID: 3, Status: models.RideCompleted},
		{ID: 4, Status: models.RideCanceled},
	}
	given := []models.Rate{{Ride: models.Ride{ID: 3}}}

	got := eligibleRides(rides, given)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("eligible = %+v, want only ride 1", got)
	}
}

func TestCreateRideValidation(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	t.Run("missing addresses render inline", func(t *testing.T) {
		rec := h.do("POST", "/rides", url.Values{"title": {"Sabah"}}, cookie)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "zorunludur") {
			t.Fatal("validation message missing")
		}
		if n := h.api.count("POST /rides"); n != 0 {
			t.Fatalf("backend called %d times for an invalid form", n)
		}
	})

	t.Run("geocoded mode requires a computed route", func(t *testing.T) {
		rec := h.do("POST", "/rides", url.Values{
			"title":                {"Sabah"},
			"originAddress":        {"Kadıköy"},
			"destinationAddress":   {"Levent"},
			"originLatitude":       {"41.0"},
			"originLongitude":      {"29.02"},
			"destinationLatitude":  {"41.07"},
			"destinationLongitude": {"29.01"},
			"departTime":           {"2026-09-01T08:30"},
			"price":                {"120"},
		}, cookie)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Rota henüz hesaplanmadı") {
			t.Fatal("missing-route message not shown")
		}
		if n := h.api.count("POST /rides"); n != 0 {
			t.Fatalf("backend called %d times without a route", n)
		}
	})

	t.Run("complete form posts the ride", func(t *testing.T) {
		rec := h.do("POST", "/rides", url.Values{
			"title":                {"Sabah"},
			"originAddress":        {"Kadıköy"},
			"destinationAddress":   {"Levent"},
			"originLatitude":       {"41.0"},
			"originLongitude":      {"29.02"},
			"destinationLatitude":  {"41.07"},
			"destinationLongitude": {"29.01"},
			"distanceInMeters":     {"8450"},
			"durationInSeconds":    {"1260"},
			"departTime":           {"2026-09-01T08:30"},
			"price":                {"120"},
		}, cookie)
		wantRedirect(t, rec, "/rides")
		if f := flashFrom(t, rec); f == nil || f.Level != "success" {
			t.Fatalf("flash = %+v", f)
		}
		if n := h.api.count("POST /rides"); n != 1 {
			t.Fatalf("backend called %d times, want 1", n)
		}
	})
}
