package backend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/commute-front/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(url string) *Client {
	return New(url, url, 5*time.Second, testLogger())
}

func TestBearerTokenSentVerbatim(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.Ride{})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.MyRides(context.Background(), "Bearer abc123"); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer abc123" {
		t.Fatalf("Authorization = %q, want %q", gotAuth, "Bearer abc123")
	}
}

func TestNoTokenNoAuthorizationHeader(t *testing.T) {
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		json.NewEncoder(w).Encode([]models.Ride{})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.AvailableRides(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if hadAuth {
		t.Fatal("anonymous call must not carry an Authorization header")
	}
}

func TestBackendMessageSurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Araç zaten kayıtlı"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.AddVehicle(context.Background(), "Bearer t", VehicleRequest{Plate: "34ABC123"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := UserMessage(err, "fallback"); got != "Araç zaten kayıtlı" {
		t.Fatalf("UserMessage = %q, want the backend message verbatim", got)
	}
	if IsUnauthorized(err) {
		t.Fatal("409 must not be classified as unauthorized")
	}
}

func TestUserMessageFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.MyRides(context.Background(), "Bearer t")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := UserMessage(err, "Bir şeyler ters gitti."); got != "Bir şeyler ters gitti." {
		t.Fatalf("UserMessage = %q, want the fallback for an empty body", got)
	}
}

func TestIsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.CurrentUser(context.Background(), "Bearer stale")
	if !IsUnauthorized(err) {
		t.Fatalf("IsUnauthorized(%v) = false, want true", err)
	}
	if IsUnauthorized(nil) {
		t.Fatal("IsUnauthorized(nil) must be false")
	}
}

func TestCreateRideRequestSendsStringID(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error(err)
		}
		json.NewEncoder(w).Encode(models.RideRequest{ID: 1, Status: models.RequestPending})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	req, err := c.CreateRideRequest(context.Background(), "Bearer t", 42)
	if err != nil {
		t.Fatal(err)
	}
	// The join endpoint expects the ride id as a JSON string, not a number.
	if got, ok := body["id"].(string); !ok || got != "42" {
		t.Fatalf("body id = %v (%T), want the string \"42\"", body["id"], body["id"])
	}
	if req.Status != models.RequestPending {
		t.Fatalf("new request status = %q, want PENDING", req.Status)
	}
}

func TestUpdateRideStatusPath(t *testing.T) {
	var gotMethod, gotPath string
	var body UpdateRideStatusRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(models.Ride{ID: 7, Status: models.RideOngoing})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	ride, err := c.UpdateRideStatus(context.Background(), "Bearer t", 7, models.RideOngoing)
	if err != nil {
		t.Fatal(err)
	}
	if gotMethod != "PUT" || gotPath != "/rides/7" {
		t.Fatalf("got %s %s, want PUT /rides/7", gotMethod, gotPath)
	}
	if body.Status != models.RideOngoing {
		t.Fatalf("body status = %q, want ONGOING", body.Status)
	}
	if ride.Status != models.RideOngoing {
		t.Fatalf("returned status = %q, want ONGOING", ride.Status)
	}
}

func TestPriceSuggestion(t *testing.T) {
	t.Run("passes route and vehicle as query params", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("distanceInMeters") != "12500" || q.Get("durationInSeconds") != "1800" {
				t.Errorf("unexpected route params: %v", q)
			}
			if q.Get("carBrand") != "Renault" || q.Get("carModel") != "Clio" {
				t.Errorf("unexpected vehicle params: %v", q)
			}
			if _, ok := r.Header["Authorization"]; ok {
				t.Error("advisory call must be unauthenticated")
			}
			w.Write([]byte(`{"message":"Önerilen ücret: 150 TL"}`))
		}))
		defer srv.Close()

		c := newTestClient(srv.URL)
		msg, err := c.PriceSuggestion(context.Background(), 12500, 1800, "Renault", "Clio")
		if err != nil {
			t.Fatal(err)
		}
		if msg != "Önerilen ücret: 150 TL" {
			t.Fatalf("message = %q", msg)
		}
	})

	t.Run("errors on failure status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := newTestClient(srv.URL)
		if _, err := c.PriceSuggestion(context.Background(), 1000, 60, "a", "b"); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("errors on empty message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		c := newTestClient(srv.URL)
		if _, err := c.PriceSuggestion(context.Background(), 1000, 60, "a", "b"); err == nil {
			t.Fatal("an empty advisory message is a failure")
		}
	})
}

func TestResourceLabel(t *testing.T) {
	cases := []struct{ path, want string }{
		{"/rides/available", "rides"},
		{"/rides/7", "rides"},
		{"/users", "users"},
		{"/ride-requests", "ride-requests"},
		{"/ai?distanceInMeters=1", "ai"},
	}
	for _, c := range cases {
		if got := resourceLabel(c.path); got != c.want {
			t.Errorf("resourceLabel(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}
