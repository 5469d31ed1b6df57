package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialSessionWS(t *testing.T, srv *httptest.Server, cookie *http.Cookie) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Cookie": {cookie.String()}})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestLogoutNotifiesOtherTabs(t *testing.T) {
	h := newHarness(t)
	srv := httptest.NewServer(h.srv)
	defer srv.Close()
	cookie := h.login(t)

	// Two tabs of the same session keep a socket open.
	tab1 := dialSessionWS(t, srv, cookie)
	tab2 := dialSessionWS(t, srv, cookie)

	rec := h.do("POST", "/logout", url.Values{}, cookie)
	wantRedirect(t, rec, "/login")

	for i, conn := range []*websocket.Conn{tab1, tab2} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev SessionEvent
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("tab %d read: %v", i+1, err)
		}
		if ev.Event != "session_ended" {
			t.Fatalf("tab %d event = %q, want session_ended", i+1, ev.Event)
		}
	}
}

func TestClosedTabIsDropped(t *testing.T) {
	h := newHarness(t)
	srv := httptest.NewServer(h.srv)
	defer srv.Close()
	cookie := h.login(t)

	conn := dialSessionWS(t, srv, cookie)
	conn.Close()

	// The read-drain goroutine notices the close and detaches the tab; a
	// later broadcast must not find it. Poll briefly instead of sleeping a
	// fixed interval.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.srv.hub.mu.RLock()
		n := len(h.srv.hub.tabs)
		h.srv.hub.mu.RUnlock()
		if n == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("closed tab was never dropped from the hub")
}
