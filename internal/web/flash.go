package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookie = "commute_flash"

// Flash is a transient notification rendered once on the next page load and
// auto-dismissed client-side after the configured interval. Nothing is queued
// or retried; a failed action must be re-triggered by the user.
type Flash struct {
	Level   string `json:"level"` // "success" or "error"
	Message string `json:"message"`
}

func (s *Server) setFlash(w http.ResponseWriter, level, message string) {
	b, err := json.Marshal(Flash{Level: level, Message: message})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(b),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

func (s *Server) flashSuccess(w http.ResponseWriter, message string) {
	s.setFlash(w, "success", message)
}

func (s *Server) flashError(w http.ResponseWriter, message string) {
	s.setFlash(w, "error", message)
}

// popFlash reads and clears the pending flash, if any.
func (s *Server) popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	b, err := base64.URLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}
	return &f
}
