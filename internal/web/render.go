package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/example/commute-front/internal/models"
	"github.com/example/commute-front/internal/ride"
	"github.com/example/commute-front/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(
	template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"),
)

var templateFuncs = template.FuncMap{
	"formatDistance": formatDistance,
	"formatDuration": formatDuration,
	"formatDateTime": formatDateTime,
	"formatPrice":    formatPrice,
	"formatScore":    formatScore,
	"stars":          stars,
	"terminal":       ride.Terminal,
	"targets":        ride.Targets,
	"statusLabel":    statusLabel,
	"requestLabel":   requestLabel,
}

// basePage carries what every template needs: the signed-in user (nil when
// anonymous), a pending flash and its display interval.
type basePage struct {
	Session  *session.Session
	Flash    *Flash
	FlashMS  int64
	PageName string
}

func (s *Server) base(w http.ResponseWriter, r *http.Request, name string) basePage {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		sess = s.currentSession(r)
	}
	return basePage{
		Session:  sess,
		Flash:    s.popFlash(w, r),
		FlashMS:  s.cfg.FlashTTL.Milliseconds(),
		PageName: name,
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template render failed", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func formatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	return fmt.Sprintf("%.0f m", meters)
}

func formatDuration(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%d sa %d dk", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%d saat", hours)
	default:
		return fmt.Sprintf("%d dakika", minutes)
	}
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006 15:04")
}

func formatPrice(p float64) string { return fmt.Sprintf("₺%.2f", p) }

func formatScore(score float64) string { return fmt.Sprintf("%.1f", score) }

func stars(score int) string { return strings.Repeat("★", score) }

var rideStatusLabels = map[models.RideStatus]string{
	models.RideOpen:      "Açık",
	models.RideOngoing:   "Devam Ediyor",
	models.RideCompleted: "Tamamlandı",
	models.RideCanceled:  "İptal Edildi",
}

func statusLabel(s models.RideStatus) string {
	if l, ok := rideStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

var requestStatusLabels = map[models.RequestStatus]string{
	models.RequestPending:  "Beklemede",
	models.RequestAccepted: "Kabul Edildi",
	models.RequestRejected: "Reddedildi",
}

func requestLabel(s models.RequestStatus) string {
	if l, ok := requestStatusLabels[s]; ok {
		return l
	}
	return string(s)
}
