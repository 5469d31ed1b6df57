// Package geo talks to the external mapping collaborators at their interface
// boundary: Nominatim for address autocomplete and forward geocoding, OSRM
// for route computation. Map rendering itself stays in the browser.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Place is one autocomplete / geocoding hit.
type Place struct {
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// NominatimClient performs forward geocoding lookups, restricted to one
// country. Nominatim's usage policy requires an identifying User-Agent.
type NominatimClient struct {
	Endpoint    string
	CountryCode string
	UserAgent   string
	Client      *http.Client
}

func NewNominatimClient(endpoint, countryCode string) *NominatimClient {
	return &NominatimClient{
		Endpoint:    endpoint,
		CountryCode: countryCode,
		UserAgent:   "commute-front/1.0",
		Client:      &http.Client{Timeout: 5 * time.Second},
	}
}

// Search resolves a free-text query to candidate places, most relevant first.
// Serves both the autocomplete dropdown and the final geocode of the chosen
// address.
func (n *NominatimClient) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	if limit <= 0 {
		limit = 5
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("countrycodes", n.CountryCode)

	req, err := http.NewRequestWithContext(ctx, "GET", n.Endpoint+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.UserAgent)
	resp, err := n.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim search: status %d", resp.StatusCode)
	}
	var raw []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}
	out := make([]Place, 0, len(raw))
	for _, r := range raw {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lon, errLon := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		out = append(out, Place{DisplayName: r.DisplayName, Lat: lat, Lon: lon})
	}
	return out, nil
}
