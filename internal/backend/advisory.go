package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/example/commute-front/internal/observability"
)

// PriceSuggestion asks the advisory endpoint for a free-text price hint given
// the computed route and the driver's vehicle. No token: the endpoint is
// unauthenticated. Best effort only; on failure the caller leaves the price
// field untouched and shows a transient error.
//
// The response text sometimes embeds a numeric figure, but it is displayed
// as-is; nothing is extracted into the price input.
func (c *Client) PriceSuggestion(ctx context.Context, distanceMeters, durationSeconds float64, carBrand, carModel string) (string, error) {
	q := url.Values{}
	q.Set("distanceInMeters", strconv.FormatFloat(distanceMeters, 'f', -1, 64))
	q.Set("durationInSeconds", strconv.FormatFloat(durationSeconds, 'f', -1, 64))
	q.Set("carBrand", carBrand)
	q.Set("carModel", carModel)

	req, err := http.NewRequestWithContext(ctx, "GET", c.advisoryURL+"/ai?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		observability.AdvisoryFailuresTotal.Inc()
		return "", fmt.Errorf("price advisory: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.AdvisoryFailuresTotal.Inc()
		return "", fmt.Errorf("price advisory: read body: %w", err)
	}
	if resp.StatusCode >= 400 {
		observability.AdvisoryFailuresTotal.Inc()
		return "", errorFromResponse(resp.StatusCode, data)
	}
	msg := gjson.GetBytes(data, "message").String()
	if msg == "" {
		observability.AdvisoryFailuresTotal.Inc()
		return "", fmt.Errorf("price advisory: empty message")
	}
	return msg, nil
}
