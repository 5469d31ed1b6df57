package backend

import (
	"context"

	"github.com/example/commute-front/internal/models"
)

type CreateRateRequest struct {
	Score        int    `json:"score"`
	Comment      string `json:"comment"`
	TargetUserID int64  `json:"targetUserId"`
	TargetRideID int64  `json:"targetRideId"`
}

func (c *Client) MyRatesAsRater(ctx context.Context, token string) ([]models.Rate, error) {
	var rates []models.Rate
	err := c.do(ctx, "GET", "/rates/as-rater", token, nil, &rates)
	return rates, err
}

func (c *Client) MyRatesAsRated(ctx context.Context, token string) ([]models.Rate, error) {
	var rates []models.Rate
	err := c.do(ctx, "GET", "/rates/as-rated", token, nil, &rates)
	return rates, err
}

// CreateRate reviews a completed ride's driver. Eligibility (ride COMPLETED,
// caller was guest, not already rated) is pre-filtered by the ratings page;
// the backend re-validates.
func (c *Client) CreateRate(ctx context.Context, token string, req CreateRateRequest) (models.Rate, error) {
	var rate models.Rate
	err := c.do(ctx, "POST", "/rates", token, req, &rate)
	return rate, err
}
