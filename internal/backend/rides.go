package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/example/commute-front/internal/models"
)

// CreateRideRequest mirrors the ride-creation form. Coordinate, distance and
// duration fields stay zero in freetext address mode.
type CreateRideRequest struct {
	Title                string    `json:"title"`
	OriginAddress        string    `json:"originAddress"`
	DestinationAddress   string    `json:"destinationAddress"`
	OriginLatitude       float64   `json:"originLatitude,omitempty"`
	OriginLongitude      float64   `json:"originLongitude,omitempty"`
	DestinationLatitude  float64   `json:"destinationLatitude,omitempty"`
	DestinationLongitude float64   `json:"destinationLongitude,omitempty"`
	DistanceInMeters     float64   `json:"distanceInMeters,omitempty"`
	DurationInSeconds    float64   `json:"durationInSeconds,omitempty"`
	DepartTime           time.Time `json:"departTime"`
	Price                float64   `json:"price"`
}

type UpdateRideStatusRequest struct {
	Status models.RideStatus `json:"status"`
}

// AvailableRides lists OPEN rides for the public listing.
func (c *Client) AvailableRides(ctx context.Context, token string) ([]models.Ride, error) {
	var rides []models.Ride
	err := c.do(ctx, "GET", "/rides/available", token, nil, &rides)
	return rides, err
}

// MyRides lists rides the caller posted as driver, across all statuses.
func (c *Client) MyRides(ctx context.Context, token string) ([]models.Ride, error) {
	var rides []models.Ride
	err := c.do(ctx, "GET", "/rides", token, nil, &rides)
	return rides, err
}

// RidesAsGuest lists rides the caller joined as guest; the ratings page
// filters these down to COMPLETED for eligibility.
func (c *Client) RidesAsGuest(ctx context.Context, token string) ([]models.Ride, error) {
	var rides []models.Ride
	err := c.do(ctx, "GET", "/rides/as-guest", token, nil, &rides)
	return rides, err
}

func (c *Client) CreateRide(ctx context.Context, token string, req CreateRideRequest) (models.Ride, error) {
	var r models.Ride
	err := c.do(ctx, "POST", "/rides", token, req, &r)
	return r, err
}

// UpdateRideStatus requests a lifecycle transition. Only the ride's driver is
// authorized; the backend enforces that and the lifecycle itself.
func (c *Client) UpdateRideStatus(ctx context.Context, token string, id int64, status models.RideStatus) (models.Ride, error) {
	var r models.Ride
	err := c.do(ctx, "PUT", fmt.Sprintf("/rides/%d", id), token, UpdateRideStatusRequest{Status: status}, &r)
	return r, err
}
