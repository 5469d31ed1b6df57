package backend

import (
	"context"
	"fmt"
	"strconv"

	"github.com/example/commute-front/internal/models"
)

type createRideRequestBody struct {
	ID string `json:"id"`
}

type updateRequestStatusBody struct {
	Status models.RequestStatus `json:"status"`
}

// MyRideRequests lists the caller's outgoing join-requests, joined with the
// parent ride and its driver, across all statuses.
func (c *Client) MyRideRequests(ctx context.Context, token string) ([]models.RideRequest, error) {
	var reqs []models.RideRequest
	err := c.do(ctx, "GET", "/ride-requests", token, nil, &reqs)
	return reqs, err
}

// RideRequestsForRide lists the requests made against one of the caller's own
// rides.
func (c *Client) RideRequestsForRide(ctx context.Context, token string, rideID int64) ([]models.RideRequest, error) {
	var reqs []models.RideRequest
	err := c.do(ctx, "GET", fmt.Sprintf("/ride-requests/%d", rideID), token, nil, &reqs)
	return reqs, err
}

// CreateRideRequest applies to join a ride. Ride status is not validated here;
// a request against a non-OPEN ride is the backend's to reject.
func (c *Client) CreateRideRequest(ctx context.Context, token string, rideID int64) (models.RideRequest, error) {
	var req models.RideRequest
	err := c.do(ctx, "POST", "/ride-requests", token, createRideRequestBody{ID: strconv.FormatInt(rideID, 10)}, &req)
	return req, err
}

// UpdateRideRequestStatus accepts or rejects a pending request.
func (c *Client) UpdateRideRequestStatus(ctx context.Context, token string, id int64, status models.RequestStatus) (models.RideRequest, error) {
	var req models.RideRequest
	err := c.do(ctx, "PUT", fmt.Sprintf("/ride-requests/%d", id), token, updateRequestStatusBody{Status: status}, &req)
	return req, err
}
