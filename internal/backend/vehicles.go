package backend

import (
	"context"

	"github.com/example/commute-front/internal/models"
)

type VehicleRequest struct {
	Plate string `json:"plate"`
	Brand string `json:"brand"`
	Model string `json:"model"`
}

// AddVehicle registers the caller's vehicle. The backend rejects a second
// vehicle; the dashboard additionally hides the form once one exists.
func (c *Client) AddVehicle(ctx context.Context, token string, req VehicleRequest) (models.Vehicle, error) {
	var v models.Vehicle
	err := c.do(ctx, "POST", "/vehicles", token, req, &v)
	return v, err
}

func (c *Client) DeleteVehicle(ctx context.Context, token string) error {
	return c.do(ctx, "DELETE", "/vehicles", token, nil, nil)
}
