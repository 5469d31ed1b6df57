package backend

import (
	"context"
	"fmt"

	"github.com/example/commute-front/internal/models"
)

// CurrentUser fetches the authenticated user's profile, including the owned
// vehicle and aggregate score when present.
func (c *Client) CurrentUser(ctx context.Context, token string) (models.User, error) {
	var u models.User
	err := c.do(ctx, "GET", "/users", token, nil, &u)
	return u, err
}

func (c *Client) User(ctx context.Context, token string, id int64) (models.User, error) {
	var u models.User
	err := c.do(ctx, "GET", fmt.Sprintf("/users/%d", id), token, nil, &u)
	return u, err
}

// DeleteCurrentUser removes the account; the backend cascades rides, requests
// and rates server-side.
func (c *Client) DeleteCurrentUser(ctx context.Context, token string) error {
	return c.do(ctx, "DELETE", "/users", token, nil, nil)
}
