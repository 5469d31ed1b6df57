package backend

import (
	"context"

	"github.com/example/commute-front/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, "POST", "/auth/login", "", req, &out)
	return out, err
}

// Signup registers an account. The backend returns only a message; callers
// follow a successful signup with an automatic Login.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	return c.do(ctx, "POST", "/auth/signup", "", req, nil)
}
