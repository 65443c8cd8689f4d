package api

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/models"
)

const DefaultRole = "buyer"

type RegisterRequest struct {
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	Role      string          `json:"role"`
	Phone     string          `json:"phone,omitempty"`
	Address   *models.Address `json:"address,omitempty"`
}

type authPayload struct {
	Data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	} `json:"data"`
}

type profilePayload struct {
	Data models.User `json:"data"`
}

// Login exchanges credentials for a token and the logged-in user.
func (c *Client) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	body := map[string]string{"email": email, "password": password}

	var payload authPayload
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &payload); err != nil {
		return "", nil, err
	}
	return payload.Data.Token, &payload.Data.User, nil
}

// Register creates an account. The backend logs the new user in immediately,
// so the reply carries a token just like Login. An empty role defaults to
// "buyer".
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, *models.User, error) {
	if req.Role == "" {
		req.Role = DefaultRole
	}

	var payload authPayload
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &payload); err != nil {
		return "", nil, err
	}
	return payload.Data.Token, &payload.Data.User, nil
}

// Profile fetches the user the current bearer token belongs to.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var payload profilePayload
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &payload); err != nil {
		return nil, err
	}
	return &payload.Data, nil
}
