package api

import (
	"context"
	"net/http"

	"github.com/xfcbe/fake-news-detection/internal/model"
)

func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	return c.authenticate(ctx, c.endpoints.Login, model.LoginRequest{
		Email:    email,
		Password: password,
	})
}

func (c *Client) Signup(ctx context.Context, fullName, email, password string) (*model.AuthResponse, error) {
	return c.authenticate(ctx, c.endpoints.Signup, model.SignupRequest{
		FullName: fullName,
		Email:    email,
		Password: password,
	})
}

// authenticate persists the session only when the server issued a token.
func (c *Client) authenticate(ctx context.Context, endpoint string, body any) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.Request(ctx, endpoint, RequestOptions{Method: http.MethodPost, Body: body}, &resp); err != nil {
		return nil, err
	}
	if resp.Token != "" {
		if err := c.session.Save(ctx, resp.Token, resp.User); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// Logout tells the server best-effort and always drops the local session.
// Only a failure to clear local state is returned.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.Request(ctx, c.endpoints.Logout, RequestOptions{Method: http.MethodPost}, nil); err != nil {
		c.logger.Printf("logout request failed, clearing local session anyway: %v", err)
	}
	return c.session.Clear(ctx)
}

func (c *Client) IsAuthenticated(ctx context.Context) bool {
	return c.session.Authenticated(ctx)
}

func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	return c.session.User(ctx)
}
