package client

import (
	"context"
	"net/http"

	"github.com/spoadmin/spoadmin/internal/models"
)

// Login exchanges credentials for an access token
func (c *Client) Login(ctx context.Context, login, password string) (*models.TokenResponse, error) {
	reqBody := models.LoginRequest{
		Login:    login,
		Password: password,
	}

	var tokenResp models.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, reqBody, &tokenResp); err != nil {
		return nil, err
	}

	return &tokenResp, nil
}

// Me returns the profile of the authenticated user
func (c *Client) Me(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}
