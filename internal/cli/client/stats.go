package client

import (
	"context"
	"net/http"

	"github.com/spoadmin/spoadmin/internal/models"
)

// GetStats returns the quota and enrolment report visible to the current user
func (c *Client) GetStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, nil, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}
