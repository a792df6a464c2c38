package api

import (
	"context"
	"net/http"
)

// Dashboard fetches the aggregated home-screen view.
func (c *Client) Dashboard(ctx context.Context) (Dashboard, error) {
	return call[Dashboard](ctx, c, http.MethodGet, "/investor/dashboard", nil, nil)
}

// Report fetches the investor's portfolio statement.
func (c *Client) Report(ctx context.Context) (Report, error) {
	return call[Report](ctx, c, http.MethodGet, "/investor/report", nil, nil)
}
