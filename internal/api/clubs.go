package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const pathClubs = "/investor/clubs"

// Clubs lists investment clubs, optionally filtered by type ("live",
// "closed", "upcoming"). An empty clubType lists everything.
func (c *Client) Clubs(ctx context.Context, clubType string) ([]Club, error) {
	query := url.Values{}
	if clubType != "" {
		query.Set("type", clubType)
	}
	return call[[]Club](ctx, c, http.MethodGet, pathClubs, query, nil)
}

// Club fetches a single club by id.
func (c *Client) Club(ctx context.Context, id int64) (Club, error) {
	return call[Club](ctx, c, http.MethodGet, fmt.Sprintf("%s/%d", pathClubs, id), nil, nil)
}
