package api

import (
	"context"
	"net/http"
)

const pathProfile = "/investor/profile"

// Profile fetches the investor's profile.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	return call[Profile](ctx, c, http.MethodGet, pathProfile, nil, nil)
}

// UpdateProfile applies the given changes and returns the updated profile.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (Profile, error) {
	return call[Profile](ctx, c, http.MethodPut, pathProfile, nil, update)
}
