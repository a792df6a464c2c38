package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const pathNotifications = "/investor/notifications"

// NotificationQuery filters and paginates the notification list. Read nil
// means both read and unread.
type NotificationQuery struct {
	Page    int
	PerPage int
	Read    *bool
}

// Notifications lists the investor's notifications, newest first.
func (c *Client) Notifications(ctx context.Context, q NotificationQuery) (NotificationPage, error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Read != nil {
		query.Set("read", strconv.FormatBool(*q.Read))
	}
	return call[NotificationPage](ctx, c, http.MethodGet, pathNotifications, query, nil)
}

// UnreadNotificationCount returns the badge count.
func (c *Client) UnreadNotificationCount(ctx context.Context) (UnreadCount, error) {
	return call[UnreadCount](ctx, c, http.MethodGet, pathNotifications+"/unread-count", nil, nil)
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	_, err := call[struct{}](ctx, c, http.MethodPost, fmt.Sprintf("%s/%d/read", pathNotifications, id), nil, nil)
	return err
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := call[struct{}](ctx, c, http.MethodPost, pathNotifications+"/mark-all-read", nil, nil)
	return err
}

// DeleteNotification removes a notification.
func (c *Client) DeleteNotification(ctx context.Context, id int64) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, fmt.Sprintf("%s/%d", pathNotifications, id), nil, nil)
	return err
}
