package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/DekunleJr/Signatures/internal/model"
)

// LikeWork records the viewer's like on a work.
func (c *Client) LikeWork(ctx context.Context, workID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/like/%d", workID), nil, nil, "", nil)
}

// UnlikeWork removes the viewer's like from a work.
func (c *Client) UnlikeWork(ctx context.Context, workID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/like/%d", workID))
}

// WorkLiked reports whether the viewer has liked the work.
func (c *Client) WorkLiked(ctx context.Context, workID int64) (bool, error) {
	var out struct {
		Liked bool `json:"liked"`
	}
	err := c.getJSON(ctx, fmt.Sprintf("/api/like/%d", workID), nil, &out)
	return out.Liked, err
}

// OrderWork submits an order request for a work.
func (c *Client) OrderWork(ctx context.Context, workID int64, message string) error {
	body := map[string]string{"message": message}
	return c.postJSON(ctx, fmt.Sprintf("/api/order/%d", workID), body, nil)
}

// DashboardData fetches the viewer's dashboard: profile plus liked works.
func (c *Client) DashboardData(ctx context.Context) (model.Dashboard, error) {
	var out model.Dashboard
	err := c.getJSON(ctx, "/api/dashboard", nil, &out)
	return out, err
}

// Contact submits a contact-form message. Works unauthenticated.
func (c *Client) Contact(ctx context.Context, name, email, message string) error {
	body := map[string]string{
		"name":    name,
		"email":   email,
		"message": message,
	}
	return c.postJSON(ctx, "/api/contact", body, nil)
}
