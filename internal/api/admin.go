package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/DekunleJr/Signatures/internal/model"
)

// Users fetches one page of the admin user list.
func (c *Client) Users(ctx context.Context, skip, limit int) (model.UserPage, error) {
	var out model.UserPage
	err := c.getJSON(ctx, "/api/admin", pageQuery(skip, limit), &out)
	return out, err
}

// AdminUser fetches one user by id.
func (c *Client) AdminUser(ctx context.Context, id int64) (model.User, error) {
	var out model.User
	err := c.getJSON(ctx, fmt.Sprintf("/api/admin/%d", id), nil, &out)
	return out, err
}

// UpdateUser updates another user's profile fields (admin only). Fields not
// present are left unchanged; the backend takes them form-encoded.
func (c *Client) UpdateUser(ctx context.Context, id int64, fields map[string]string) (model.User, error) {
	var out model.User
	err := c.submitForm(ctx, http.MethodPut, fmt.Sprintf("/api/admin/%d", id), fields, nil, &out)
	return out, err
}

// BlockUnblockUser toggles a user between active and blocked.
func (c *Client) BlockUnblockUser(ctx context.Context, id int64) (model.User, error) {
	var out model.User
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/admin/%d/block-unblock", id), nil, nil, "", &out)
	return out, err
}

// BroadcastEmail sends an email to every registered user.
func (c *Client) BroadcastEmail(ctx context.Context, subject, body string) error {
	payload := map[string]string{
		"subject": subject,
		"body":    body,
	}
	return c.postJSON(ctx, "/api/admin/broadcast-email", payload, nil)
}
