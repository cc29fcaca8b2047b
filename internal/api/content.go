package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/DekunleJr/Signatures/internal/model"
)

// Works fetches one page of the portfolio. liked_by_user in the items is
// relative to the current session.
func (c *Client) Works(ctx context.Context, skip, limit int) (model.WorkPage, error) {
	var out model.WorkPage
	err := c.getJSON(ctx, "/api/portfolio", pageQuery(skip, limit), &out)
	return out, err
}

// Work fetches a single portfolio entry.
func (c *Client) Work(ctx context.Context, id int64) (model.Work, error) {
	var out model.Work
	err := c.getJSON(ctx, fmt.Sprintf("/api/portfolio/%d", id), nil, &out)
	return out, err
}

// WorkInput is the editable portion of a work.
type WorkInput struct {
	Title       string
	Description string
	CategoryID  int64
}

func (in WorkInput) fields() map[string]string {
	f := map[string]string{
		"title":       in.Title,
		"description": in.Description,
	}
	if in.CategoryID != 0 {
		f["category_id"] = fmt.Sprintf("%d", in.CategoryID)
	}
	return f
}

// CreateWork creates a work from a multipart form: fields plus the primary
// image and any extra images.
func (c *Client) CreateWork(ctx context.Context, in WorkInput, image *FileUpload, extras []FileUpload) (model.Work, error) {
	files := map[string][]FileUpload{}
	if image != nil {
		files["image"] = []FileUpload{*image}
	}
	if len(extras) > 0 {
		files["other_images"] = extras
	}

	var out model.Work
	err := c.submitForm(ctx, http.MethodPost, "/api/portfolio", in.fields(), files, &out)
	return out, err
}

// UpdateWork updates a work; a nil image leaves the stored one alone.
func (c *Client) UpdateWork(ctx context.Context, id int64, in WorkInput, image *FileUpload, extras []FileUpload) (model.Work, error) {
	files := map[string][]FileUpload{}
	if image != nil {
		files["image"] = []FileUpload{*image}
	}
	if len(extras) > 0 {
		files["other_images"] = extras
	}

	var out model.Work
	err := c.submitForm(ctx, http.MethodPut, fmt.Sprintf("/api/portfolio/%d", id), in.fields(), files, &out)
	return out, err
}

// DeleteWork removes a work.
func (c *Client) DeleteWork(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/portfolio/%d", id))
}

// Categories lists the portfolio categories.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := c.getJSON(ctx, "/api/portfolio/categories", nil, &out)
	return out, err
}

// CreateCategory adds a portfolio category.
func (c *Client) CreateCategory(ctx context.Context, title string) (model.Category, error) {
	var out model.Category
	err := c.postJSON(ctx, "/api/portfolio/categories", map[string]string{"title": title}, &out)
	return out, err
}

// Home fetches the latest works grouped by category for the landing page.
func (c *Client) Home(ctx context.Context) (map[string][]model.Work, error) {
	var out struct {
		WorksByCategory map[string][]model.Work `json:"works_by_category"`
	}
	err := c.getJSON(ctx, "/api/home", nil, &out)
	return out.WorksByCategory, err
}

// Services fetches one page of the services listing.
func (c *Client) Services(ctx context.Context, skip, limit int) (model.ServicePage, error) {
	var out model.ServicePage
	err := c.getJSON(ctx, "/api/services", pageQuery(skip, limit), &out)
	return out, err
}

// Service fetches a single service.
func (c *Client) Service(ctx context.Context, id int64) (model.Service, error) {
	var out model.Service
	err := c.getJSON(ctx, fmt.Sprintf("/api/services/%d", id), nil, &out)
	return out, err
}

// ServiceInput is the editable portion of a service.
type ServiceInput struct {
	Title       string
	Description string
}

func (in ServiceInput) fields() map[string]string {
	return map[string]string{
		"title":       in.Title,
		"description": in.Description,
	}
}

// CreateService creates a service from a multipart form.
func (c *Client) CreateService(ctx context.Context, in ServiceInput, image *FileUpload) (model.Service, error) {
	files := map[string][]FileUpload{}
	if image != nil {
		files["image"] = []FileUpload{*image}
	}

	var out model.Service
	err := c.submitForm(ctx, http.MethodPost, "/api/services", in.fields(), files, &out)
	return out, err
}

// UpdateService updates a service; a nil image leaves the stored one alone.
func (c *Client) UpdateService(ctx context.Context, id int64, in ServiceInput, image *FileUpload) (model.Service, error) {
	files := map[string][]FileUpload{}
	if image != nil {
		files["image"] = []FileUpload{*image}
	}

	var out model.Service
	err := c.submitForm(ctx, http.MethodPut, fmt.Sprintf("/api/services/%d", id), in.fields(), files, &out)
	return out, err
}

// DeleteService removes a service.
func (c *Client) DeleteService(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/services/%d", id))
}
