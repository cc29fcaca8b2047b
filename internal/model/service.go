package model

import "time"

// Service is an offered service shown on the services page.
type Service struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImgURL      string    `json:"img_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// ServicePage is one page of the services listing.
type ServicePage struct {
	Items      []Service `json:"items"`
	TotalCount int       `json:"total_count"`
}
