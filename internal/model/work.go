package model

import "time"

// Work is a portfolio entry. LikedByUser is relative to the requesting
// session, not part of the canonical record.
type Work struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ImgURL         string    `json:"img_url"`
	OtherImageURLs []string  `json:"other_image_urls,omitempty"`
	CategoryID     int64     `json:"category_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LikedByUser    bool      `json:"liked_by_user"`
}

// Category groups works on the portfolio and home pages.
type Category struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// WorkPage is one page of the portfolio listing.
type WorkPage struct {
	Items      []Work `json:"items"`
	TotalCount int    `json:"total_count"`
}

// Dashboard is the per-viewer summary: the profile plus liked works.
type Dashboard struct {
	User
	LikedWorks []Work `json:"liked_works"`
}
