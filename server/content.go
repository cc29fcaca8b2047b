package server

import (
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type workRow struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ImgURL         string    `json:"img_url"`
	OtherImageURLs []string  `json:"other_image_urls"`
	CategoryID     int64     `json:"category_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LikedByUser    bool      `json:"liked_by_user"`
}

type categoryRow struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type serviceRow struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImgURL      string    `json:"img_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// saveUpload copies one uploaded file into the upload directory under a
// random name and returns its public URL.
func (s *Server) saveUpload(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(fh.Filename)
	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/static/" + name, nil
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func (s *Server) scanWorks(rows *sql.Rows, viewer int64) ([]workRow, error) {
	defer rows.Close()

	var works []workRow
	for rows.Next() {
		var w workRow
		var other string
		var category sql.NullInt64
		if err := rows.Scan(&w.ID, &w.Title, &w.Description, &w.ImgURL, &other, &category, &w.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(other), &w.OtherImageURLs)
		w.CategoryID = category.Int64
		works = append(works, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if viewer != 0 {
		for i := range works {
			works[i].LikedByUser = s.workLiked(viewer, works[i].ID)
		}
	}
	return works, nil
}

func (s *Server) workLiked(userID, workID int64) bool {
	var n int
	_ = s.db.QueryRow(
		`SELECT COUNT(*) FROM likes WHERE user_id = ? AND work_id = ?`,
		userID, workID).Scan(&n)
	return n > 0
}

const workColumns = `id, title, description, img_url, other_image_urls, category_id, created_at`

// handleWorks returns one page of the portfolio, newest first.
func (s *Server) handleWorks(c echo.Context) error {
	skip, limit := page(c, 12)

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM works`).Scan(&total); err != nil {
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	rows, err := s.db.Query(`
		SELECT `+workColumns+` FROM works
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		limit, skip)
	if err != nil {
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	works, err := s.scanWorks(rows, viewerID(c))
	if err != nil {
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	if works == nil {
		works = []workRow{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":       works,
		"total_count": total,
	})
}

func (s *Server) handleWork(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid work id")
	}

	rows, err := s.db.Query(`SELECT `+workColumns+` FROM works WHERE id = ?`, id)
	if err != nil {
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	works, err := s.scanWorks(rows, viewerID(c))
	if err != nil || len(works) == 0 {
		return detail(c, http.StatusNotFound, "Work not found")
	}
	return c.JSON(http.StatusOK, works[0])
}

// handleCreateWork creates a work from a multipart form: text fields plus
// the primary image and any extra images.
func (s *Server) handleCreateWork(c echo.Context) error {
	title := c.FormValue("title")
	if title == "" {
		return detail(c, http.StatusBadRequest, "Title required")
	}
	description := c.FormValue("description")

	var categoryID sql.NullInt64
	if v := c.FormValue("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return detail(c, http.StatusBadRequest, "Invalid category id")
		}
		var n int
		_ = s.db.QueryRow(`SELECT COUNT(*) FROM categories WHERE id = ?`, id).Scan(&n)
		if n == 0 {
			return detail(c, http.StatusNotFound, "Category not found")
		}
		categoryID = sql.NullInt64{Int64: id, Valid: true}
	}

	imgURL, otherURLs, err := s.collectImages(c)
	if err != nil {
		c.Logger().Error("upload error:", err)
		return detail(c, http.StatusInternalServerError, "Failed to store image")
	}
	if imgURL == "" {
		return detail(c, http.StatusBadRequest, "Image required")
	}

	other, _ := json.Marshal(otherURLs)
	res, err := s.db.Exec(`
		INSERT INTO works (title, description, img_url, other_image_urls, category_id)
		VALUES (?, ?, ?, ?, ?)`,
		title, description, imgURL, string(other), categoryID)
	if err != nil {
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	id, _ := res.LastInsertId()
	return s.respondWork(c, http.StatusCreated, id)
}

// handleUpdateWork updates fields that were supplied; absent images keep
// the stored ones.
func (s *Server) handleUpdateWork(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid work id")
	}

	rows, err := s.db.Query(`SELECT `+workColumns+` FROM works WHERE id = ?`, id)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	works, err := s.scanWorks(rows, 0)
	if err != nil || len(works) == 0 {
		return detail(c, http.StatusNotFound, "Work not found")
	}
	w := works[0]

	if v := c.FormValue("title"); v != "" {
		w.Title = v
	}
	if v := c.FormValue("description"); v != "" {
		w.Description = v
	}
	categoryID := sql.NullInt64{Int64: w.CategoryID, Valid: w.CategoryID != 0}
	if v := c.FormValue("category_id"); v != "" {
		cid, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return detail(c, http.StatusBadRequest, "Invalid category id")
		}
		categoryID = sql.NullInt64{Int64: cid, Valid: true}
	}

	imgURL, otherURLs, err := s.collectImages(c)
	if err != nil {
		c.Logger().Error("upload error:", err)
		return detail(c, http.StatusInternalServerError, "Failed to store image")
	}
	if imgURL != "" {
		w.ImgURL = imgURL
	}
	if len(otherURLs) > 0 {
		w.OtherImageURLs = otherURLs
	}

	other, _ := json.Marshal(w.OtherImageURLs)
	if _, err := s.db.Exec(`
		UPDATE works SET title = ?, description = ?, img_url = ?, other_image_urls = ?, category_id = ?
		WHERE id = ?`,
		w.Title, w.Description, w.ImgURL, string(other), categoryID, id); err != nil {
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	return s.respondWork(c, http.StatusOK, id)
}

func (s *Server) handleDeleteWork(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid work id")
	}

	res, err := s.db.Exec(`DELETE FROM works WHERE id = ?`, id)
	if err != nil {
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return detail(c, http.StatusNotFound, "Work not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// collectImages stores the "image" part and every "other_images" part.
func (s *Server) collectImages(c echo.Context) (imgURL string, otherURLs []string, err error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body at all; treat as no images.
		return "", nil, nil
	}

	if files := form.File["image"]; len(files) > 0 {
		imgURL, err = s.saveUpload(files[0])
		if err != nil {
			return "", nil, err
		}
	}
	for _, fh := range form.File["other_images"] {
		u, err := s.saveUpload(fh)
		if err != nil {
			return "", nil, err
		}
		otherURLs = append(otherURLs, u)
	}
	return imgURL, otherURLs, nil
}

func (s *Server) respondWork(c echo.Context, status int, id int64) error {
	rows, err := s.db.Query(`SELECT `+workColumns+` FROM works WHERE id = ?`, id)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	works, err := s.scanWorks(rows, viewerID(c))
	if err != nil || len(works) == 0 {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(status, works[0])
}

func (s *Server) handleCategories(c echo.Context) error {
	rows, err := s.db.Query(`SELECT id, title FROM categories ORDER BY title`)
	if err != nil {
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	defer rows.Close()

	categories := []categoryRow{}
	for rows.Next() {
		var cat categoryRow
		if err := rows.Scan(&cat.ID, &cat.Title); err != nil {
			return detail(c, http.StatusInternalServerError, "Internal server error")
		}
		categories = append(categories, cat)
	}
	return c.JSON(http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(c echo.Context) error {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return detail(c, http.StatusBadRequest, "Title required")
	}

	res, err := s.db.Exec(`INSERT INTO categories (title) VALUES (?)`, req.Title)
	if err != nil {
		return detail(c, http.StatusConflict, "Category already exists")
	}
	id, _ := res.LastInsertId()
	return c.JSON(http.StatusCreated, categoryRow{ID: id, Title: req.Title})
}

// handleHome returns the latest works grouped by category for the landing
// page.
func (s *Server) handleHome(c echo.Context) error {
	rows, err := s.db.Query(`
		SELECT c.title, w.id, w.title, w.description, w.img_url, w.other_image_urls, w.category_id, w.created_at
		FROM works w JOIN categories c ON c.id = w.category_id
		ORDER BY w.created_at DESC, w.id DESC`)
	if err != nil {
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	defer rows.Close()

	viewer := viewerID(c)
	const perCategory = 4

	grouped := map[string][]workRow{}
	for rows.Next() {
		var category string
		var w workRow
		var other string
		var categoryID sql.NullInt64
		if err := rows.Scan(&category, &w.ID, &w.Title, &w.Description, &w.ImgURL, &other, &categoryID, &w.CreatedAt); err != nil {
			return detail(c, http.StatusInternalServerError, "Internal server error")
		}
		if len(grouped[category]) >= perCategory {
			continue
		}
		_ = json.Unmarshal([]byte(other), &w.OtherImageURLs)
		w.CategoryID = categoryID.Int64
		if viewer != 0 {
			w.LikedByUser = s.workLiked(viewer, w.ID)
		}
		grouped[category] = append(grouped[category], w)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"works_by_category": grouped,
	})
}

func (s *Server) handleServices(c echo.Context) error {
	skip, limit := page(c, 12)

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM services`).Scan(&total); err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	rows, err := s.db.Query(`
		SELECT id, title, description, img_url, created_at FROM services
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		limit, skip)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	defer rows.Close()

	services := []serviceRow{}
	for rows.Next() {
		var sv serviceRow
		if err := rows.Scan(&sv.ID, &sv.Title, &sv.Description, &sv.ImgURL, &sv.CreatedAt); err != nil {
			return detail(c, http.StatusInternalServerError, "Internal server error")
		}
		services = append(services, sv)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":       services,
		"total_count": total,
	})
}

func (s *Server) handleService(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid service id")
	}

	var sv serviceRow
	err = s.db.QueryRow(
		`SELECT id, title, description, img_url, created_at FROM services WHERE id = ?`, id,
	).Scan(&sv.ID, &sv.Title, &sv.Description, &sv.ImgURL, &sv.CreatedAt)
	if err != nil {
		return detail(c, http.StatusNotFound, "Service not found")
	}
	return c.JSON(http.StatusOK, sv)
}

func (s *Server) handleCreateService(c echo.Context) error {
	title := c.FormValue("title")
	if title == "" {
		return detail(c, http.StatusBadRequest, "Title required")
	}

	imgURL, _, err := s.collectImages(c)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Failed to store image")
	}

	res, err := s.db.Exec(`
		INSERT INTO services (title, description, img_url)
		VALUES (?, ?, ?)`,
		title, c.FormValue("description"), imgURL)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	id, _ := res.LastInsertId()
	var sv serviceRow
	_ = s.db.QueryRow(
		`SELECT id, title, description, img_url, created_at FROM services WHERE id = ?`, id,
	).Scan(&sv.ID, &sv.Title, &sv.Description, &sv.ImgURL, &sv.CreatedAt)
	return c.JSON(http.StatusCreated, sv)
}

func (s *Server) handleUpdateService(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid service id")
	}

	var sv serviceRow
	err = s.db.QueryRow(
		`SELECT id, title, description, img_url, created_at FROM services WHERE id = ?`, id,
	).Scan(&sv.ID, &sv.Title, &sv.Description, &sv.ImgURL, &sv.CreatedAt)
	if err != nil {
		return detail(c, http.StatusNotFound, "Service not found")
	}

	if v := c.FormValue("title"); v != "" {
		sv.Title = v
	}
	if v := c.FormValue("description"); v != "" {
		sv.Description = v
	}
	imgURL, _, err := s.collectImages(c)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Failed to store image")
	}
	if imgURL != "" {
		sv.ImgURL = imgURL
	}

	if _, err := s.db.Exec(`
		UPDATE services SET title = ?, description = ?, img_url = ? WHERE id = ?`,
		sv.Title, sv.Description, sv.ImgURL, id); err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, sv)
}

func (s *Server) handleDeleteService(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid service id")
	}

	res, err := s.db.Exec(`DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return detail(c, http.StatusNotFound, "Service not found")
	}
	return c.NoContent(http.StatusNoContent)
}
