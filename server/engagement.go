package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleLike records the viewer's like. Liking twice is a conflict, liking
// a missing work a 404; neither is a validation problem on the client side.
func (s *Server) handleLike(c echo.Context) error {
	workID, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid work id")
	}

	var n int
	_ = s.db.QueryRow(`SELECT COUNT(*) FROM works WHERE id = ?`, workID).Scan(&n)
	if n == 0 {
		return detail(c, http.StatusNotFound, "Work not found")
	}

	if _, err := s.db.Exec(
		`INSERT INTO likes (user_id, work_id) VALUES (?, ?)`,
		viewerID(c), workID); err != nil {
		return detail(c, http.StatusConflict, "Work already liked")
	}
	return c.JSON(http.StatusCreated, map[string]bool{"liked": true})
}

func (s *Server) handleUnlike(c echo.Context) error {
	workID, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid work id")
	}

	res, err := s.db.Exec(
		`DELETE FROM likes WHERE user_id = ? AND work_id = ?`,
		viewerID(c), workID)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return detail(c, http.StatusNotFound, "Like not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleWorkLiked(c echo.Context) error {
	workID, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid work id")
	}
	return c.JSON(http.StatusOK, map[string]bool{
		"liked": s.workLiked(viewerID(c), workID),
	})
}

// handleOrder records an order request and notifies the site owner.
func (s *Server) handleOrder(c echo.Context) error {
	workID, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid work id")
	}

	var title string
	if err := s.db.QueryRow(`SELECT title FROM works WHERE id = ?`, workID).Scan(&title); err != nil {
		return detail(c, http.StatusNotFound, "Work not found")
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request")
	}

	u, err := s.userByID(viewerID(c))
	if err != nil {
		return detail(c, http.StatusNotFound, "User not found")
	}

	if _, err := s.db.Exec(
		`INSERT INTO orders (user_id, work_id, message) VALUES (?, ?, ?)`,
		u.ID, workID, req.Message); err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	s.sendEmail("owner@signatures.local", "New order: "+title,
		"From "+u.Email+": "+req.Message)

	return c.JSON(http.StatusCreated, map[string]string{
		"message": "Order request received",
	})
}

// handleDashboard returns the viewer's profile together with the works
// they have liked.
func (s *Server) handleDashboard(c echo.Context) error {
	u, err := s.userByID(viewerID(c))
	if err != nil {
		return detail(c, http.StatusNotFound, "User not found")
	}

	rows, err := s.db.Query(`
		SELECT w.id, w.title, w.description, w.img_url, w.other_image_urls, w.category_id, w.created_at
		FROM works w JOIN likes l ON l.work_id = w.id
		WHERE l.user_id = ?
		ORDER BY l.created_at DESC`,
		u.ID)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	liked, err := s.scanWorks(rows, 0)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	for i := range liked {
		liked[i].LikedByUser = true
	}
	if liked == nil {
		liked = []workRow{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":           u.ID,
		"email":        u.Email,
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"phone_number": u.PhoneNumber,
		"is_admin":     u.IsAdmin,
		"status":       u.Status,
		"liked_works":  liked,
	})
}

// handleContact stores a contact-form message and forwards it by email.
// Works without authentication.
func (s *Server) handleContact(c echo.Context) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request")
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return detail(c, http.StatusBadRequest, "Name, email, and message required")
	}

	if _, err := s.db.Exec(
		`INSERT INTO contact_messages (name, email, message) VALUES (?, ?, ?)`,
		req.Name, req.Email, req.Message); err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	s.sendEmail("owner@signatures.local", "Contact form: "+req.Name, req.Message)

	return c.JSON(http.StatusCreated, map[string]string{"message": "Message received"})
}
