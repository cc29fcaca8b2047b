package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleAdminUsers returns one page of registered users.
func (s *Server) handleAdminUsers(c echo.Context) error {
	skip, limit := page(c, 20)

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	rows, err := s.db.Query(`
		SELECT `+userColumns+` FROM users
		ORDER BY id
		LIMIT ? OFFSET ?`,
		limit, skip)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	defer rows.Close()

	users := []userRow{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return detail(c, http.StatusInternalServerError, "Internal server error")
		}
		users = append(users, u)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":       users,
		"total_count": total,
	})
}

func (s *Server) handleAdminUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid user id")
	}

	u, err := s.userByID(id)
	if err != nil {
		return detail(c, http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, u)
}

// handleAdminUpdateUser edits another user's profile from form fields.
func (s *Server) handleAdminUpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid user id")
	}

	u, err := s.userByID(id)
	if err != nil {
		return detail(c, http.StatusNotFound, "User not found")
	}

	if v := c.FormValue("first_name"); v != "" {
		u.FirstName = v
	}
	if v := c.FormValue("last_name"); v != "" {
		u.LastName = v
	}
	if v := c.FormValue("phone_number"); v != "" {
		u.PhoneNumber = v
	}

	if _, err := s.db.Exec(`
		UPDATE users SET first_name = ?, last_name = ?, phone_number = ? WHERE id = ?`,
		u.FirstName, u.LastName, u.PhoneNumber, u.ID); err != nil {
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, u)
}

// handleBlockUnblock toggles a user between active and blocked. A blocked
// user's sessions are revoked so the block takes effect immediately.
func (s *Server) handleBlockUnblock(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid user id")
	}

	u, err := s.userByID(id)
	if err != nil {
		return detail(c, http.StatusNotFound, "User not found")
	}
	if u.ID == viewerID(c) {
		return detail(c, http.StatusConflict, "Cannot block yourself")
	}

	switch u.Status {
	case "blocked":
		u.Status = "active"
	case "active":
		u.Status = "blocked"
	default:
		return detail(c, http.StatusConflict, "User is pending verification")
	}

	if _, err := s.db.Exec(`UPDATE users SET status = ? WHERE id = ?`, u.Status, u.ID); err != nil {
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	if u.Status == "blocked" {
		_, _ = s.db.Exec(`DELETE FROM sessions WHERE user_id = ?`, u.ID)
	}

	c.Logger().Infof("User %s is now %s", u.Email, u.Status)
	return c.JSON(http.StatusOK, u)
}

// handleBroadcastEmail sends a message to every registered user.
func (s *Server) handleBroadcastEmail(c echo.Context) error {
	var req struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request")
	}
	if req.Subject == "" || req.Body == "" {
		return detail(c, http.StatusBadRequest, "Subject and body required")
	}

	rows, err := s.db.Query(`SELECT email FROM users WHERE status = 'active'`)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	defer rows.Close()

	sent := 0
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			continue
		}
		s.sendEmail(email, req.Subject, req.Body)
		sent++
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Broadcast sent",
		"sent":    sent,
	})
}
