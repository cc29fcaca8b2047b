package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// lookupToken resolves a bearer token to a user id and admin flag. Returns
// ok=false for unknown or expired tokens.
func (s *Server) lookupToken(token string) (userID int64, isAdmin bool, ok bool) {
	var expiresAt time.Time
	err := s.db.QueryRow(`
		SELECT s.user_id, s.expires_at, u.is_admin
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.token = ?`,
		token,
	).Scan(&userID, &expiresAt, &isAdmin)
	if err != nil {
		return 0, false, false
	}
	if time.Now().After(expiresAt) {
		return 0, false, false
	}
	return userID, isAdmin, true
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")
	if token == auth {
		return ""
	}
	return token
}

// requireAuth checks for a valid session token
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return detail(c, http.StatusUnauthorized, "Not authenticated")
		}

		userID, isAdmin, ok := s.lookupToken(token)
		if !ok {
			return detail(c, http.StatusUnauthorized, "Could not validate credentials")
		}

		c.Set("user_id", userID)
		c.Set("is_admin", isAdmin)
		return next(c)
	}
}

// optionalAuth resolves the token when present so liked_by_user can be
// filled in, but lets anonymous requests through.
func (s *Server) optionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token := bearerToken(c); token != "" {
			if userID, isAdmin, ok := s.lookupToken(token); ok {
				c.Set("user_id", userID)
				c.Set("is_admin", isAdmin)
			}
		}
		return next(c)
	}
}

// requireAdmin gates the admin surface. Runs after requireAuth.
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if isAdmin, ok := c.Get("is_admin").(bool); !ok || !isAdmin {
			return detail(c, http.StatusForbidden, "Not authorized")
		}
		return next(c)
	}
}

// viewerID returns the authenticated user id, or 0 for anonymous.
func viewerID(c echo.Context) int64 {
	if id, ok := c.Get("user_id").(int64); ok {
		return id
	}
	return 0
}
