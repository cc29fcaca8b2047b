// Package server is a development backend for the Signatures client: the
// full API surface on an embedded SQLite database, with emails printed to
// the log instead of sent.
package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "modernc.org/sqlite"

	"github.com/DekunleJr/Signatures/internal/logger"
)

// Server is the development API server
type Server struct {
	db        *sql.DB
	echo      *echo.Echo
	uploadDir string
}

// New creates a server backed by the SQLite database at dbPath. Uploaded
// images land in uploadDir and are served back under /static.
func New(dbPath, uploadDir string) (*Server, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Server{
		db:        db,
		uploadDir: uploadDir,
	}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s.setupEcho()

	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	// Request/response logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()
			logger.Info("HTTP",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("duration", time.Since(start).String()))

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// Uploaded images
	e.Static("/static", s.uploadDir)

	// Auth endpoints (public)
	e.POST("/login", s.handleLogin)
	e.POST("/signup", s.handleSignup)
	e.POST("/google-signup-login", s.handleGoogleSignupLogin)
	e.GET("/verify-email", s.handleVerifyEmail)
	e.POST("/resend-verification", s.handleResendVerification)

	api := e.Group("/api")
	api.POST("/forgot-password", s.handleForgotPassword)
	api.POST("/reset-password", s.handleResetPassword)
	api.POST("/contact", s.handleContact)

	// Public browsing; likes in the payload are viewer-relative, so the
	// token is read when present.
	api.GET("/home", s.handleHome, s.optionalAuth)
	api.GET("/portfolio", s.handleWorks, s.optionalAuth)
	api.GET("/portfolio/categories", s.handleCategories)
	api.GET("/portfolio/:id", s.handleWork, s.optionalAuth)
	api.GET("/services", s.handleServices)
	api.GET("/services/:id", s.handleService)

	// Logged-in users
	protected := api.Group("", s.requireAuth)
	protected.PUT("/profile", s.handleUpdateProfile)
	protected.GET("/dashboard", s.handleDashboard)
	protected.POST("/like/:id", s.handleLike)
	protected.DELETE("/like/:id", s.handleUnlike)
	protected.GET("/like/:id", s.handleWorkLiked)
	protected.POST("/order/:id", s.handleOrder)

	// Administrators
	admin := api.Group("/admin", s.requireAuth, s.requireAdmin)
	admin.GET("", s.handleAdminUsers)
	admin.GET("/:id", s.handleAdminUser)
	admin.PUT("/:id", s.handleAdminUpdateUser)
	admin.POST("/:id/block-unblock", s.handleBlockUnblock)
	admin.POST("/broadcast-email", s.handleBroadcastEmail)

	adminContent := api.Group("", s.requireAuth, s.requireAdmin)
	adminContent.POST("/portfolio", s.handleCreateWork)
	adminContent.PUT("/portfolio/:id", s.handleUpdateWork)
	adminContent.DELETE("/portfolio/:id", s.handleDeleteWork)
	adminContent.POST("/portfolio/categories", s.handleCreateCategory)
	adminContent.POST("/services", s.handleCreateService)
	adminContent.PUT("/services/:id", s.handleUpdateService)
	adminContent.DELETE("/services/:id", s.handleDeleteService)

	s.echo = e
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.db.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// detail writes the error body shape the client decodes.
func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

// page parses skip/limit query params with sane bounds.
func page(c echo.Context, defaultLimit int) (skip, limit int) {
	skip = atoiDefault(c.QueryParam("skip"), 0)
	limit = atoiDefault(c.QueryParam("limit"), defaultLimit)
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return skip, limit
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return def
	}
	return n
}
