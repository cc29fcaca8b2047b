package server

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/DekunleJr/Signatures/internal/logger"
)

type signupRequest struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsAdmin     bool   `json:"is_admin"`
	Status      string `json:"status"`
}

type userRow struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	IsAdmin     bool   `json:"is_admin"`
	Status      string `json:"status"`

	passwordHash string
}

const userColumns = `id, email, first_name, last_name, phone_number, is_admin, status, password_hash`

func scanUser(row interface{ Scan(...interface{}) error }) (userRow, error) {
	var u userRow
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.IsAdmin, &u.Status, &u.passwordHash)
	return u, err
}

func (s *Server) userByEmail(email string) (userRow, error) {
	return scanUser(s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (s *Server) userByID(id int64) (userRow, error) {
	return scanUser(s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func randomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// createSession creates a new session for a user
func (s *Server) createSession(userID int64) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}

	// Session expires in 30 days
	expiresAt := time.Now().Add(30 * 24 * time.Hour)

	_, err = s.db.Exec(`
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES (?, ?, ?)`,
		userID, token, expiresAt,
	)
	return token, err
}

func (s *Server) sessionResponse(c echo.Context, u userRow) error {
	token, err := s.createSession(u.ID)
	if err != nil {
		c.Logger().Error("session error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsAdmin:     u.IsAdmin,
		Status:      u.Status,
	})
}

// sendEmail stands in for an SMTP integration: the message goes to the log
// so the flows can be exercised end to end.
func (s *Server) sendEmail(to, subject, body string) {
	logger.Info("outgoing email",
		logger.F("to", to),
		logger.F("subject", subject),
		logger.F("body", body))
}

// handleLogin exchanges form credentials for a session. Refusals carry a
// 403, not a 401: a failed login is not an expired session and must not
// trip the client's global unauthorized policy.
func (s *Server) handleLogin(c echo.Context) error {
	email := c.FormValue("username")
	password := c.FormValue("password")
	if email == "" || password == "" {
		return detail(c, http.StatusBadRequest, "Username and password required")
	}

	u, err := s.userByEmail(email)
	if err != nil {
		return detail(c, http.StatusForbidden, "Incorrect email or password")
	}

	switch u.Status {
	case "pending_verification":
		return detail(c, http.StatusForbidden, "Account pending verification. Please verify your email.")
	case "blocked":
		return detail(c, http.StatusForbidden, "This account has been blocked.")
	}

	if bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) != nil {
		return detail(c, http.StatusForbidden, "Incorrect email or password")
	}

	c.Logger().Infof("User logged in: %s", email)
	return s.sessionResponse(c, u)
}

// handleSignup registers a pending account and emails a verification link.
func (s *Server) handleSignup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request")
	}
	if req.Email == "" || req.Password == "" {
		return detail(c, http.StatusBadRequest, "Email and password required")
	}
	if len(req.Password) < 8 {
		return detail(c, http.StatusBadRequest, "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.Logger().Error("bcrypt error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	verifyToken, err := randomToken()
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	_, err = s.db.Exec(`
		INSERT INTO users (email, first_name, last_name, phone_number, password_hash, status, verify_token)
		VALUES (?, ?, ?, ?, ?, 'pending_verification', ?)`,
		req.Email, req.FirstName, req.LastName, req.PhoneNumber, string(hash), verifyToken,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return detail(c, http.StatusConflict, "Email already registered")
		}
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	s.sendEmail(req.Email, "Verify your account",
		"Your verification token: "+verifyToken)

	return c.JSON(http.StatusCreated, map[string]string{
		"message": "Signup successful. Check your email to verify your account.",
	})
}

// handleVerifyEmail redeems a verification token, activates the account,
// and logs the user in.
func (s *Server) handleVerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return detail(c, http.StatusBadRequest, "Verification token required")
	}

	var id int64
	err := s.db.QueryRow(
		`SELECT id FROM users WHERE verify_token = ? AND status = 'pending_verification'`,
		token,
	).Scan(&id)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid or expired verification token")
	}

	if _, err := s.db.Exec(
		`UPDATE users SET status = 'active', verify_token = '' WHERE id = ?`, id); err != nil {
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	u, err := s.userByID(id)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	return s.sessionResponse(c, u)
}

// handleResendVerification re-issues the verification token. The response
// never reveals whether the address is registered.
func (s *Server) handleResendVerification(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return detail(c, http.StatusBadRequest, "Email required")
	}

	u, err := s.userByEmail(req.Email)
	if err == nil && u.Status == "pending_verification" {
		token, err := randomToken()
		if err == nil {
			_, _ = s.db.Exec(`UPDATE users SET verify_token = ? WHERE id = ?`, token, u.ID)
			s.sendEmail(u.Email, "Verify your account", "Your verification token: "+token)
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "If the email is registered, a verification link has been sent.",
	})
}

// handleForgotPassword emails a one-time code for password reset.
func (s *Server) handleForgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return detail(c, http.StatusBadRequest, "Email required")
	}

	if _, err := s.userByEmail(req.Email); err == nil {
		otp, err := randomOTP()
		if err == nil {
			expiresAt := time.Now().Add(15 * time.Minute)
			_, _ = s.db.Exec(`
				INSERT INTO password_otps (email, otp, expires_at)
				VALUES (?, ?, ?)`,
				req.Email, otp, expiresAt)
			s.sendEmail(req.Email, "Password reset code", "Your OTP: "+otp)
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "If the email is registered, an OTP has been sent.",
	})
}

// handleResetPassword redeems an OTP for a new password.
func (s *Server) handleResetPassword(c echo.Context) error {
	var req struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request")
	}
	if req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		return detail(c, http.StatusBadRequest, "Email, OTP, and new password required")
	}
	if len(req.NewPassword) < 8 {
		return detail(c, http.StatusBadRequest, "Password must be at least 8 characters")
	}

	var id int64
	var expiresAt time.Time
	err := s.db.QueryRow(`
		SELECT id, expires_at FROM password_otps
		WHERE email = ? AND otp = ? AND used = 0
		ORDER BY id DESC LIMIT 1`,
		req.Email, req.OTP,
	).Scan(&id, &expiresAt)
	if err != nil || time.Now().After(expiresAt) {
		return detail(c, http.StatusBadRequest, "Invalid OTP")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	if _, err := s.db.Exec(
		`UPDATE users SET password_hash = ? WHERE email = ?`, string(hash), req.Email); err != nil {
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}
	_, _ = s.db.Exec(`UPDATE password_otps SET used = 1 WHERE id = ?`, id)

	return c.JSON(http.StatusOK, map[string]string{"message": "Password has been reset."})
}

type googleSignupRequest struct {
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	PhoneNumber   string `json:"phone_number"`
	GoogleIDToken string `json:"google_id_token"`
}

// handleGoogleSignupLogin provisions or logs in a federated user. The dev
// server trusts the claims in the request body; the production backend
// verifies the ID token with Google before using them.
func (s *Server) handleGoogleSignupLogin(c echo.Context) error {
	var req googleSignupRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request")
	}
	if req.GoogleIDToken == "" || req.Email == "" {
		return detail(c, http.StatusUnauthorized, "Invalid Google token")
	}

	u, err := s.userByEmail(req.Email)
	if err == sql.ErrNoRows {
		// First federated login provisions an active account.
		res, err := s.db.Exec(`
			INSERT INTO users (email, first_name, last_name, phone_number, status)
			VALUES (?, ?, ?, ?, 'active')`,
			req.Email, req.FirstName, req.LastName, req.PhoneNumber)
		if err != nil {
			c.Logger().Error("db error:", err)
			return detail(c, http.StatusInternalServerError, "Internal server error")
		}
		id, _ := res.LastInsertId()
		u, err = s.userByID(id)
		if err != nil {
			return detail(c, http.StatusInternalServerError, "Internal server error")
		}
	} else if err != nil {
		c.Logger().Error("db error:", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	if u.Status == "blocked" {
		return detail(c, http.StatusForbidden, "This account has been blocked.")
	}
	// A federated login proves the mailbox, so a pending account activates.
	if u.Status == "pending_verification" {
		_, _ = s.db.Exec(`UPDATE users SET status = 'active', verify_token = '' WHERE id = ?`, u.ID)
		u.Status = "active"
	}

	c.Logger().Infof("Google login: %s", u.Email)
	return s.sessionResponse(c, u)
}

// handleUpdateProfile updates the caller's own profile from form fields.
// Absent fields keep their stored values.
func (s *Server) handleUpdateProfile(c echo.Context) error {
	u, err := s.userByID(viewerID(c))
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
