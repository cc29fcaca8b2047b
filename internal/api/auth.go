package api

import (
	"context"
	"net/url"

	"github.com/DekunleJr/Signatures/internal/model"
)

// TokenResponse is the backend's answer to any operation that establishes a
// session: login, Google exchange, and email verification.
type TokenResponse struct {
	AccessToken string              `json:"access_token"`
	TokenType   string              `json:"token_type"`
	Email       string              `json:"email"`
	FirstName   string              `json:"first_name"`
	LastName    string              `json:"last_name"`
	IsAdmin     bool                `json:"is_admin"`
	Status      model.AccountStatus `json:"status"`
}

// Profile builds the session profile projection from the token response.
func (t TokenResponse) Profile() model.User {
	return model.User{
		Email:     t.Email,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		IsAdmin:   t.IsAdmin,
		Status:    t.Status,
	}
}

// Login exchanges credentials for a token and profile. The endpoint speaks
// the password-grant form convention: the email travels as "username".
func (c *Client) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var out TokenResponse
	err := c.postURLEncoded(ctx, "/login", form, &out)
	return out, err
}

// SignupRequest is the payload for account creation.
type SignupRequest struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// Signup creates an account. The account starts pending verification; no
// session is established here.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	return c.postJSON(ctx, "/signup", req, nil)
}

// GoogleSignupRequest carries the federated credential plus the profile
// fields decoded from it, used server-side as a fallback when Google omits
// them from its own verification.
type GoogleSignupRequest struct {
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	GoogleIDToken string `json:"google_id_token"`
}

// GoogleSignupLogin exchanges a Google ID token for a backend session.
// First-time federated users are provisioned implicitly.
func (c *Client) GoogleSignupLogin(ctx context.Context, req GoogleSignupRequest) (TokenResponse, error) {
	var out TokenResponse
	err := c.postJSON(ctx, "/google-signup-login", req, &out)
	return out, err
}

// VerifyEmail redeems an emailed verification token. Success returns a full
// session.
func (c *Client) VerifyEmail(ctx context.Context, token string) (TokenResponse, error) {
	q := url.Values{}
	q.Set("token", token)

	var out TokenResponse
	err := c.getJSON(ctx, "/verify-email", q, &out)
	return out, err
}

// ResendVerification asks the backend to re-send the verification email.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/resend-verification", map[string]string{"email": email}, nil)
}

// ForgotPassword requests a reset OTP for the given address.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/api/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword redeems an OTP for a new password.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	body := map[string]string{
		"email":        email,
		"otp":          otp,
		"new_password": newPassword,
	}
	return c.postJSON(ctx, "/api/reset-password", body, nil)
}

// UpdateProfile updates the logged-in user's own profile. Only the fields
// present are changed; the backend takes them form-encoded.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]string) (model.User, error) {
	var out model.User
	err := c.submitForm(ctx, "PUT", "/api/profile", fields, nil, &out)
	return out, err
}
