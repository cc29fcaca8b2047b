package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DekunleJr/Signatures/internal/api"
	"github.com/DekunleJr/Signatures/internal/logger"
	"github.com/DekunleJr/Signatures/internal/session"
)

// GoogleState is the federated login flow's position.
type GoogleState int

const (
	GoogleIdle GoogleState = iota
	GoogleExchanging
	GoogleSuccess
	GoogleFailure
)

// GoogleClaims are the identity fields decoded from a Google ID token.
// They are decoded without signature verification and used only for
// display and as profile fallbacks; the backend re-validates the token
// before issuing a session.
type GoogleClaims struct {
	Email       string
	GivenName   string
	FamilyName  string
	PhoneNumber string
}

// DecodeGoogleClaims parses the ID token's claims locally. A token that
// does not parse yields empty claims, not an error: the exchange still
// proceeds and the server side decides.
func DecodeGoogleClaims(idToken string) GoogleClaims {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		logger.Warn("failed to decode google id token", logger.F("error", err))
		return GoogleClaims{}
	}

	str := func(key string) string {
		if v, ok := claims[key].(string); ok {
			return v
		}
		return ""
	}
	return GoogleClaims{
		Email:       str("email"),
		GivenName:   str("given_name"),
		FamilyName:  str("family_name"),
		PhoneNumber: str("phone_number"),
	}
}

// GoogleLogin exchanges a Google credential for a backend session.
type GoogleLogin struct {
	client  *api.Client
	session *session.Session

	state   GoogleState
	message string
}

// NewGoogleLogin creates an idle federated login flow.
func NewGoogleLogin(client *api.Client, sess *session.Session) *GoogleLogin {
	return &GoogleLogin{client: client, session: sess}
}

// State returns the flow's current state.
func (f *GoogleLogin) State() GoogleState { return f.state }

// Message returns the user-facing text for the last outcome.
func (f *GoogleLogin) Message() string { return f.message }

// Exchange sends the federated credential to the signup-or-login endpoint.
// First-time users are provisioned implicitly; the session that results is
// entirely backend-issued.
func (f *GoogleLogin) Exchange(ctx context.Context, idToken string) error {
	f.state = GoogleExchanging
	f.message = ""

	decoded := DecodeGoogleClaims(idToken)
	req := api.GoogleSignupRequest{
		Email:         decoded.Email,
		FirstName:     decoded.GivenName,
		LastName:      decoded.FamilyName,
		PhoneNumber:   decoded.PhoneNumber,
		GoogleIDToken: idToken,
	}

	gen := f.session.Begin()
	resp, err := f.client.GoogleSignupLogin(ctx, req)
	if err != nil {
		f.state = GoogleFailure
		if detail := api.DetailOf(err); detail != "" {
			f.message = detail
		} else {
			f.message = "An error occurred during Google login. Please try again later."
		}
		logger.Warn("google exchange failed", logger.F("error", err))
		return err
	}

	if !f.session.Complete(gen, resp.AccessToken, resp.Profile()) {
		f.state = GoogleFailure
		f.message = "Session changed during login, please try again."
		return nil
	}

	f.state = GoogleSuccess
	f.session.Notifier().Success("Logged in", "Welcome, "+resp.FirstName)
	return nil
}
