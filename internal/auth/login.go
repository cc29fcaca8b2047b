// Package auth contains the client-side authentication flows: short-lived
// state machines that call the backend and, on success, populate the
// session. Every flow ends in a populated session or a surfaced failure
// with the session untouched.
package auth

import (
	"context"
	"strings"

	"github.com/DekunleJr/Signatures/internal/api"
	"github.com/DekunleJr/Signatures/internal/logger"
	"github.com/DekunleJr/Signatures/internal/session"
)

// LoginState is the password login flow's position.
type LoginState int

const (
	LoginIdle LoginState = iota
	LoginSubmitting
	LoginSuccess
	LoginFailure
)

// FailureReason distinguishes why a login was refused. Each reason has its
// own UI branch; they are never collapsed into one generic message.
type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonInvalidCredentials
	ReasonPendingVerification
	ReasonBlocked
	ReasonUnavailable
)

// PasswordLogin exchanges (email, password) for a session.
type PasswordLogin struct {
	client  *api.Client
	session *session.Session

	state   LoginState
	reason  FailureReason
	message string
}

// NewPasswordLogin creates an idle login flow.
func NewPasswordLogin(client *api.Client, sess *session.Session) *PasswordLogin {
	return &PasswordLogin{client: client, session: sess}
}

// State returns the flow's current state.
func (f *PasswordLogin) State() LoginState { return f.state }

// Reason returns why the last attempt failed, or ReasonNone.
func (f *PasswordLogin) Reason() FailureReason { return f.reason }

// Message returns the user-facing text for the last outcome.
func (f *PasswordLogin) Message() string { return f.message }

// Submit runs one login attempt. The session generation is captured before
// the network call so a logout racing this attempt wins.
func (f *PasswordLogin) Submit(ctx context.Context, email, password string) error {
	f.state = LoginSubmitting
	f.reason = ReasonNone
	f.message = ""

	gen := f.session.Begin()
	resp, err := f.client.Login(ctx, email, password)
	if err != nil {
		f.fail(err)
		return err
	}

	if !f.session.Complete(gen, resp.AccessToken, resp.Profile()) {
		f.state = LoginFailure
		f.reason = ReasonUnavailable
		f.message = "Session changed during login, please try again."
		return nil
	}

	f.state = LoginSuccess
	f.session.Notifier().Success("Logged in", "Welcome back, "+resp.FirstName)
	logger.Info("login succeeded", logger.F("email", email))
	return nil
}

func (f *PasswordLogin) fail(err error) {
	f.state = LoginFailure
	f.reason = ReasonOf(err)
	switch f.reason {
	case ReasonPendingVerification:
		f.message = "Your account is pending verification. Check your email or resend the link."
	case ReasonBlocked:
		f.message = "This account has been blocked. Contact support for help."
	case ReasonInvalidCredentials:
		f.message = "Login failed. Please check your credentials."
	default:
		f.message = "An error occurred during login. Please try again later."
	}
	logger.Warn("login failed", logger.F("reason", int(f.reason)), logger.F("error", err))
}

// ResendVerification re-triggers the verification email. Offered only when
// the last failure was ReasonPendingVerification.
func (f *PasswordLogin) ResendVerification(ctx context.Context, email string) error {
	if err := f.client.ResendVerification(ctx, email); err != nil {
		f.session.Notifier().Error("Resend failed", "Could not resend the verification email.")
		return err
	}
	f.session.Notifier().Info("Verification sent", "A new verification email is on its way.")
	return nil
}

// ReasonOf maps a decoded backend failure onto a login refusal reason. The
// transport already collapsed the wire shape into a tagged error; only the
// pending/blocked split still needs the server-supplied reason text.
func ReasonOf(err error) FailureReason {
	switch api.KindOf(err) {
	case api.KindServer:
		return ReasonUnavailable
	case api.KindAuth, api.KindStateConflict, api.KindValidation:
		detail := strings.ToLower(api.DetailOf(err))
		switch {
		case strings.Contains(detail, "pending verification"):
			return ReasonPendingVerification
		case strings.Contains(detail, "blocked"):
			return ReasonBlocked
		default:
			return ReasonInvalidCredentials
		}
	default:
		return ReasonUnavailable
	}
}
