package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/DekunleJr/Signatures/internal/api"
	"github.com/DekunleJr/Signatures/internal/logger"
	"github.com/DekunleJr/Signatures/internal/session"
)

// VerifyState is the email verification flow's position.
type VerifyState int

const (
	VerifyPending VerifyState = iota
	VerifySuccess
	VerifyFailure
)

// ErrMissingToken is returned when the inbound link carried no token. No
// network call is made in that case.
var ErrMissingToken = errors.New("no verification token found")

// EmailVerification redeems the token from an inbound verification link.
// Run submits at most once per flow instance, even if the caller's trigger
// fires again.
type EmailVerification struct {
	client  *api.Client
	session *session.Session

	mu      sync.Mutex
	started bool
	state   VerifyState
	message string
}

// NewEmailVerification creates a pending verification flow.
func NewEmailVerification(client *api.Client, sess *session.Session) *EmailVerification {
	return &EmailVerification{client: client, session: sess}
}

// State returns the flow's current state.
func (f *EmailVerification) State() VerifyState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Message returns the user-facing text for the last outcome.
func (f *EmailVerification) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Run redeems the token. A second call on the same instance is a no-op, so
// a re-fired trigger cannot submit the token twice. Success establishes a
// session; the caller schedules the delayed redirect.
func (f *EmailVerification) Run(ctx context.Context, token string) error {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return nil
	}
	f.started = true

	if token == "" {
		f.state = VerifyFailure
		f.message = "No verification token found."
		f.mu.Unlock()
		return ErrMissingToken
	}
	f.mu.Unlock()

	gen := f.session.Begin()
	resp, err := f.client.VerifyEmail(ctx, token)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.state = VerifyFailure
		if detail := api.DetailOf(err); detail != "" {
			f.message = detail
		} else {
			f.message = "Account verification failed. Please try again or request a new link."
		}
		logger.Warn("email verification failed", logger.F("error", err))
		return err
	}

	if !f.session.Complete(gen, resp.AccessToken, resp.Profile()) {
		f.state = VerifyFailure
		f.message = "Session changed during verification, please log in."
		return nil
	}

	f.state = VerifySuccess
	f.message = "Your account has been verified! You are now logged in."
	f.session.Notifier().Success("Email verified", "Welcome, "+resp.FirstName)
	return nil
}
