package auth

import (
	"context"
	"errors"
	"regexp"

	"github.com/DekunleJr/Signatures/internal/api"
	"github.com/DekunleJr/Signatures/internal/logger"
	"github.com/DekunleJr/Signatures/internal/session"
)

// SignupState is the signup flow's position.
type SignupState int

const (
	SignupIdle SignupState = iota
	SignupValidating
	SignupSubmitting
	SignupPendingVerification
	SignupFailure
)

// Client-side validation failures. These short-circuit before any network
// call.
var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidPhone     = errors.New("invalid phone number")
)

// 10 to 15 digits, optional leading plus.
var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// SignupInput is everything the signup form collects.
type SignupInput struct {
	Email           string
	FirstName       string
	LastName        string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
}

// Signup creates an account. Success leaves the account pending email
// verification; it never establishes a session.
type Signup struct {
	client  *api.Client
	session *session.Session

	state   SignupState
	message string
}

// NewSignup creates an idle signup flow.
func NewSignup(client *api.Client, sess *session.Session) *Signup {
	return &Signup{client: client, session: sess}
}

// State returns the flow's current state.
func (f *Signup) State() SignupState { return f.state }

// Message returns the user-facing text for the last outcome.
func (f *Signup) Message() string { return f.message }

// Validate runs the client-side checks without submitting.
func Validate(in SignupInput) error {
	if in.Password != in.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if !phonePattern.MatchString(in.PhoneNumber) {
		return ErrInvalidPhone
	}
	return nil
}

// Submit validates locally, then creates the account. On success the user
// must verify their email out of band before logging in.
func (f *Signup) Submit(ctx context.Context, in SignupInput) error {
	f.state = SignupValidating
	f.message = ""

	if err := Validate(in); err != nil {
		f.state = SignupFailure
		switch {
		case errors.Is(err, ErrPasswordMismatch):
			f.message = "Passwords do not match!"
		case errors.Is(err, ErrInvalidPhone):
			f.message = "Please enter a valid phone number (10-15 digits, optional +)."
		}
		return err
	}

	f.state = SignupSubmitting
	err := f.client.Signup(ctx, api.SignupRequest{
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		Password:    in.Password,
	})
	if err != nil {
		f.state = SignupFailure
		if detail := api.DetailOf(err); detail != "" {
			f.message = detail
		} else {
			f.message = "An error occurred during signup. Please try again later."
		}
		logger.Warn("signup failed", logger.F("email", in.Email), logger.F("error", err))
		return err
	}

	f.state = SignupPendingVerification
	f.message = "Signup successful! Check your email to verify your account."
	f.session.Notifier().Success("Account created", "Verify your email to finish signing up.")
	return nil
}
