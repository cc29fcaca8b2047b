package auth

import (
	"context"

	"github.com/DekunleJr/Signatures/internal/api"
	"github.com/DekunleJr/Signatures/internal/session"
)

// ResetPhase is the password reset flow's position. The flow is two-phase:
// request an OTP, then redeem it with a new password.
type ResetPhase int

const (
	ResetIdle ResetPhase = iota
	ResetOTPSent
	ResetSuccess
	ResetFailure
)

// PasswordReset drives the forgot-password flow. It never establishes a
// session; the user logs in with the new password afterwards.
type PasswordReset struct {
	client  *api.Client
	session *session.Session

	phase   ResetPhase
	email   string
	message string
}

// NewPasswordReset creates an idle reset flow.
func NewPasswordReset(client *api.Client, sess *session.Session) *PasswordReset {
	return &PasswordReset{client: client, session: sess}
}

// Phase returns the flow's current phase.
func (f *PasswordReset) Phase() ResetPhase { return f.phase }

// Message returns the user-facing text for the last outcome.
func (f *PasswordReset) Message() string { return f.message }

// RequestOTP asks the backend to email a one-time code.
func (f *PasswordReset) RequestOTP(ctx context.Context, email string) error {
	if err := f.client.ForgotPassword(ctx, email); err != nil {
		f.phase = ResetFailure
		f.message = "Failed to send OTP. Please check the email address and try again."
		return err
	}
	f.phase = ResetOTPSent
	f.email = email
	f.message = "OTP sent to your email address."
	return nil
}

// Submit redeems the OTP for a new password. Confirm-equality is checked
// here, before any network call.
func (f *PasswordReset) Submit(ctx context.Context, otp, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		f.message = "Passwords do not match!"
		return ErrPasswordMismatch
	}

	if err := f.client.ResetPassword(ctx, f.email, otp, newPassword); err != nil {
		f.phase = ResetFailure
		if detail := api.DetailOf(err); detail != "" {
			f.message = detail
		} else {
			f.message = "Failed to reset password. The OTP may be incorrect or expired."
		}
		return err
	}

	f.phase = ResetSuccess
	f.message = "Password has been reset! You can now log in."
	f.session.Notifier().Success("Password reset", "Log in with your new password.")
	return nil
}
