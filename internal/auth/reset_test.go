package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordResetFlow(t *testing.T) {
	var forgotBody, resetBody map[string]string
	client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/forgot-password":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&forgotBody))
		case "/api/reset-password":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&resetBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{}`))
	})
	defer done()

	flow := NewPasswordReset(client, sess)
	require.NoError(t, flow.RequestOTP(context.Background(), "ada@example.com"))
	require.Equal(t, ResetOTPSent, flow.Phase())
	require.Equal(t, "ada@example.com", forgotBody["email"])

	require.NoError(t, flow.Submit(context.Background(), "123456", "newpass99", "newpass99"))
	require.Equal(t, ResetSuccess, flow.Phase())

	// The redeem reuses the address from the request phase.
	require.Equal(t, "ada@example.com", resetBody["email"])
	require.Equal(t, "123456", resetBody["otp"])
	require.Equal(t, "newpass99", resetBody["new_password"])
	require.False(t, sess.LoggedIn(), "reset never establishes a session")
}

func TestResetMismatchedConfirmSkipsNetwork(t *testing.T) {
	var calls int32
	client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/reset-password" {
			atomic.AddInt32(&calls, 1)
		}
		_, _ = w.Write([]byte(`{}`))
	})
	defer done()

	flow := NewPasswordReset(client, sess)
	require.NoError(t, flow.RequestOTP(context.Background(), "ada@example.com"))

	err := flow.Submit(context.Background(), "123456", "one", "two")
	require.ErrorIs(t, err, ErrPasswordMismatch)
	require.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestResetBadOTP(t *testing.T) {
	client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/forgot-password" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		writeDetail(w, http.StatusBadRequest, "Invalid OTP")
	})
	defer done()

	flow := NewPasswordReset(client, sess)
	require.NoError(t, flow.RequestOTP(context.Background(), "ada@example.com"))

	require.Error(t, flow.Submit(context.Background(), "000000", "newpass99", "newpass99"))
	require.Equal(t, ResetFailure, flow.Phase())
	require.Equal(t, "Invalid OTP", flow.Message())
}
