package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DekunleJr/Signatures/internal/api"
)

func validSignup() SignupInput {
	return SignupInput{
		Email:           "ada@example.com",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		PhoneNumber:     "+2348012345678",
		Password:        "hunter2hunter2",
		ConfirmPassword: "hunter2hunter2",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(validSignup()))

	in := validSignup()
	in.ConfirmPassword = "different"
	require.ErrorIs(t, Validate(in), ErrPasswordMismatch)

	for _, phone := range []string{"", "12345", "not-a-number", "+123", "12345678901234567890"} {
		in := validSignup()
		in.PhoneNumber = phone
		require.ErrorIs(t, Validate(in), ErrInvalidPhone, "phone %q", phone)
	}

	for _, phone := range []string{"08012345678", "+2348012345678", "123456789012345"} {
		in := validSignup()
		in.PhoneNumber = phone
		require.NoError(t, Validate(in), "phone %q", phone)
	}
}

func TestSignupValidationShortCircuitsNetwork(t *testing.T) {
	var calls int32
	client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	defer done()

	flow := NewSignup(client, sess)
	in := validSignup()
	in.ConfirmPassword = "nope"

	require.ErrorIs(t, flow.Submit(context.Background(), in), ErrPasswordMismatch)
	require.Equal(t, SignupFailure, flow.State())
	require.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestSignupSuccessEndsPendingWithoutSession(t *testing.T) {
	var got api.SignupRequest
	client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/signup", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "created"})
	})
	defer done()

	flow := NewSignup(client, sess)
	require.NoError(t, flow.Submit(context.Background(), validSignup()))

	require.Equal(t, SignupPendingVerification, flow.State())
	require.Equal(t, "ada@example.com", got.Email)
	require.False(t, sess.LoggedIn(), "signup never establishes a session")
}

func TestSignupServerRejection(t *testing.T) {
	client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusConflict, "Email already registered")
	})
	defer done()

	flow := NewSignup(client, sess)
	err := flow.Submit(context.Background(), validSignup())
	require.Error(t, err)
	require.Equal(t, SignupFailure, flow.State())
	require.Equal(t, "Email already registered", flow.Message())
}
