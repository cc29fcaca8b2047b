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

func TestVerifySuccessEstablishesSession(t *testing.T) {
	client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/verify-email", r.URL.Path)
		require.Equal(t, "tok-xyz", r.URL.Query().Get("token"))
		_ = json.NewEncoder(w).Encode(api.TokenResponse{
			AccessToken: "session-tok",
			Email:       "ada@example.com",
			FirstName:   "Ada",
		})
	})
	defer done()

	flow := NewEmailVerification(client, sess)
	require.NoError(t, flow.Run(context.Background(), "tok-xyz"))

	require.Equal(t, VerifySuccess, flow.State())
	require.True(t, sess.LoggedIn())
	require.Equal(t, "session-tok", sess.Token())
}

func TestVerifyMissingTokenSkipsNetwork(t *testing.T) {
	var calls int32
	client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	defer done()

	flow := NewEmailVerification(client, sess)
	require.ErrorIs(t, flow.Run(context.Background(), ""), ErrMissingToken)

	require.Equal(t, VerifyFailure, flow.State())
	require.Equal(t, int32(0), atomic.LoadInt32(&calls))
	require.False(t, sess.LoggedIn())
}

func TestVerifyRunsAtMostOnce(t *testing.T) {
	var calls int32
	client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_ = json.NewEncoder(w).Encode(api.TokenResponse{AccessToken: "tok", Email: "ada@example.com"})
	})
	defer done()

	flow := NewEmailVerification(client, sess)
	require.NoError(t, flow.Run(context.Background(), "tok-xyz"))
	require.NoError(t, flow.Run(context.Background(), "tok-xyz"))
	require.NoError(t, flow.Run(context.Background(), "other"))

	require.Equal(t, int32(1), atomic.LoadInt32(&calls), "token must be submitted exactly once")
}

func TestVerifyExpiredToken(t *testing.T) {
	client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusBadRequest, "Invalid or expired verification token")
	})
	defer done()

	flow := NewEmailVerification(client, sess)
	require.Error(t, flow.Run(context.Background(), "stale"))

	require.Equal(t, VerifyFailure, flow.State())
	require.Equal(t, "Invalid or expired verification token", flow.Message())
	require.False(t, sess.LoggedIn())
}
