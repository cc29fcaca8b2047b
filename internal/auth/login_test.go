package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DekunleJr/Signatures/internal/api"
	"github.com/DekunleJr/Signatures/internal/model"
	"github.com/DekunleJr/Signatures/internal/session"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	return session.New(store)
}

func authServer(t *testing.T, handler http.HandlerFunc) (*api.Client, *session.Session, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	sess := newTestSession(t)
	return api.New(srv.URL, sess, nil), sess, srv.Close
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"detail": %q}`, detail)
}

func TestLoginSuccessPopulatesSession(t *testing.T) {
	client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.TokenResponse{
			AccessToken: "tok-1",
			Email:       "ada@example.com",
			FirstName:   "Ada",
			Status:      model.StatusActive,
		})
	})
	defer done()

	flow := NewPasswordLogin(client, sess)
	require.NoError(t, flow.Submit(context.Background(), "ada@example.com", "hunter2"))

	require.Equal(t, LoginSuccess, flow.State())
	require.True(t, sess.LoggedIn())
	require.Equal(t, "tok-1", sess.Token())
	require.Equal(t, "Ada", sess.User().FirstName)
}

func TestLoginFailureReasons(t *testing.T) {
	cases := []struct {
		name   string
		status int
		detail string
		reason FailureReason
	}{
		{"pending verification", http.StatusForbidden, "Account pending verification. Please verify your email.", ReasonPendingVerification},
		{"blocked", http.StatusForbidden, "This account has been blocked.", ReasonBlocked},
		{"wrong password", http.StatusForbidden, "Incorrect email or password", ReasonInvalidCredentials},
		{"server fault", http.StatusInternalServerError, "database unavailable", ReasonUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeDetail(w, tc.status, tc.detail)
			})
			defer done()

			flow := NewPasswordLogin(client, sess)
			err := flow.Submit(context.Background(), "ada@example.com", "bad")
			require.Error(t, err)

			require.Equal(t, LoginFailure, flow.State())
			require.Equal(t, tc.reason, flow.Reason())
			require.NotEmpty(t, flow.Message())
			require.False(t, sess.LoggedIn())
		})
	}
}

func TestLoginReasonMessagesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, detail := range []string{
		"Account pending verification. Please verify your email.",
		"This account has been blocked.",
		"Incorrect email or password",
	} {
		client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeDetail(w, http.StatusForbidden, detail)
		})
		flow := NewPasswordLogin(client, sess)
		_ = flow.Submit(context.Background(), "ada@example.com", "bad")
		require.False(t, seen[flow.Message()], "message %q reused", flow.Message())
		seen[flow.Message()] = true
		done()
	}
}

func TestLoginUnreachableBackend(t *testing.T) {
	sess := newTestSession(t)
	client := api.New("http://127.0.0.1:1", sess, nil)

	flow := NewPasswordLogin(client, sess)
	err := flow.Submit(context.Background(), "ada@example.com", "hunter2")
	require.Error(t, err)
	require.Equal(t, ReasonUnavailable, flow.Reason())
	require.False(t, sess.LoggedIn())
}

func TestStaleLoginDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_ = json.NewEncoder(w).Encode(api.TokenResponse{AccessToken: "late", Email: "ada@example.com"})
	})
	defer done()

	flow := NewPasswordLogin(client, sess)
	result := make(chan error, 1)
	go func() {
		result <- flow.Submit(context.Background(), "ada@example.com", "hunter2")
	}()

	// The user logs out (or a 401 forces it) while the login is in flight.
	<-started
	sess.Login("interim", model.User{Email: "ada@example.com"})
	sess.Logout()
	close(release)

	require.NoError(t, <-result)
	require.Equal(t, LoginFailure, flow.State())
	require.False(t, sess.LoggedIn(), "stale login must not resurrect the session")
}

func TestResendVerification(t *testing.T) {
	var path string
	client, sess, done := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{}`)
	})
	defer done()

	flow := NewPasswordLogin(client, sess)
	require.NoError(t, flow.ResendVerification(context.Background(), "ada@example.com"))
	require.Equal(t, "/resend-verification", path)
	require.Equal(t, session.SeverityInfo, sess.Notifier().Latest().Severity)
}

func TestReasonOfMatchesDetailText(t *testing.T) {
	mk := func(status int, detail string) error {
		return &api.Error{Status: status, Kind: api.KindStateConflict, Detail: detail}
	}

	require.Equal(t, ReasonPendingVerification, ReasonOf(mk(403, "Account PENDING VERIFICATION")))
	require.Equal(t, ReasonBlocked, ReasonOf(mk(403, "user is Blocked")))
	require.Equal(t, ReasonInvalidCredentials, ReasonOf(mk(403, "Incorrect email or password")))
	require.Equal(t, ReasonUnavailable, ReasonOf(fmt.Errorf("connection refused")))
}
