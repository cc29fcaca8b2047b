package server

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DekunleJr/Signatures/internal/api"
	"github.com/DekunleJr/Signatures/internal/auth"
	"github.com/DekunleJr/Signatures/internal/session"
)

type testEnv struct {
	srv     *Server
	client  *api.Client
	session *session.Session
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	srv, err := New(filepath.Join(dir, "dev.db"), filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	sess := session.New(session.NewStore(filepath.Join(dir, "session.json")))
	return &testEnv{
		srv:     srv,
		client:  api.New(ts.URL, sess, nil),
		session: sess,
	}
}

func (e *testEnv) signup(t *testing.T, email string) {
	t.Helper()
	require.NoError(t, e.client.Signup(context.Background(), api.SignupRequest{
		Email:       email,
		FirstName:   "Test",
		LastName:    "User",
		PhoneNumber: "08012345678",
		Password:    "hunter2hunter2",
	}))
}

func (e *testEnv) verifyToken(t *testing.T, email string) string {
	t.Helper()
	var token string
	require.NoError(t, e.srv.db.QueryRow(
		`SELECT verify_token FROM users WHERE email = ?`, email).Scan(&token))
	return token
}

func (e *testEnv) loginVerified(t *testing.T, email string) {
	t.Helper()
	e.signup(t, email)
	resp, err := e.client.VerifyEmail(context.Background(), e.verifyToken(t, email))
	require.NoError(t, err)
	e.session.Login(resp.AccessToken, resp.Profile())
}

func (e *testEnv) promoteAdmin(t *testing.T, email string) {
	t.Helper()
	_, err := e.srv.db.Exec(`UPDATE users SET is_admin = 1 WHERE email = ?`, email)
	require.NoError(t, err)
}

func TestSignupVerifyLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.signup(t, "ada@example.com")

	// Unverified accounts cannot log in, and the refusal names the reason.
	_, err := env.client.Login(ctx, "ada@example.com", "hunter2hunter2")
	require.Error(t, err)
	require.Equal(t, auth.ReasonPendingVerification, auth.ReasonOf(err))

	// Redeeming the emailed token activates the account and logs in.
	resp, err := env.client.VerifyEmail(ctx, env.verifyToken(t, "ada@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "ada@example.com", resp.Email)

	// A second redeem of the same token fails.
	_, err = env.client.VerifyEmail(ctx, env.verifyToken(t, "ada@example.com"))
	require.Error(t, err)

	// Password login now works.
	resp, err = env.client.Login(ctx, "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.Equal(t, "bearer", resp.TokenType)
}

func TestLoginRefusals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.loginVerified(t, "ada@example.com")
	env.session.Logout()

	_, err := env.client.Login(ctx, "ada@example.com", "wrong-password")
	require.Error(t, err)
	require.Equal(t, auth.ReasonInvalidCredentials, auth.ReasonOf(err))

	_, err = env.client.Login(ctx, "nobody@example.com", "whatever")
	require.Error(t, err)
	require.Equal(t, auth.ReasonInvalidCredentials, auth.ReasonOf(err))

	_, err = env.srv.db.Exec(`UPDATE users SET status = 'blocked' WHERE email = 'ada@example.com'`)
	require.NoError(t, err)
	_, err = env.client.Login(ctx, "ada@example.com", "hunter2hunter2")
	require.Error(t, err)
	require.Equal(t, auth.ReasonBlocked, auth.ReasonOf(err))
}

func TestDuplicateSignup(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "ada@example.com")

	err := env.client.Signup(context.Background(), api.SignupRequest{
		Email:    "ada@example.com",
		Password: "hunter2hunter2",
	})
	require.Error(t, err)
	require.Equal(t, api.KindStateConflict, api.KindOf(err))
}

func TestPasswordResetRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.loginVerified(t, "ada@example.com")
	env.session.Logout()

	require.NoError(t, env.client.ForgotPassword(ctx, "ada@example.com"))

	var otp string
	require.NoError(t, env.srv.db.QueryRow(
		`SELECT otp FROM password_otps WHERE email = 'ada@example.com' ORDER BY id DESC LIMIT 1`).Scan(&otp))

	require.Error(t, env.client.ResetPassword(ctx, "ada@example.com", "000000", "newpass9999"))
	require.NoError(t, env.client.ResetPassword(ctx, "ada@example.com", otp, "newpass9999"))

	// The OTP is single use.
	require.Error(t, env.client.ResetPassword(ctx, "ada@example.com", otp, "anotherpass9"))

	_, err := env.client.Login(ctx, "ada@example.com", "hunter2hunter2")
	require.Error(t, err)
	_, err = env.client.Login(ctx, "ada@example.com", "newpass9999")
	require.NoError(t, err)
}

func TestGoogleSignupLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.client.GoogleSignupLogin(ctx, api.GoogleSignupRequest{
		Email:         "fed@example.com",
		FirstName:     "Fed",
		GoogleIDToken: "dev-token",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "Fed", resp.FirstName)

	// Second exchange logs into the same account instead of provisioning.
	again, err := env.client.GoogleSignupLogin(ctx, api.GoogleSignupRequest{
		Email:         "fed@example.com",
		GoogleIDToken: "dev-token",
	})
	require.NoError(t, err)
	require.Equal(t, resp.Email, again.Email)

	var count int
	require.NoError(t, env.srv.db.QueryRow(
		`SELECT COUNT(*) FROM users WHERE email = 'fed@example.com'`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestPortfolioLifecycleAndLikes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.loginVerified(t, "admin@example.com")
	env.promoteAdmin(t, "admin@example.com")

	cat, err := env.client.CreateCategory(ctx, "Calligraphy")
	require.NoError(t, err)

	work, err := env.client.CreateWork(ctx,
		api.WorkInput{Title: "Wedding set", Description: "Gold ink", CategoryID: cat.ID},
		&api.FileUpload{Filename: "cover.png", Reader: strings.NewReader("png-bytes")},
		[]api.FileUpload{{Filename: "detail.png", Reader: strings.NewReader("more-bytes")}})
	require.NoError(t, err)
	require.NotZero(t, work.ID)
	require.True(t, strings.HasPrefix(work.ImgURL, "/static/"))
	require.Len(t, work.OtherImageURLs, 1)

	// Like it, see it reflected, and fail on the duplicate.
	require.NoError(t, env.client.LikeWork(ctx, work.ID))
	liked, err := env.client.WorkLiked(ctx, work.ID)
	require.NoError(t, err)
	require.True(t, liked)

	err = env.client.LikeWork(ctx, work.ID)
	require.Error(t, err)
	require.Equal(t, api.KindStateConflict, api.KindOf(err))

	pageData, err := env.client.Works(ctx, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 1, pageData.TotalCount)
	require.True(t, pageData.Items[0].LikedByUser)

	dash, err := env.client.DashboardData(ctx)
	require.NoError(t, err)
	require.Len(t, dash.LikedWorks, 1)

	require.NoError(t, env.client.UnlikeWork(ctx, work.ID))
	liked, err = env.client.WorkLiked(ctx, work.ID)
	require.NoError(t, err)
	require.False(t, liked)

	// Home groups by category title.
	home, err := env.client.Home(ctx)
	require.NoError(t, err)
	require.Len(t, home["Calligraphy"], 1)

	require.NoError(t, env.client.DeleteWork(ctx, work.ID))
	_, err = env.client.Work(ctx, work.ID)
	require.Error(t, err)
	require.Equal(t, api.KindStateConflict, api.KindOf(err))
}

func TestAdminSurfaceRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.loginVerified(t, "plain@example.com")

	_, err := env.client.Users(ctx, 0, 10)
	require.Error(t, err)
	require.Equal(t, api.KindStateConflict, api.KindOf(err))

	_, err = env.client.CreateCategory(ctx, "Nope")
	require.Error(t, err)
}

func TestBlockUnblock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.loginVerified(t, "victim@example.com")

	var id int64
	require.NoError(t, env.srv.db.QueryRow(
		`SELECT id FROM users WHERE email = 'victim@example.com'`).Scan(&id))

	env.session.Logout()
	env.loginVerified(t, "admin@example.com")
	env.promoteAdmin(t, "admin@example.com")

	blocked, err := env.client.BlockUnblockUser(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "blocked", string(blocked.Status))

	_, err = env.client.Login(ctx, "victim@example.com", "hunter2hunter2")
	require.Error(t, err)
	require.Equal(t, auth.ReasonBlocked, auth.ReasonOf(err))

	active, err := env.client.BlockUnblockUser(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "active", string(active.Status))
}

func TestExpiredTokenTriggersLogoutPolicy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.loginVerified(t, "ada@example.com")

	// Revoke every session server-side; the next call comes back 401.
	_, err := env.srv.db.Exec(`DELETE FROM sessions`)
	require.NoError(t, err)

	_, err = env.client.DashboardData(ctx)
	require.Error(t, err)
	require.Equal(t, api.KindAuth, api.KindOf(err))
	require.False(t, env.session.LoggedIn(), "401 must clear the session")
}

func TestContactWithoutAuth(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.client.Contact(context.Background(),
		"Visitor", "visitor@example.com", "I love the lettering work."))

	var count int
	require.NoError(t, env.srv.db.QueryRow(
		`SELECT COUNT(*) FROM contact_messages`).Scan(&count))
	require.Equal(t, 1, count)
}
