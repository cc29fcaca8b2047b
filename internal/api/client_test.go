package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DekunleJr/Signatures/internal/model"
	"github.com/DekunleJr/Signatures/internal/session"
)

func newTestSession(t *testing.T) (*session.Session, *session.Store) {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	return session.New(store), store
}

func TestClientAttachesBearerToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(model.WorkPage{})
	}))
	defer srv.Close()

	sess, _ := newTestSession(t)
	sess.Login("tok-abc", model.User{Email: "ada@example.com"})
	client := New(srv.URL, sess, nil)

	_, err := client.Works(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-abc", auth)
}

func TestClientOmitsHeaderWhenLoggedOut(t *testing.T) {
	var auth string
	var hasHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, hasHeader = r.Header["Authorization"]
		_ = json.NewEncoder(w).Encode(model.WorkPage{})
	}))
	defer srv.Close()

	sess, _ := newTestSession(t)
	client := New(srv.URL, sess, nil)

	_, err := client.Works(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Empty(t, auth)
	require.False(t, hasHeader)
}

func TestUnauthorizedClearsSessionThenNavigates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail": "Could not validate credentials"}`)
	}))
	defer srv.Close()

	sess, store := newTestSession(t)
	sess.Login("expired", model.User{Email: "ada@example.com"})

	var hookCalls int32
	var loggedOutAtHook bool
	var storeEmptyAtHook bool
	client := New(srv.URL, sess, func() {
		atomic.AddInt32(&hookCalls, 1)
		loggedOutAtHook = !sess.LoggedIn()
		_, _, ok := store.Load()
		storeEmptyAtHook = !ok
	})

	_, err := client.Works(context.Background(), 0, 10)
	require.Error(t, err)
	require.Equal(t, KindAuth, KindOf(err))
	require.Equal(t, "Could not validate credentials", DetailOf(err))

	require.Equal(t, int32(1), atomic.LoadInt32(&hookCalls))
	require.True(t, loggedOutAtHook, "session must be cleared before the hook runs")
	require.True(t, storeEmptyAtHook, "store must be cleared before the hook runs")
	require.False(t, sess.LoggedIn())
}

func TestUnauthorizedWithNilHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess, _ := newTestSession(t)
	sess.Login("expired", model.User{Email: "ada@example.com"})
	client := New(srv.URL, sess, nil)

	_, err := client.Works(context.Background(), 0, 10)
	require.Error(t, err)
	require.False(t, sess.LoggedIn())
}

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		status int
		kind   Kind
	}{
		{http.StatusBadRequest, KindValidation},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusUnauthorized, KindAuth},
		{http.StatusForbidden, KindStateConflict},
		{http.StatusNotFound, KindStateConflict},
		{http.StatusConflict, KindStateConflict},
		{http.StatusInternalServerError, KindServer},
		{http.StatusBadGateway, KindServer},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d", tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, `{"detail": "nope"}`)
			}))
			defer srv.Close()

			sess, _ := newTestSession(t)
			client := New(srv.URL, sess, nil)

			_, err := client.Works(context.Background(), 0, 10)
			require.Error(t, err)
			require.Equal(t, tc.kind, KindOf(err))
			require.Equal(t, "nope", DetailOf(err))
		})
	}
}

func TestErrorDecodeFallsBackToRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream timed out")
	}))
	defer srv.Close()

	sess, _ := newTestSession(t)
	client := New(srv.URL, sess, nil)

	_, err := client.Works(context.Background(), 0, 10)
	require.Error(t, err)
	require.Equal(t, "upstream timed out", DetailOf(err))
}

func TestTransportFailureIsServerKind(t *testing.T) {
	sess, _ := newTestSession(t)
	// Nothing listens here.
	client := New("http://127.0.0.1:1", sess, nil)

	_, err := client.Works(context.Background(), 0, 10)
	require.Error(t, err)
	require.Equal(t, KindServer, KindOf(err))
	require.Empty(t, DetailOf(err))
}

func TestLoginSendsFormEncodedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		require.Equal(t, "ada@example.com", r.PostForm.Get("username"))
		require.Equal(t, "hunter2", r.PostForm.Get("password"))

		_ = json.NewEncoder(w).Encode(TokenResponse{
			AccessToken: "tok-1",
			TokenType:   "bearer",
			Email:       "ada@example.com",
			FirstName:   "Ada",
		})
	}))
	defer srv.Close()

	sess, _ := newTestSession(t)
	client := New(srv.URL, sess, nil)

	resp, err := client.Login(context.Background(), "ada@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "tok-1", resp.AccessToken)
	require.Equal(t, "Ada", resp.Profile().FirstName)
}

func TestPaginationQuery(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(model.WorkPage{TotalCount: 40})
	}))
	defer srv.Close()

	sess, _ := newTestSession(t)
	client := New(srv.URL, sess, nil)

	page, err := client.Works(context.Background(), 24, 12)
	require.NoError(t, err)
	require.Equal(t, 40, page.TotalCount)
	require.Equal(t, "limit=12&skip=24", query)
}

func TestNoContentResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/portfolio/3", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sess, _ := newTestSession(t)
	sess.Login("tok", model.User{Email: "admin@example.com", IsAdmin: true})
	client := New(srv.URL, sess, nil)

	require.NoError(t, client.DeleteWork(context.Background(), 3))
}

func TestSubmitFormSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		require.Equal(t, "Logo suite", r.FormValue("title"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "cover.png", header.Filename)

		_ = json.NewEncoder(w).Encode(model.Work{ID: 10, Title: "Logo suite"})
	}))
	defer srv.Close()

	sess, _ := newTestSession(t)
	sess.Login("tok", model.User{Email: "admin@example.com", IsAdmin: true})
	client := New(srv.URL, sess, nil)

	work, err := client.CreateWork(context.Background(),
		WorkInput{Title: "Logo suite", Description: "Brand refresh", CategoryID: 1},
		&FileUpload{Filename: "cover.png", Reader: strings.NewReader("png-bytes")},
		nil)
	require.NoError(t, err)
	require.Equal(t, int64(10), work.ID)
}
