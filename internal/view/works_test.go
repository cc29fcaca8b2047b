package view

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
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

func workPage(works []model.Work, total int) model.WorkPage {
	return model.WorkPage{Items: works, TotalCount: total}
}

func TestWorkListingFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/portfolio", r.URL.Path)
		require.Equal(t, "0", r.URL.Query().Get("skip"))
		require.Equal(t, "2", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(workPage([]model.Work{
			{ID: 1, Title: "Logo suite"},
			{ID: 2, Title: "Wedding set"},
		}, 5))
	}))
	defer srv.Close()

	sess := newTestSession(t)
	client := api.New(srv.URL, sess, nil)
	listing := NewWorkListing(client, sess, 2)

	require.False(t, listing.Loaded())
	require.NoError(t, listing.Fetch(context.Background()))
	require.True(t, listing.Loaded())
	require.Len(t, listing.Items(), 2)
	require.Equal(t, 5, listing.TotalCount())
	require.Equal(t, 3, listing.TotalPages())
}

func TestWorkListingDiscardsStaleResponse(t *testing.T) {
	var calls int32
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(firstArrived)
			<-releaseFirst
			_ = json.NewEncoder(w).Encode(workPage([]model.Work{{ID: 1, Title: "old"}}, 1))
			return
		}
		_ = json.NewEncoder(w).Encode(workPage([]model.Work{{ID: 2, Title: "new"}}, 1))
	}))
	defer srv.Close()

	sess := newTestSession(t)
	client := api.New(srv.URL, sess, nil)
	listing := NewWorkListing(client, sess, 10)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- listing.Fetch(context.Background())
	}()
	<-firstArrived

	// Second fetch starts while the first is stalled in flight and wins.
	require.NoError(t, listing.Fetch(context.Background()))
	close(releaseFirst)
	require.NoError(t, <-firstDone)

	items := listing.Items()
	require.Len(t, items, 1)
	require.Equal(t, "new", items[0].Title)
}

func TestWorkListingResetsPageWhenViewerChanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(workPage([]model.Work{{ID: 1}}, 30))
	}))
	defer srv.Close()

	sess := newTestSession(t)
	client := api.New(srv.URL, sess, nil)
	listing := NewWorkListing(client, sess, 10)

	require.NoError(t, listing.Fetch(context.Background()))
	require.True(t, listing.SetPage(3))
	require.NoError(t, listing.Fetch(context.Background()))
	require.Equal(t, 3, listing.Page())

	// Logging in changes whose likes the server reports, so the cursor
	// goes back to the first page on the next fetch.
	sess.Login("tok", model.User{Email: "ada@example.com"})
	require.NoError(t, listing.Fetch(context.Background()))
	require.Equal(t, 1, listing.Page())
}

func TestToggleLikeRequiresLogin(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/portfolio" {
			_ = json.NewEncoder(w).Encode(workPage([]model.Work{{ID: 7}}, 1))
			return
		}
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	sess := newTestSession(t)
	client := api.New(srv.URL, sess, nil)
	listing := NewWorkListing(client, sess, 10)
	require.NoError(t, listing.Fetch(context.Background()))

	require.NoError(t, listing.ToggleLike(context.Background(), 7))
	require.Equal(t, int32(0), atomic.LoadInt32(&calls))
	require.False(t, listing.Items()[0].LikedByUser)
}

func TestToggleLikeFlipsBeforeRequest(t *testing.T) {
	likeArrived := make(chan struct{})
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/portfolio":
			_ = json.NewEncoder(w).Encode(workPage([]model.Work{{ID: 7}}, 1))
		case r.URL.Path == "/api/like/7" && r.Method == http.MethodPost:
			close(likeArrived)
			<-release
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	sess := newTestSession(t)
	sess.Login("tok", model.User{Email: "ada@example.com"})
	client := api.New(srv.URL, sess, nil)
	listing := NewWorkListing(client, sess, 10)
	require.NoError(t, listing.Fetch(context.Background()))

	done := make(chan error, 1)
	go func() {
		done <- listing.ToggleLike(context.Background(), 7)
	}()
	<-likeArrived

	// The request is still in flight and the flag has already flipped.
	require.True(t, listing.Items()[0].LikedByUser)
	close(release)
	require.NoError(t, <-done)
	require.True(t, listing.Items()[0].LikedByUser)
}

func TestToggleLikeKeepsFlipOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/portfolio" {
			_ = json.NewEncoder(w).Encode(workPage([]model.Work{{ID: 7, LikedByUser: true}}, 1))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"detail": "storage outage"}`)
	}))
	defer srv.Close()

	sess := newTestSession(t)
	sess.Login("tok", model.User{Email: "ada@example.com"})
	client := api.New(srv.URL, sess, nil)
	listing := NewWorkListing(client, sess, 10)
	require.NoError(t, listing.Fetch(context.Background()))
	require.True(t, listing.Items()[0].LikedByUser)

	err := listing.ToggleLike(context.Background(), 7)
	require.Error(t, err)
	require.Equal(t, api.KindServer, api.KindOf(err))

	// No rollback: the local flag keeps its optimistic value and the user
	// is told through a notification instead.
	require.False(t, listing.Items()[0].LikedByUser)
	latest := sess.Notifier().Latest()
	require.NotNil(t, latest)
	require.Equal(t, session.SeverityError, latest.Severity)
}

func TestToggleLikeUnknownWorkIsNoOp(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/portfolio" {
			_ = json.NewEncoder(w).Encode(workPage(nil, 0))
			return
		}
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	sess := newTestSession(t)
	sess.Login("tok", model.User{Email: "ada@example.com"})
	client := api.New(srv.URL, sess, nil)
	listing := NewWorkListing(client, sess, 10)
	require.NoError(t, listing.Fetch(context.Background()))

	require.NoError(t, listing.ToggleLike(context.Background(), 99))
	require.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestUserListingFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin", r.URL.Path)
		_ = json.NewEncoder(w).Encode(model.UserPage{
			Items:      []model.User{{ID: 1, Email: "ada@example.com"}},
			TotalCount: 1,
		})
	}))
	defer srv.Close()

	sess := newTestSession(t)
	sess.Login("tok", model.User{Email: "admin@example.com", IsAdmin: true})
	client := api.New(srv.URL, sess, nil)
	listing := NewUserListing(client, sess, 10)

	require.NoError(t, listing.Fetch(context.Background()))
	require.True(t, listing.Loaded())
	require.Len(t, listing.Items(), 1)
	require.Equal(t, 1, listing.TotalPages())
}
