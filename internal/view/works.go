package view

import (
	"context"
	"sync"

	"github.com/DekunleJr/Signatures/internal/api"
	"github.com/DekunleJr/Signatures/internal/logger"
	"github.com/DekunleJr/Signatures/internal/model"
	"github.com/DekunleJr/Signatures/internal/session"
)

// WorkListing is the portfolio page's state: fetched works, the pagination
// cursor, and the optimistic like toggle. Fetches are sequence-numbered so
// a response that arrives after a newer fetch started is discarded instead
// of clobbering current state.
type WorkListing struct {
	client  *api.Client
	session *session.Session

	mu        sync.Mutex
	pager     Pager
	items     []model.Work
	seq       uint64
	viewerGen uint64
	loaded    bool
}

// NewWorkListing creates an empty listing with the given page size.
func NewWorkListing(client *api.Client, sess *session.Session, pageSize int) *WorkListing {
	return &WorkListing{
		client:    client,
		session:   sess,
		pager:     NewPager(pageSize),
		viewerGen: sess.Generation(),
	}
}

// Items returns a copy of the current page's works.
func (l *WorkListing) Items() []model.Work {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Work, len(l.items))
	copy(out, l.items)
	return out
}

// Loaded reports whether at least one fetch has completed.
func (l *WorkListing) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Page returns the current 1-based page.
func (l *WorkListing) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pager.Page()
}

// TotalPages returns the derived page count.
func (l *WorkListing) TotalPages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pager.TotalPages()
}

// TotalCount returns the server-reported item total.
func (l *WorkListing) TotalCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pager.TotalCount()
}

// SetPage moves the cursor; out-of-bounds targets are rejected and the
// cursor keeps its value. The caller refetches after a successful move.
func (l *WorkListing) SetPage(page int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pager.SetPage(page)
}

// Fetch loads the current page. If the viewer identity changed since the
// last fetch the cursor resets to page 1 first, since liked_by_user is
// session-relative. A result superseded by a newer fetch is dropped.
func (l *WorkListing) Fetch(ctx context.Context) error {
	l.mu.Lock()
	if gen := l.session.Generation(); gen != l.viewerGen {
		l.viewerGen = gen
		l.pager.Reset()
	}
	l.seq++
	seq := l.seq
	skip := l.pager.Skip()
	limit := l.pager.PageSize()
	l.mu.Unlock()

	page, err := l.client.Works(ctx, skip, limit)

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		// A newer fetch owns the state now.
		logger.Debug("stale works fetch discarded", logger.F("seq", seq))
		return nil
	}
	if err != nil {
		return err
	}
	l.items = page.Items
	l.pager.SetTotal(page.TotalCount)
	l.loaded = true
	return nil
}

// ToggleLike flips the viewer's like on the work with the given id. The
// local flag flips synchronously before the network call is issued, so the
// UI never waits on the server. Without an authenticated viewer this is a
// no-op: no request, no state change. A failed request does not revert the
// flip; the divergence is surfaced as a notification and reconciled by the
// next fetch.
func (l *WorkListing) ToggleLike(ctx context.Context, workID int64) error {
	if !l.session.LoggedIn() {
		return nil
	}

	l.mu.Lock()
	idx := -1
	for i := range l.items {
		if l.items[i].ID == workID {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return nil
	}
	wasLiked := l.items[idx].LikedByUser
	l.items[idx].LikedByUser = !wasLiked
	l.mu.Unlock()

	var err error
	if wasLiked {
		err = l.client.UnlikeWork(ctx, workID)
	} else {
		err = l.client.LikeWork(ctx, workID)
	}
	if err != nil {
		logger.Warn("like toggle failed", logger.F("work", workID), logger.F("error", err))
		l.session.Notifier().Error("Like failed", "The change could not be saved.")
		return err
	}
	return nil
}
