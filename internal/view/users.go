package view

import (
	"context"
	"sync"

	"github.com/DekunleJr/Signatures/internal/api"
	"github.com/DekunleJr/Signatures/internal/model"
	"github.com/DekunleJr/Signatures/internal/session"
)

// UserListing backs the admin user list with the same cursor behavior as
// the portfolio page.
type UserListing struct {
	client  *api.Client
	session *session.Session

	mu        sync.Mutex
	pager     Pager
	items     []model.User
	seq       uint64
	viewerGen uint64
	loaded    bool
}

func NewUserListing(client *api.Client, sess *session.Session, pageSize int) *UserListing {
	return &UserListing{
		client:    client,
		session:   sess,
		pager:     NewPager(pageSize),
		viewerGen: sess.Generation(),
	}
}

func (l *UserListing) Items() []model.User {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.User, len(l.items))
	copy(out, l.items)
	return out
}

func (l *UserListing) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

func (l *UserListing) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pager.Page()
}

func (l *UserListing) TotalPages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pager.TotalPages()
}

func (l *UserListing) SetPage(page int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pager.SetPage(page)
}

func (l *UserListing) Fetch(ctx context.Context) error {
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

	page, err := l.client.Users(ctx, skip, limit)

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
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
