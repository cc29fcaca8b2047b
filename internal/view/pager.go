// Package view holds the shared state pattern behind listing pages: a page
// of server data combined with client-only optimistic mutations and a
// pagination cursor.
package view

// Pager is a client-local pagination cursor: 1-based current page, fixed
// page size, and the server-reported total.
type Pager struct {
	page  int
	size  int
	total int
}

// NewPager creates a cursor at page 1 with the given page size.
func NewPager(size int) Pager {
	return Pager{page: 1, size: size}
}

// Page returns the current 1-based page.
func (p *Pager) Page() int { return p.page }

// PageSize returns the fixed page size.
func (p *Pager) PageSize() int { return p.size }

// TotalCount returns the server-reported item total.
func (p *Pager) TotalCount() int { return p.total }

// TotalPages derives the page count: ceil(total / size).
func (p *Pager) TotalPages() int {
	return (p.total + p.size - 1) / p.size
}

// Skip returns the offset for the current page.
func (p *Pager) Skip() int { return (p.page - 1) * p.size }

// SetTotal records the total reported by the last fetch.
func (p *Pager) SetTotal(total int) { p.total = total }

// SetPage moves the cursor. Targets outside [1, TotalPages] are rejected
// without mutating the cursor; page 1 is always reachable.
func (p *Pager) SetPage(page int) bool {
	if page < 1 {
		return false
	}
	if page > 1 && page > p.TotalPages() {
		return false
	}
	p.page = page
	return true
}

// Reset returns the cursor to page 1. Called when an identity-affecting
// input of the listing changes.
func (p *Pager) Reset() { p.page = 1 }
