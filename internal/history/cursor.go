// Package history owns the message-history contracts for one
// conversation: the pagination cursor that walks backwards through
// older pages, and the merge rules that keep live polls and loaded
// pages from corrupting each other.
package history

import "sync"

// Cursor tracks how far back one conversation has been paged. Offset
// counts messages back from the newest; it only ever grows, and once
// the backend returns an empty page the cursor is exhausted until the
// next reset.
type Cursor struct {
	mu        sync.Mutex
	offset    int
	exhausted bool
}

// NewCursor returns a cursor positioned at the live window boundary.
func NewCursor(initialOffset int) *Cursor {
	if initialOffset < 0 {
		initialOffset = 0
	}
	return &Cursor{offset: initialOffset}
}

// Reset rewinds the cursor for a from-scratch conversation load.
func (c *Cursor) Reset(offset int) {
	if offset < 0 {
		offset = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = offset
	c.exhausted = false
}

// Offset reports how many messages back the next older page starts.
func (c *Cursor) Offset() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// Advance moves the cursor back by one page. Called only after a
// non-empty page was merged; a failed or empty fetch must leave the
// offset untouched.
func (c *Cursor) Advance(pageSize int) {
	if pageSize <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset += pageSize
}

// MarkExhausted records that the backend has no older messages.
func (c *Cursor) MarkExhausted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exhausted = true
}

// Exhausted reports whether further older-page fetches are pointless.
func (c *Cursor) Exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exhausted
}
