package history

import (
	"github.com/davidcastaneda/clubsync/internal/domain"
)

// Normalize reverses a newest-first backend page into the oldest-first
// order history is stored in. The input slice is not modified.
func Normalize(messages []domain.Message) []domain.Message {
	if len(messages) == 0 {
		return nil
	}

	out := make([]domain.Message, len(messages))
	for i, msg := range messages {
		out[len(messages)-1-i] = msg
	}
	return out
}

// ApplyLiveWindow merges a fresh live window (oldest-first) into the
// existing history. Everything the window covers is replaced by the
// window's copy; existing messages strictly older than the window's
// oldest timestamp survive, so pages loaded by scrolling back are not
// thrown away by the next poll. The merge depends only on timestamp
// boundaries, never on which call resolved first.
func ApplyLiveWindow(existing, fresh []domain.Message) []domain.Message {
	if len(fresh) == 0 {
		return existing
	}

	windowStart := fresh[0].Timestamp
	seen := make(map[string]struct{}, len(fresh))
	for _, msg := range fresh {
		if msg.ID != "" {
			seen[msg.ID] = struct{}{}
		}
	}

	merged := make([]domain.Message, 0, len(existing)+len(fresh))
	for _, msg := range existing {
		if !msg.Timestamp.Before(windowStart) {
			continue
		}
		if _, dup := seen[msg.ID]; dup {
			continue
		}
		merged = append(merged, msg)
	}

	return append(merged, fresh...)
}

// PrependOlderPage attaches an older page (oldest-first) in front of
// the existing history. Page entries already present by id, or newer
// than the oldest message already held, are dropped so the result
// stays deduplicated and ordered.
func PrependOlderPage(existing, page []domain.Message) []domain.Message {
	if len(page) == 0 {
		return existing
	}
	if len(existing) == 0 {
		out := make([]domain.Message, len(page))
		copy(out, page)
		return out
	}

	seen := make(map[string]struct{}, len(existing))
	for _, msg := range existing {
		if msg.ID != "" {
			seen[msg.ID] = struct{}{}
		}
	}

	boundary := existing[0].Timestamp
	merged := make([]domain.Message, 0, len(page)+len(existing))
	for _, msg := range page {
		if msg.Timestamp.After(boundary) {
			continue
		}
		if _, dup := seen[msg.ID]; dup {
			continue
		}
		merged = append(merged, msg)
	}

	return append(merged, existing...)
}
