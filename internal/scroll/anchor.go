// Package scroll computes viewport commands for conversation views.
// It never touches a real viewport; callers report geometry and apply
// the returned command, which keeps the logic testable and the store
// the only writer of conversation state.
package scroll

import (
	"sync"

	"github.com/davidcastaneda/clubsync/pkg/config"
)

// Metrics is the viewport geometry at the moment history changed.
// Heights and offsets share one unit; the controller never assumes
// pixels.
type Metrics struct {
	ScrollTop        float64 `json:"scroll_top"`
	ViewportHeight   float64 `json:"viewport_height"`
	OldContentHeight float64 `json:"old_content_height"`
	NewContentHeight float64 `json:"new_content_height"`
}

// CommandType says how the view should move.
type CommandType string

const (
	// CommandNone leaves the viewport where it is.
	CommandNone CommandType = "none"
	// CommandJump repositions instantly, either by Delta or to the bottom.
	CommandJump CommandType = "jump"
	// CommandSmooth animates to the bottom.
	CommandSmooth CommandType = "smooth"
)

// Command is the controller's instruction to the view layer.
type Command struct {
	Type     CommandType `json:"type"`
	Delta    float64     `json:"delta,omitempty"`
	ToBottom bool        `json:"to_bottom,omitempty"`
	Unread   int         `json:"unread"`
	Peek     *Peek       `json:"peek,omitempty"`
}

// Peek surfaces the newest message when the user is scrolled away.
type Peek struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

// Controller tracks per-conversation unread counts and turns history
// changes into viewport commands.
type Controller struct {
	threshold float64

	mu     sync.Mutex
	unread map[string]int
}

// NewController builds a controller from the viewport configuration.
func NewController(cfg config.ViewportConfig) *Controller {
	threshold := float64(cfg.NearBottomThreshold)
	if threshold <= 0 {
		threshold = 40
	}
	return &Controller{
		threshold: threshold,
		unread:    make(map[string]int),
	}
}

// Prepended handles older messages arriving above the current view.
// The viewport must jump down by exactly the height the new content
// added, synchronously, so the visible messages do not move.
func (c *Controller) Prepended(conversationID string, m Metrics) Command {
	delta := m.NewContentHeight - m.OldContentHeight
	if delta < 0 {
		delta = 0
	}
	return Command{
		Type:   CommandJump,
		Delta:  delta,
		Unread: c.Unread(conversationID),
	}
}

// Appended handles new messages arriving at the bottom. The user's own
// messages and users already near the bottom follow the conversation;
// everyone else keeps their place and gets an unread count plus a peek
// at the newest message.
func (c *Controller) Appended(conversationID string, m Metrics, ownMessage bool, newest Peek) Command {
	if ownMessage || c.nearBottom(m) {
		return Command{
			Type:     CommandSmooth,
			ToBottom: true,
			Unread:   c.clearUnread(conversationID),
		}
	}

	count := c.incrementUnread(conversationID)
	peek := newest
	return Command{
		Type:   CommandNone,
		Unread: count,
		Peek:   &peek,
	}
}

// Populated handles the first batch of history for an empty
// conversation: jump straight to the bottom, no animation.
func (c *Controller) Populated(conversationID string) Command {
	return Command{
		Type:     CommandJump,
		ToBottom: true,
		Unread:   c.clearUnread(conversationID),
	}
}

// BottomRequested handles an explicit scroll-to-bottom request.
func (c *Controller) BottomRequested(conversationID string) Command {
	return Command{
		Type:     CommandSmooth,
		ToBottom: true,
		Unread:   c.clearUnread(conversationID),
	}
}

// Unread reports the current unread count for a conversation.
func (c *Controller) Unread(conversationID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread[conversationID]
}

// Forget drops all state for a conversation that was closed.
func (c *Controller) Forget(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.unread, conversationID)
}

// nearBottom reports whether the viewport sits within the threshold of
// the bottom, measured against the content height before the append.
// The threshold is strict: exactly at the threshold counts as away.
func (c *Controller) nearBottom(m Metrics) bool {
	distance := m.OldContentHeight - (m.ScrollTop + m.ViewportHeight)
	if distance < 0 {
		distance = 0
	}
	return distance < c.threshold
}

func (c *Controller) incrementUnread(conversationID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unread[conversationID]++
	return c.unread[conversationID]
}

func (c *Controller) clearUnread(conversationID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.unread, conversationID)
	return 0
}
