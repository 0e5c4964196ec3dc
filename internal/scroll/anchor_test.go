package scroll

import (
	"testing"

	"github.com/davidcastaneda/clubsync/pkg/config"
)

func newTestController() *Controller {
	return NewController(config.ViewportConfig{NearBottomThreshold: 40})
}

func TestPrependedJumpsByAddedHeight(t *testing.T) {
	cases := []struct {
		name      string
		metrics   Metrics
		wantDelta float64
	}{
		{
			name:      "five messages of height 20",
			metrics:   Metrics{OldContentHeight: 1000, NewContentHeight: 1100},
			wantDelta: 100,
		},
		{
			name:      "no messages added",
			metrics:   Metrics{OldContentHeight: 1000, NewContentHeight: 1000},
			wantDelta: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newTestController().Prepended("club-1", tc.metrics)
			if cmd.Type != CommandJump {
				t.Fatalf("expected jump, got %q", cmd.Type)
			}
			if cmd.Delta != tc.wantDelta {
				t.Fatalf("expected delta %v, got %v", tc.wantDelta, cmd.Delta)
			}
			if cmd.ToBottom {
				t.Fatal("prepend must keep the viewport anchored, not jump to bottom")
			}
		})
	}
}

func TestAppendedFollowsWhenNearBottom(t *testing.T) {
	// Viewport bottom sits 39 units above the content bottom, one unit
	// inside the threshold.
	m := Metrics{ScrollTop: 561, ViewportHeight: 400, OldContentHeight: 1000, NewContentHeight: 1020}

	cmd := newTestController().Appended("club-1", m, false, Peek{Username: "leo", Text: "done"})

	if cmd.Type != CommandSmooth || !cmd.ToBottom {
		t.Fatalf("expected smooth scroll to bottom, got %+v", cmd)
	}
	if cmd.Unread != 0 {
		t.Fatalf("expected unread cleared, got %d", cmd.Unread)
	}
	if cmd.Peek != nil {
		t.Fatal("no peek when following the conversation")
	}
}

func TestAppendedExactlyAtThresholdStaysPut(t *testing.T) {
	// Distance equals the threshold; the comparison is strict, so the
	// viewport must not move.
	m := Metrics{ScrollTop: 560, ViewportHeight: 400, OldContentHeight: 1000, NewContentHeight: 1020}

	cmd := newTestController().Appended("club-1", m, false, Peek{Username: "leo", Text: "done"})

	if cmd.Type != CommandNone {
		t.Fatalf("expected no movement at the threshold, got %+v", cmd)
	}
	if cmd.Unread != 1 {
		t.Fatalf("expected unread 1, got %d", cmd.Unread)
	}
	if cmd.Peek == nil || cmd.Peek.Username != "leo" || cmd.Peek.Text != "done" {
		t.Fatalf("expected peek for newest message, got %+v", cmd.Peek)
	}
}

func TestAppendedOwnMessageAlwaysFollows(t *testing.T) {
	// Scrolled all the way up; own messages still pull the view down.
	m := Metrics{ScrollTop: 0, ViewportHeight: 400, OldContentHeight: 2000, NewContentHeight: 2020}

	cmd := newTestController().Appended("club-1", m, true, Peek{})

	if cmd.Type != CommandSmooth || !cmd.ToBottom {
		t.Fatalf("expected smooth scroll to bottom, got %+v", cmd)
	}
	if cmd.Unread != 0 {
		t.Fatalf("expected unread cleared, got %d", cmd.Unread)
	}
}

func TestAppendedAccumulatesUnreadPerConversation(t *testing.T) {
	ctrl := newTestController()
	away := Metrics{ScrollTop: 0, ViewportHeight: 400, OldContentHeight: 2000, NewContentHeight: 2020}

	for i := 1; i <= 3; i++ {
		cmd := ctrl.Appended("club-1", away, false, Peek{Username: "leo"})
		if cmd.Unread != i {
			t.Fatalf("expected unread %d, got %d", i, cmd.Unread)
		}
	}

	if got := ctrl.Appended("club-2", away, false, Peek{}).Unread; got != 1 {
		t.Fatalf("unread must be tracked per conversation, got %d", got)
	}
	if got := ctrl.Unread("club-1"); got != 3 {
		t.Fatalf("expected club-1 unread 3, got %d", got)
	}
}

func TestPopulatedJumpsToBottom(t *testing.T) {
	cmd := newTestController().Populated("club-1")

	if cmd.Type != CommandJump || !cmd.ToBottom {
		t.Fatalf("expected instant jump to bottom, got %+v", cmd)
	}
	if cmd.Unread != 0 {
		t.Fatalf("expected unread 0, got %d", cmd.Unread)
	}
}

func TestBottomRequestedClearsUnread(t *testing.T) {
	ctrl := newTestController()
	away := Metrics{ScrollTop: 0, ViewportHeight: 400, OldContentHeight: 2000, NewContentHeight: 2020}
	ctrl.Appended("club-1", away, false, Peek{})
	ctrl.Appended("club-1", away, false, Peek{})

	cmd := ctrl.BottomRequested("club-1")

	if cmd.Type != CommandSmooth || !cmd.ToBottom {
		t.Fatalf("expected smooth scroll to bottom, got %+v", cmd)
	}
	if cmd.Unread != 0 || ctrl.Unread("club-1") != 0 {
		t.Fatal("expected unread cleared")
	}
}

func TestForgetDropsConversationState(t *testing.T) {
	ctrl := newTestController()
	away := Metrics{ScrollTop: 0, ViewportHeight: 400, OldContentHeight: 2000, NewContentHeight: 2020}
	ctrl.Appended("club-1", away, false, Peek{})

	ctrl.Forget("club-1")

	if got := ctrl.Unread("club-1"); got != 0 {
		t.Fatalf("expected unread reset after forget, got %d", got)
	}
}
