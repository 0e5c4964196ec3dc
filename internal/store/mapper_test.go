package store

import (
	"testing"
	"time"

	"github.com/davidcastaneda/clubsync/internal/domain"
	"github.com/davidcastaneda/clubsync/internal/gateway"
	"github.com/davidcastaneda/clubsync/pkg/enums"
)

func TestToClubMapping(t *testing.T) {
	description := "daily reading"
	next := "2026-08-31T06:00:00Z"
	wire := gateway.Club{
		ID:              42,
		Name:            "Readers",
		Description:     &description,
		IsPrivate:       true,
		NumberOfMembers: 5,
		CreatedBy:       7,
		Code:            "RDRS",
		CurrentRank:     2,
		Action:          "Pages",
		NextCheckIn:     &next,
	}

	club := toClub(wire)

	if club.ID != "42" || club.CreatedBy != "7" {
		t.Fatalf("ids must map to strings, got %+v", club)
	}
	if club.Description != "daily reading" || club.ActionUnitName != "Pages" {
		t.Fatalf("unexpected club %+v", club)
	}
	if club.NextCheckInTime == nil || !club.NextCheckInTime.Equal(time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected next check-in %+v", club.NextCheckInTime)
	}
}

func TestToClubDefaults(t *testing.T) {
	club := toClub(gateway.Club{ID: 1, Name: "Walkers"})

	if club.Description != "" {
		t.Fatalf("nil description maps to empty, got %q", club.Description)
	}
	if club.ActionUnitName != "Points" {
		t.Fatalf("missing action unit defaults to Points, got %q", club.ActionUnitName)
	}
	if club.NextCheckInTime != nil {
		t.Fatal("missing next check-in stays nil")
	}
}

func TestToMessageSystemNotices(t *testing.T) {
	wire := gateway.Message{
		User:      gateway.User{ID: 0, Username: ""},
		Message:   "leo joined the club",
		Timestamp: "2026-08-30T10:00:00Z",
		Type:      "system",
	}

	msg := toMessage(wire, "1")

	if msg.Kind != enums.MessageKindSystem {
		t.Fatalf("expected system kind, got %q", msg.Kind)
	}
	if msg.AuthorID != domain.SystemAuthorID {
		t.Fatalf("expected system author, got %q", msg.AuthorID)
	}
	if msg.ID == "" {
		t.Fatal("messages without a backend id get a synthesized one")
	}
}

func TestToMessageReplyContext(t *testing.T) {
	id := int64(9)
	wire := gateway.Message{
		ID:        &id,
		User:      gateway.User{ID: 3, Username: "leo"},
		Message:   "agreed",
		Timestamp: "2026-08-30T10:00:00Z",
		Type:      "user",
		ReplyTo:   &gateway.Reply{Username: "ramona", Message: "who is in today?"},
	}

	msg := toMessage(wire, "1")

	if msg.ID != "9" {
		t.Fatalf("unexpected id %q", msg.ID)
	}
	if msg.ReplyTo == nil || msg.ReplyTo.Username != "ramona" || msg.ReplyTo.Text != "who is in today?" {
		t.Fatalf("unexpected reply context %+v", msg.ReplyTo)
	}
}

func TestMissingUsernameDefaultsToUnknown(t *testing.T) {
	member := toMember(gateway.LeaderboardEntry{User: gateway.User{ID: 4}}, "1", testNow)
	if member.Username != "Unknown" {
		t.Fatalf("expected Unknown sentinel, got %q", member.Username)
	}

	msg := toMessage(gateway.Message{
		User:      gateway.User{ID: 4},
		Message:   "hi",
		Timestamp: "2026-08-30T10:00:00Z",
		Type:      "user",
	}, "1")
	if msg.Username != "Unknown" {
		t.Fatalf("expected Unknown sentinel, got %q", msg.Username)
	}
}

func TestAvatarOrInitials(t *testing.T) {
	cases := []struct {
		name     string
		avatarID string
		username string
		want     string
	}{
		{name: "chosen avatar wins", avatarID: "fox", username: "ramona", want: "fox"},
		{name: "default falls back to initials", avatarID: "default", username: "ramona", want: "RA"},
		{name: "empty avatar falls back", avatarID: "", username: "leo", want: "LE"},
		{name: "single letter username", avatarID: "", username: "q", want: "Q"},
		{name: "no username at all", avatarID: "", username: "  ", want: "??"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := avatarOrInitials(tc.avatarID, tc.username); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
