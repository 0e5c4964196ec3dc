package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davidcastaneda/clubsync/internal/domain"
	"github.com/davidcastaneda/clubsync/internal/gateway"
	"github.com/davidcastaneda/clubsync/pkg/enums"
)

// toClub converts a backend club record into the domain shape. Numeric
// ids become strings so the rest of the code never cares how the
// backend keys its rows.
func toClub(wire gateway.Club) domain.Club {
	club := domain.Club{
		ID:             strconv.FormatInt(wire.ID, 10),
		Name:           wire.Name,
		Code:           wire.Code,
		MemberCount:    wire.NumberOfMembers,
		IsPrivate:      wire.IsPrivate,
		CreatedBy:      strconv.FormatInt(wire.CreatedBy, 10),
		CurrentRank:    wire.CurrentRank,
		ActionUnitName: wire.Action,
	}
	if wire.Description != nil {
		club.Description = *wire.Description
	}
	if club.ActionUnitName == "" {
		club.ActionUnitName = "Points"
	}
	if t, ok := parseWireTime(wire.NextCheckIn); ok {
		club.NextCheckInTime = &t
	}
	return club
}

// toMember converts one leaderboard row. A missing check-in time falls
// back to now so sorting by recency stays stable.
func toMember(wire gateway.LeaderboardEntry, clubID string, now time.Time) domain.Member {
	member := domain.Member{
		UserID:        strconv.FormatInt(wire.User.ID, 10),
		Username:      usernameOrUnknown(wire.User.Username),
		AvatarID:      avatarOrInitials(wire.User.AvatarID, wire.User.Username),
		ClubID:        clubID,
		Score:         wire.Score,
		Streak:        wire.CurrentStreak,
		LongestStreak: wire.LongestStreak,
		LastUpdate:    now,
	}
	if t, ok := parseWireTime(wire.LastCheckedIn); ok {
		member.LastUpdate = t
	}
	return member
}

// toMessage converts one chat record. Backends that predate message
// ids get a synthesized one; dedup across fetches then falls back to
// the timestamp boundaries of the merge rules.
func toMessage(wire gateway.Message, clubID string) domain.Message {
	msg := domain.Message{
		ClubID:   clubID,
		AuthorID: strconv.FormatInt(wire.User.ID, 10),
		Username: usernameOrUnknown(wire.User.Username),
		AvatarID: avatarOrInitials(wire.User.AvatarID, wire.User.Username),
		Text:     wire.Message,
		Kind:     enums.ParseMessageKind(wire.Type),
	}
	if wire.ID != nil {
		msg.ID = strconv.FormatInt(*wire.ID, 10)
	} else {
		msg.ID = "gen-" + uuid.NewString()
	}
	if msg.Kind == enums.MessageKindSystem {
		msg.AuthorID = domain.SystemAuthorID
	}
	if t, ok := parseWireTime(&wire.Timestamp); ok {
		msg.Timestamp = t
	}
	if wire.ReplyTo != nil {
		msg.ReplyTo = &domain.ReplyRef{
			Username: wire.ReplyTo.Username,
			Text:     wire.ReplyTo.Message,
		}
	}
	return msg
}

func toMessages(wire []gateway.Message, clubID string) []domain.Message {
	out := make([]domain.Message, 0, len(wire))
	for _, msg := range wire {
		out = append(out, toMessage(msg, clubID))
	}
	return out
}

func toStats(wire gateway.Stats) domain.UserStats {
	stats := domain.UserStats{
		Score:         wire.Score,
		Rank:          wire.Rank,
		Streak:        wire.CurrentStreak,
		LongestStreak: wire.LongestStreak,
	}
	for _, point := range wire.GraphData {
		stats.Graph = append(stats.Graph, domain.GraphPoint{
			Day:    point.Day,
			Scores: point.Scores,
		})
	}
	return stats
}

func toUser(wire gateway.User) domain.User {
	return domain.User{
		ID:       strconv.FormatInt(wire.ID, 10),
		Username: wire.Username,
		AvatarID: avatarOrInitials(wire.AvatarID, wire.Username),
	}
}

func usernameOrUnknown(username string) string {
	if strings.TrimSpace(username) == "" {
		return "Unknown"
	}
	return username
}

// avatarOrInitials keeps the chosen avatar when one is set and falls
// back to the first two letters of the username otherwise.
func avatarOrInitials(avatarID, username string) string {
	if avatarID != "" && avatarID != "default" {
		return avatarID
	}
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "??"
	}
	if len(trimmed) == 1 {
		return strings.ToUpper(trimmed)
	}
	return strings.ToUpper(trimmed[:2])
}

func parseWireTime(value *string) (time.Time, bool) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
