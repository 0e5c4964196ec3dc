package domain

import (
	"time"

	"github.com/davidcastaneda/clubsync/pkg/enums"
)

// User is the authenticated account as the store tracks it.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	AvatarID string `json:"avatar_id"`
}

// Session pairs the user with their bearer token. The two are written and
// cleared together; the store never holds one without the other.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Club is one membership as reported by the club-list endpoint. Refreshed
// wholesale on every list fetch, never merged field by field.
type Club struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Code            string     `json:"code"`
	MemberCount     int        `json:"member_count"`
	IsPrivate       bool       `json:"is_private"`
	CreatedBy       string     `json:"created_by"`
	NextCheckInTime *time.Time `json:"next_check_in_time,omitempty"`
	CurrentRank     int        `json:"current_rank"`
	ActionUnitName  string     `json:"action_unit_name"`
}

// Member is one user's standing within one club, keyed by (ClubID, UserID).
type Member struct {
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	AvatarID      string    `json:"avatar_id"`
	ClubID        string    `json:"club_id"`
	Score         int       `json:"score"`
	Streak        int       `json:"streak"`
	LongestStreak int       `json:"longest_streak"`
	LastUpdate    time.Time `json:"last_update"`
}

// ReplyRef is the quoted context a message replies to.
type ReplyRef struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

// Message is one chat entry. AuthorID is "system" for server notices.
type Message struct {
	ID        string            `json:"id"`
	ClubID    string            `json:"club_id"`
	AuthorID  string            `json:"author_id"`
	Username  string            `json:"username,omitempty"`
	AvatarID  string            `json:"avatar_id,omitempty"`
	Text      string            `json:"text"`
	Timestamp time.Time         `json:"timestamp"`
	Kind      enums.MessageKind `json:"kind"`
	ReplyTo   *ReplyRef         `json:"reply_to,omitempty"`
}

// SystemAuthorID marks server-generated messages.
const SystemAuthorID = "system"

// GraphPoint is one day of the stats time series; scores are keyed by
// username as the stats endpoint reports them.
type GraphPoint struct {
	Day    string         `json:"day"`
	Scores map[string]int `json:"scores"`
}

// UserStats is the caller's standing plus the score time series for one club.
type UserStats struct {
	Score         int          `json:"score"`
	Rank          int          `json:"rank"`
	Streak        int          `json:"streak"`
	LongestStreak int          `json:"longest_streak"`
	Graph         []GraphPoint `json:"graph"`
}
