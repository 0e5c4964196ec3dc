package gateway

// User is the account payload embedded in auth, leaderboard, and
// message responses.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	AvatarID string `json:"avatar_id"`
}

// LoginResult is the payload returned by a successful login.
type LoginResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// Club is a club record as the backend serializes it.
type Club struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	IsPrivate       bool    `json:"is_private"`
	NumberOfMembers int     `json:"number_of_members"`
	CreatedBy       int64   `json:"created_by"`
	CreatedAt       string  `json:"created_at"`
	Code            string  `json:"code"`
	CurrentRank     int     `json:"current_rank"`
	Action          string  `json:"action"`
	LastCheckedIn   *string `json:"last_checkedin"`
	NextCheckIn     *string `json:"next_checkin"`
}

// ClubParams carries the writable club fields for create and update calls.
type ClubParams struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsPrivate   bool    `json:"is_private"`
	Action      string  `json:"action"`
}

// LeaderboardEntry is one ranked member row.
type LeaderboardEntry struct {
	User          User    `json:"user"`
	Score         int     `json:"score"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	LastCheckedIn *string `json:"last_checkedin"`
}

// Message is one chat record. ID and ReplyTo are optional because older
// backend builds omit them.
type Message struct {
	ID        *int64 `json:"id,omitempty"`
	User      User   `json:"user"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	ReplyTo   *Reply `json:"reply_to,omitempty"`
}

// Reply is the quoted-message context attached to a reply.
type Reply struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Stats is the personal statistics payload for one club.
type Stats struct {
	Score         int          `json:"score"`
	Rank          int          `json:"rank"`
	CurrentStreak int          `json:"current_streak"`
	LongestStreak int          `json:"longest_streak"`
	GraphData     []GraphPoint `json:"graph_data"`
}

// GraphPoint is one day of the per-member score time series.
type GraphPoint struct {
	Day    string         `json:"day"`
	Scores map[string]int `json:"scores"`
}
