package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/davidcastaneda/clubsync/pkg/errors"
)

// Login authenticates the user and returns the session token plus the
// user record.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}

	body := map[string]string{"username": username, "password": password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/login", "", body, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Signup creates an account. The caller follows up with a login; the
// backend does not return a token here.
func (c *Client) Signup(ctx context.Context, username, password, avatarID string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}
	if avatarID == "" {
		avatarID = "default"
	}

	body := map[string]string{"username": username, "password": password, "avatar_id": avatarID}
	return c.do(ctx, http.MethodPost, "/signup", "", body, nil)
}

// UpdateAvatar changes the caller's avatar selection.
func (c *Client) UpdateAvatar(ctx context.Context, token, avatarID string) error {
	body := map[string]string{"avatar_id": avatarID}
	return c.do(ctx, http.MethodPut, "/users/avatar", token, body, nil)
}

// MyClubs lists the caller's club memberships.
func (c *Client) MyClubs(ctx context.Context, token string) ([]Club, error) {
	var clubs []Club
	if err := c.do(ctx, http.MethodGet, "/clubs", token, nil, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// CreateClub creates a club and returns the created record.
func (c *Client) CreateClub(ctx context.Context, token string, params ClubParams) (*Club, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "club name is required")
	}
	if params.Action == "" {
		params.Action = "units"
	}

	var club Club
	if err := c.do(ctx, http.MethodPost, "/clubs", token, params, &club); err != nil {
		return nil, err
	}
	return &club, nil
}

// UpdateClub updates a club's metadata and returns the updated record.
func (c *Client) UpdateClub(ctx context.Context, token, clubID string, params ClubParams) (*Club, error) {
	if strings.TrimSpace(clubID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "club ID is required")
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "club name is required")
	}

	var club Club
	path := fmt.Sprintf("/clubs/%s", url.PathEscape(clubID))
	if err := c.do(ctx, http.MethodPut, path, token, params, &club); err != nil {
		return nil, err
	}
	return &club, nil
}

// JoinClub joins a club by its invite code.
func (c *Client) JoinClub(ctx context.Context, token, code string) error {
	if strings.TrimSpace(code) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "invite code is required")
	}

	path := fmt.Sprintf("/clubs/join/%s", url.PathEscape(code))
	return c.do(ctx, http.MethodPost, path, token, nil, nil)
}

// LeaveClub removes the caller from a club.
func (c *Client) LeaveClub(ctx context.Context, token, clubID string) error {
	if strings.TrimSpace(clubID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "club ID is required")
	}

	path := fmt.Sprintf("/clubs/%s/members", url.PathEscape(clubID))
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

// Leaderboard fetches the ranked member list for a club.
func (c *Client) Leaderboard(ctx context.Context, token, clubID string, limit int) ([]LeaderboardEntry, error) {
	if strings.TrimSpace(clubID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "club ID is required")
	}
	if limit <= 0 {
		limit = 50
	}

	path := fmt.Sprintf("/clubs/%s/leaderboard?limit=%d", url.PathEscape(clubID), limit)
	var entries []LeaderboardEntry
	if err := c.do(ctx, http.MethodGet, path, token, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// IncrementScore records one check-in for the caller in a club.
func (c *Client) IncrementScore(ctx context.Context, token, clubID string) error {
	if strings.TrimSpace(clubID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "club ID is required")
	}

	path := fmt.Sprintf("/clubs/%s/leaderboard/score", url.PathEscape(clubID))
	return c.do(ctx, http.MethodPost, path, token, nil, nil)
}

// UserStats fetches the caller's personal statistics for a club.
func (c *Client) UserStats(ctx context.Context, token, clubID string) (*Stats, error) {
	if strings.TrimSpace(clubID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "club ID is required")
	}

	path := fmt.Sprintf("/clubs/%s/stats/me", url.PathEscape(clubID))
	var stats Stats
	if err := c.do(ctx, http.MethodGet, path, token, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Messages fetches one page of a club's message history. The backend
// orders pages newest-first with offset counted back from the newest
// message.
func (c *Client) Messages(ctx context.Context, token, clubID string, limit, offset int) ([]Message, error) {
	if strings.TrimSpace(clubID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "club ID is required")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	path := fmt.Sprintf("/clubs/%s/messages?limit=%s&offset=%s",
		url.PathEscape(clubID), strconv.Itoa(limit), strconv.Itoa(offset))
	var messages []Message
	if err := c.do(ctx, http.MethodGet, path, token, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage posts a chat message to a club. replyToID is optional.
func (c *Client) SendMessage(ctx context.Context, token, clubID, text, replyToID string) error {
	if strings.TrimSpace(clubID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "club ID is required")
	}
	if strings.TrimSpace(text) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message text is required")
	}

	body := map[string]string{"message": text}
	if replyToID != "" {
		body["reply_to_id"] = replyToID
	}

	path := fmt.Sprintf("/clubs/%s/messages", url.PathEscape(clubID))
	return c.do(ctx, http.MethodPost, path, token, body, nil)
}
