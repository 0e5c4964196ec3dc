package store

import (
	"context"
	"strings"

	"go.uber.org/multierr"

	pkgerrors "github.com/davidcastaneda/clubsync/pkg/errors"
)

// IncrementScore records one check-in. The cooldown gate runs locally:
// while now is before the club's next check-in time no request is
// issued at all. A successful increment refreshes everything the
// server may have changed as a side effect: the club's leaderboard and
// live window, the club list for the new cooldown and rank, and the
// personal stats.
func (s *Store) IncrementScore(ctx context.Context, clubID string) error {
	club, ok := s.Club(clubID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "unknown club")
	}
	if club.NextCheckInTime != nil && s.now().Before(*club.NextCheckInTime) {
		return pkgerrors.New(pkgerrors.CodeCooldown, "check-in cooldown active").
			WithDetails(map[string]any{"next_check_in_time": club.NextCheckInTime})
	}

	token, _, err := s.token()
	if err != nil {
		return err
	}

	if err := s.gw.IncrementScore(ctx, token, clubID); err != nil {
		return s.checkAuth(ctx, err)
	}

	refreshErr := multierr.Combine(
		s.LoadClubData(ctx, clubID),
		s.RefreshClubs(ctx),
		s.FetchStats(ctx, clubID),
	)
	if refreshErr != nil {
		// The increment itself succeeded; the next poll repairs the
		// stale views.
		s.logg.Error(ctx, "post-increment refresh incomplete", refreshErr)
	}
	return nil
}

// SendMessage posts a chat message and reloads the live window, so
// server-derived fields (timestamps, system echoes) come back
// authoritative instead of being synthesized locally. The caller
// clears its input before invoking this; on failure the text is not
// restored.
func (s *Store) SendMessage(ctx context.Context, clubID, text, replyToID string) error {
	if strings.TrimSpace(text) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message text is required")
	}

	token, _, err := s.token()
	if err != nil {
		return err
	}

	if err := s.gw.SendMessage(ctx, token, clubID, text, replyToID); err != nil {
		s.logg.Error(ctx, "send message failed", err)
		return s.checkAuth(ctx, err)
	}

	return s.LoadClubData(ctx, clubID)
}
