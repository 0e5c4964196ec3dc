package store

import (
	"context"

	"github.com/davidcastaneda/clubsync/internal/domain"
	"github.com/davidcastaneda/clubsync/internal/history"
	pkgerrors "github.com/davidcastaneda/clubsync/pkg/errors"
)

// OpenClub makes a conversation the active view and loads it from
// scratch: fresh cursor, new epoch so responses still in flight for
// the previous view are discarded, then an initial data load.
func (s *Store) OpenClub(ctx context.Context, clubID string) error {
	if _, ok := s.Club(clubID); !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "unknown club")
	}

	s.mu.Lock()
	s.activeClub = clubID
	s.bumpEpochLocked(clubID)
	s.loadingOlder[clubID] = false
	if cursor, ok := s.cursors[clubID]; ok {
		cursor.Reset(s.pageSize)
	} else {
		s.cursors[clubID] = history.NewCursor(s.pageSize)
	}
	delete(s.messages, clubID)
	s.mu.Unlock()

	return s.LoadClubData(ctx, clubID)
}

// CloseClub leaves the conversation view. In-flight responses for it
// are invalidated; cached history stays for the next open.
func (s *Store) CloseClub(clubID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeClub == clubID {
		s.activeClub = ""
	}
	s.bumpEpochLocked(clubID)
}

// LoadClubData refreshes the leaderboard and the live message window
// for one club. The leaderboard is replaced wholesale; the live window
// merges by timestamp so pages loaded by scrolling back survive.
func (s *Store) LoadClubData(ctx context.Context, clubID string) error {
	token, gen, err := s.token()
	if err != nil {
		return err
	}
	epoch := s.epoch(clubID)

	entries, err := s.gw.Leaderboard(ctx, token, clubID, s.leaderboardLimit)
	if err != nil {
		return s.checkAuth(ctx, err)
	}

	wire, err := s.gw.Messages(ctx, token, clubID, s.pageSize, 0)
	if err != nil {
		return s.checkAuth(ctx, err)
	}
	fresh := history.Normalize(toMessages(wire, clubID))

	now := s.now()
	members := make([]domain.Member, 0, len(entries))
	for _, entry := range entries {
		members = append(members, toMember(entry, clubID, now))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || s.epochs[clubID] != epoch {
		return nil
	}
	s.members[clubID] = members
	s.messages[clubID] = history.ApplyLiveWindow(s.messages[clubID], fresh)
	return nil
}

// LoadOlderMessages fetches the next page back in history. It refuses
// to overlap with itself per conversation and goes quiet once the
// backend reports the history exhausted. Returns true when a page was
// merged.
func (s *Store) LoadOlderMessages(ctx context.Context, clubID string) (bool, error) {
	token, gen, err := s.token()
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	cursor, ok := s.cursors[clubID]
	if !ok {
		cursor = history.NewCursor(s.pageSize)
		s.cursors[clubID] = cursor
	}
	if cursor.Exhausted() || s.loadingOlder[clubID] {
		s.mu.Unlock()
		return false, nil
	}
	s.loadingOlder[clubID] = true
	epoch := s.epochs[clubID]
	offset := cursor.Offset()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loadingOlder[clubID] = false
		s.mu.Unlock()
	}()

	wire, err := s.gw.Messages(ctx, token, clubID, s.pageSize, offset)
	if err != nil {
		// Cursor untouched: the page stays retryable.
		return false, s.checkAuth(ctx, err)
	}
	page := history.Normalize(toMessages(wire, clubID))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || s.epochs[clubID] != epoch {
		return false, nil
	}
	if len(page) == 0 {
		cursor.MarkExhausted()
		return false, nil
	}
	s.messages[clubID] = history.PrependOlderPage(s.messages[clubID], page)
	cursor.Advance(s.pageSize)
	return true, nil
}

// FetchStats refreshes the caller's personal stats for one club.
func (s *Store) FetchStats(ctx context.Context, clubID string) error {
	token, gen, err := s.token()
	if err != nil {
		return err
	}
	epoch := s.epoch(clubID)

	wire, err := s.gw.UserStats(ctx, token, clubID)
	if err != nil {
		return s.checkAuth(ctx, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || s.epochs[clubID] != epoch {
		return nil
	}
	s.stats[clubID] = toStats(*wire)
	return nil
}
