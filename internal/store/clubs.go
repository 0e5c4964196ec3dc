package store

import (
	"context"
	"strings"

	"github.com/davidcastaneda/clubsync/internal/domain"
	"github.com/davidcastaneda/clubsync/internal/gateway"
)

// RefreshClubs replaces the club list with the server's view and drops
// cached state for clubs the user is no longer in.
func (s *Store) RefreshClubs(ctx context.Context) error {
	token, gen, err := s.token()
	if err != nil {
		return err
	}

	wire, err := s.gw.MyClubs(ctx, token)
	if err != nil {
		return s.checkAuth(ctx, err)
	}

	clubs := make([]domain.Club, 0, len(wire))
	for _, club := range wire {
		clubs = append(clubs, toClub(club))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return nil
	}
	s.clubs = clubs

	current := make(map[string]struct{}, len(clubs))
	for _, club := range clubs {
		current[club.ID] = struct{}{}
	}
	for clubID := range s.members {
		if _, ok := current[clubID]; !ok {
			s.dropClubLocked(clubID)
		}
	}
	return nil
}

// CreateClub creates a club and refreshes the list so ranks and
// membership counts come from the server, not local guesses.
func (s *Store) CreateClub(ctx context.Context, name, description, action string, isPrivate bool) (domain.Club, error) {
	token, _, err := s.token()
	if err != nil {
		return domain.Club{}, err
	}

	created, err := s.gw.CreateClub(ctx, token, clubParams(name, description, action, isPrivate))
	if err != nil {
		return domain.Club{}, s.checkAuth(ctx, err)
	}

	if err := s.RefreshClubs(ctx); err != nil {
		s.logg.Error(ctx, "club list refresh after create failed", err)
	}
	return toClub(*created), nil
}

// UpdateClubInfo updates a club's metadata and refreshes the list.
func (s *Store) UpdateClubInfo(ctx context.Context, clubID, name, description, action string, isPrivate bool) (domain.Club, error) {
	token, _, err := s.token()
	if err != nil {
		return domain.Club{}, err
	}

	updated, err := s.gw.UpdateClub(ctx, token, clubID, clubParams(name, description, action, isPrivate))
	if err != nil {
		return domain.Club{}, s.checkAuth(ctx, err)
	}

	if err := s.RefreshClubs(ctx); err != nil {
		s.logg.Error(ctx, "club list refresh after update failed", err)
	}
	return toClub(*updated), nil
}

// JoinClub joins by invite code and refreshes the list.
func (s *Store) JoinClub(ctx context.Context, code string) error {
	token, _, err := s.token()
	if err != nil {
		return err
	}

	if err := s.gw.JoinClub(ctx, token, code); err != nil {
		return s.checkAuth(ctx, err)
	}
	return s.RefreshClubs(ctx)
}

// LeaveClub leaves a club and drops every trace of it locally.
func (s *Store) LeaveClub(ctx context.Context, clubID string) error {
	token, _, err := s.token()
	if err != nil {
		return err
	}

	if err := s.gw.LeaveClub(ctx, token, clubID); err != nil {
		return s.checkAuth(ctx, err)
	}

	s.mu.Lock()
	s.dropClubLocked(clubID)
	if s.activeClub == clubID {
		s.activeClub = ""
	}
	s.mu.Unlock()

	return s.RefreshClubs(ctx)
}

// dropClubLocked removes cached state for one club. Callers hold the
// lock. The epoch bump discards responses still in flight for it.
func (s *Store) dropClubLocked(clubID string) {
	delete(s.members, clubID)
	delete(s.messages, clubID)
	delete(s.stats, clubID)
	delete(s.cursors, clubID)
	delete(s.loadingOlder, clubID)
	s.bumpEpochLocked(clubID)
}

func clubParams(name, description, action string, isPrivate bool) gateway.ClubParams {
	params := gateway.ClubParams{
		Name:      strings.TrimSpace(name),
		IsPrivate: isPrivate,
		Action:    strings.TrimSpace(action),
	}
	if trimmed := strings.TrimSpace(description); trimmed != "" {
		params.Description = &trimmed
	}
	return params
}
