// Package store is the single owner of all synchronized client state:
// session, clubs, leaderboards, message history, cursors, and
// preferences. Every mutation goes through a store method; everything
// else reads snapshots.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/davidcastaneda/clubsync/internal/domain"
	"github.com/davidcastaneda/clubsync/internal/gateway"
	"github.com/davidcastaneda/clubsync/internal/history"
	"github.com/davidcastaneda/clubsync/pkg/config"
	"github.com/davidcastaneda/clubsync/pkg/enums"
	pkgerrors "github.com/davidcastaneda/clubsync/pkg/errors"
	"github.com/davidcastaneda/clubsync/pkg/logger"
)

// Gateway is the slice of the backend client the store needs.
type Gateway interface {
	Login(ctx context.Context, username, password string) (*gateway.LoginResult, error)
	Signup(ctx context.Context, username, password, avatarID string) error
	UpdateAvatar(ctx context.Context, token, avatarID string) error
	MyClubs(ctx context.Context, token string) ([]gateway.Club, error)
	CreateClub(ctx context.Context, token string, params gateway.ClubParams) (*gateway.Club, error)
	UpdateClub(ctx context.Context, token, clubID string, params gateway.ClubParams) (*gateway.Club, error)
	JoinClub(ctx context.Context, token, code string) error
	LeaveClub(ctx context.Context, token, clubID string) error
	Leaderboard(ctx context.Context, token, clubID string, limit int) ([]gateway.LeaderboardEntry, error)
	IncrementScore(ctx context.Context, token, clubID string) error
	UserStats(ctx context.Context, token, clubID string) (*gateway.Stats, error)
	Messages(ctx context.Context, token, clubID string, limit, offset int) ([]gateway.Message, error)
	SendMessage(ctx context.Context, token, clubID, text, replyToID string) error
}

// KeyValue is the durable state the store persists across restarts.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Persisted keys.
const (
	keySession     = "session"
	keyTheme       = "theme"
	keyPendingJoin = "pending_join_code"
)

// Params configure the store.
type Params struct {
	Gateway Gateway
	KV      KeyValue
	Logger  *logger.Logger
	Remote  config.RemoteConfig

	// OnSessionEnd fires after the session is torn down, on explicit
	// logout and on a 401 from any authenticated call. The daemon uses
	// it to stop the poll loops; the context is the one the teardown
	// was triggered under, so a poll loop can recognize its own stop.
	OnSessionEnd func(ctx context.Context)

	// Now overrides the clock in tests.
	Now func() time.Time
}

// Store holds all client state behind one mutex. Network calls happen
// outside the lock; results are applied under it, guarded by the
// conversation epoch so stale responses are dropped.
type Store struct {
	gw               Gateway
	kv               KeyValue
	logg             *logger.Logger
	pageSize         int
	leaderboardLimit int
	onSessionEnd     func(ctx context.Context)
	now              func() time.Time

	mu           sync.Mutex
	generation   uint64
	session      *domain.Session
	clubs        []domain.Club
	members      map[string][]domain.Member
	messages     map[string][]domain.Message
	stats        map[string]domain.UserStats
	cursors      map[string]*history.Cursor
	loadingOlder map[string]bool
	epochs       map[string]uint64
	activeClub   string
	theme        enums.Theme
}

// New builds the store.
func New(params Params) (*Store, error) {
	if params.Gateway == nil {
		return nil, fmt.Errorf("gateway required")
	}
	if params.KV == nil {
		return nil, fmt.Errorf("key-value store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	pageSize := params.Remote.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	leaderboardLimit := params.Remote.LeaderboardLimit
	if leaderboardLimit <= 0 {
		leaderboardLimit = 50
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}

	return &Store{
		gw:               params.Gateway,
		kv:               params.KV,
		logg:             params.Logger,
		pageSize:         pageSize,
		leaderboardLimit: leaderboardLimit,
		onSessionEnd:     params.OnSessionEnd,
		now:              now,
		members:          make(map[string][]domain.Member),
		messages:         make(map[string][]domain.Message),
		stats:            make(map[string]domain.UserStats),
		cursors:          make(map[string]*history.Cursor),
		loadingOlder:     make(map[string]bool),
		epochs:           make(map[string]uint64),
		theme:            enums.ThemeLight,
	}, nil
}

// Session returns the current session, if any.
func (s *Store) Session() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Session{}, false
	}
	return *s.session, true
}

// Clubs returns the club list in server order.
func (s *Store) Clubs() []domain.Club {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Club, len(s.clubs))
	copy(out, s.clubs)
	return out
}

// Club returns one club by id.
func (s *Store) Club(clubID string) (domain.Club, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clubLocked(clubID)
}

func (s *Store) clubLocked(clubID string) (domain.Club, bool) {
	for _, club := range s.clubs {
		if club.ID == clubID {
			return club, true
		}
	}
	return domain.Club{}, false
}

// Members returns the leaderboard snapshot for one club.
func (s *Store) Members(clubID string) []domain.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Member, len(s.members[clubID]))
	copy(out, s.members[clubID])
	return out
}

// Messages returns the history snapshot for one club, oldest first.
func (s *Store) Messages(clubID string) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.messages[clubID]))
	copy(out, s.messages[clubID])
	return out
}

// Stats returns the cached personal stats for one club.
func (s *Store) Stats(clubID string) (domain.UserStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.stats[clubID]
	return stats, ok
}

// HistoryExhausted reports whether all older pages have been loaded.
func (s *Store) HistoryExhausted(clubID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cursor, ok := s.cursors[clubID]
	return ok && cursor.Exhausted()
}

// ActiveClub returns the conversation currently in view, if any.
func (s *Store) ActiveClub() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeClub, s.activeClub != ""
}

// token returns the bearer token and the session generation it belongs
// to, or an unauthorized error. Callers that apply a network result
// must re-check the generation under the lock first; a logout while
// the request was in flight bumps it, and the result is then dropped.
func (s *Store) token() (string, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return "", 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "not logged in")
	}
	return s.session.Token, s.generation, nil
}

// checkAuth inspects a gateway error and tears the session down on a
// rejected token. It returns the error unchanged for the caller.
func (s *Store) checkAuth(ctx context.Context, err error) error {
	if err == nil || !pkgerrors.IsUnauthorized(err) {
		return err
	}

	s.mu.Lock()
	hadSession := s.session != nil
	s.mu.Unlock()
	if !hadSession {
		return err
	}

	s.logg.Warn(ctx, "token rejected, ending session")
	if logoutErr := s.Logout(ctx); logoutErr != nil {
		s.logg.Error(ctx, "session teardown failed", logoutErr)
	}
	return err
}

// epoch returns the current epoch for a conversation.
func (s *Store) epoch(clubID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epochs[clubID]
}

// bumpEpochLocked invalidates in-flight responses for a conversation.
func (s *Store) bumpEpochLocked(clubID string) {
	s.epochs[clubID]++
}

// resetLocked drops all per-session state. Callers hold the lock. The
// generation bump invalidates every request still in flight, including
// ones for clubs that were never opened and so hold no epoch entry.
func (s *Store) resetLocked() {
	s.generation++
	s.session = nil
	s.clubs = nil
	s.members = make(map[string][]domain.Member)
	s.messages = make(map[string][]domain.Message)
	s.stats = make(map[string]domain.UserStats)
	s.cursors = make(map[string]*history.Cursor)
	s.loadingOlder = make(map[string]bool)
	s.activeClub = ""
	for clubID := range s.epochs {
		s.bumpEpochLocked(clubID)
	}
}
