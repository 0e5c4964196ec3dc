package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/davidcastaneda/clubsync/internal/domain"
	"github.com/davidcastaneda/clubsync/pkg/enums"
	pkgerrors "github.com/davidcastaneda/clubsync/pkg/errors"
)

// Restore loads the persisted session at startup. A missing or expired
// token leaves the store logged out without error; the user simply has
// to sign in again.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	if raw, ok, err := s.kv.Get(ctx, keyTheme); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read persisted theme")
	} else if ok {
		if theme, parseErr := enums.ParseTheme(raw); parseErr == nil {
			s.mu.Lock()
			s.theme = theme
			s.mu.Unlock()
		}
	}

	raw, ok, err := s.kv.Get(ctx, keySession)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read persisted session")
	}
	if !ok {
		return false, nil
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.logg.Warn(ctx, "persisted session is corrupt, discarding")
		_ = s.kv.Delete(ctx, keySession)
		return false, nil
	}

	if s.tokenExpired(session.Token) {
		s.logg.Info(ctx, "persisted session expired, discarding")
		_ = s.kv.Delete(ctx, keySession)
		return false, nil
	}

	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()

	userCtx := s.logg.WithUserID(ctx, session.User.ID)
	s.logg.Info(userCtx, "session restored")
	return true, nil
}

// tokenExpired peeks at the token's exp claim without verifying the
// signature; the backend is the authority, this only avoids starting
// up with a token that is certainly dead. Tokens that do not parse as
// JWTs are kept and left for the backend to judge.
func (s *Store) tokenExpired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(s.now())
}

// Login authenticates, stores and persists the session, then applies a
// pending invite code left over from a join link hit while logged out.
func (s *Store) Login(ctx context.Context, username, password string) error {
	result, err := s.gw.Login(ctx, username, password)
	if err != nil {
		return err
	}

	session := domain.Session{
		User:  toUser(result.User),
		Token: result.Token,
	}

	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()

	if err := s.persistSession(ctx, session); err != nil {
		return err
	}

	userCtx := s.logg.WithUserID(ctx, session.User.ID)
	s.logg.Info(userCtx, "logged in")

	s.applyPendingJoin(userCtx)
	return nil
}

// Signup creates the account and immediately logs in with the same
// credentials; the signup endpoint does not return a token.
func (s *Store) Signup(ctx context.Context, username, password, avatarID string) error {
	if err := s.gw.Signup(ctx, username, password, avatarID); err != nil {
		return err
	}
	return s.Login(ctx, username, password)
}

// Logout clears all state, removes the persisted session, and fires
// the session-end hook.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	err := s.kv.Delete(ctx, keySession)
	s.logg.Info(ctx, "logged out")

	if s.onSessionEnd != nil {
		s.onSessionEnd(ctx)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove persisted session")
	}
	return nil
}

// UpdateAvatar changes the avatar remotely and in the stored session.
func (s *Store) UpdateAvatar(ctx context.Context, avatarID string) error {
	token, _, err := s.token()
	if err != nil {
		return err
	}

	if err := s.gw.UpdateAvatar(ctx, token, avatarID); err != nil {
		return s.checkAuth(ctx, err)
	}

	s.mu.Lock()
	var updated domain.Session
	if s.session != nil {
		s.session.User.AvatarID = avatarID
		updated = *s.session
	}
	s.mu.Unlock()

	if updated.Token == "" {
		return nil
	}
	return s.persistSession(ctx, updated)
}

// Theme returns the current display preference.
func (s *Store) Theme() enums.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// ToggleTheme flips the preference and persists it.
func (s *Store) ToggleTheme(ctx context.Context) (enums.Theme, error) {
	s.mu.Lock()
	s.theme = s.theme.Toggle()
	theme := s.theme
	s.mu.Unlock()

	if err := s.kv.Set(ctx, keyTheme, theme.String()); err != nil {
		return theme, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist theme")
	}
	return theme, nil
}

// SetPendingJoinCode stashes an invite code hit while logged out so
// the join completes after the next login.
func (s *Store) SetPendingJoinCode(ctx context.Context, code string) error {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "invite code is required")
	}
	if err := s.kv.Set(ctx, keyPendingJoin, trimmed); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist pending invite code")
	}
	return nil
}

// PendingJoinCode reports the stashed invite code, if any.
func (s *Store) PendingJoinCode(ctx context.Context) (string, bool) {
	code, ok, err := s.kv.Get(ctx, keyPendingJoin)
	if err != nil {
		s.logg.Error(ctx, "read pending invite code", err)
		return "", false
	}
	return code, ok
}

// applyPendingJoin consumes a stashed invite code after login. Failure
// is logged, not surfaced; the user can always join manually.
func (s *Store) applyPendingJoin(ctx context.Context) {
	code, ok := s.PendingJoinCode(ctx)
	if !ok {
		return
	}

	if err := s.JoinClub(ctx, code); err != nil {
		s.logg.Error(ctx, "pending invite join failed", err)
	}
	if err := s.kv.Delete(ctx, keyPendingJoin); err != nil {
		s.logg.Error(ctx, "clear pending invite code", err)
	}
}

func (s *Store) persistSession(ctx context.Context, session domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	if err := s.kv.Set(ctx, keySession, string(payload)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist session")
	}
	return nil
}
