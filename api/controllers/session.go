package controllers

import (
	"context"
	"net/http"

	"github.com/davidcastaneda/clubsync/api/responses"
	"github.com/davidcastaneda/clubsync/api/validators"
	"github.com/davidcastaneda/clubsync/internal/domain"
	pkgerrors "github.com/davidcastaneda/clubsync/pkg/errors"
	"github.com/davidcastaneda/clubsync/pkg/logger"
)

type sessionService interface {
	Login(ctx context.Context, username, password string) error
	Signup(ctx context.Context, username, password, avatarID string) error
	Logout(ctx context.Context) error
	UpdateAvatar(ctx context.Context, avatarID string) error
	Session() (domain.Session, bool)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=2"`
	Password string `json:"password" validate:"required,min=4"`
	AvatarID string `json:"avatar_id"`
}

type avatarRequest struct {
	AvatarID string `json:"avatar_id" validate:"required"`
}

type sessionResponse struct {
	User domain.User `json:"user"`
}

// SessionCurrent reports the logged-in user. The token never leaves
// the daemon.
func SessionCurrent(svc sessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := svc.Session()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "not logged in"))
			return
		}
		responses.WriteSuccess(w, sessionResponse{User: session.User})
	}
}

// SessionLogin authenticates and starts the background sync, via the
// onLogin hook.
func SessionLogin(svc sessionService, onLogin func(context.Context), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Login(r.Context(), body.Username, body.Password); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if onLogin != nil {
			onLogin(r.Context())
		}

		session, _ := svc.Session()
		responses.WriteSuccess(w, sessionResponse{User: session.User})
	}
}

// SessionSignup creates the account and logs straight in.
func SessionSignup(svc sessionService, onLogin func(context.Context), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body signupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Signup(r.Context(), body.Username, body.Password, body.AvatarID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if onLogin != nil {
			onLogin(r.Context())
		}

		session, _ := svc.Session()
		responses.WriteSuccessStatus(w, http.StatusCreated, sessionResponse{User: session.User})
	}
}

// SessionLogout tears the session down. The store fires the
// session-end hook that stops the poll loops.
func SessionLogout(svc sessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// SessionAvatar updates the avatar selection.
func SessionAvatar(svc sessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body avatarRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateAvatar(r.Context(), body.AvatarID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, _ := svc.Session()
		responses.WriteSuccess(w, sessionResponse{User: session.User})
	}
}
