package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidcastaneda/clubsync/api/responses"
	"github.com/davidcastaneda/clubsync/api/validators"
	"github.com/davidcastaneda/clubsync/internal/domain"
	"github.com/davidcastaneda/clubsync/pkg/logger"
)

type clubService interface {
	Clubs() []domain.Club
	RefreshClubs(ctx context.Context) error
	CreateClub(ctx context.Context, name, description, action string, isPrivate bool) (domain.Club, error)
	UpdateClubInfo(ctx context.Context, clubID, name, description, action string, isPrivate bool) (domain.Club, error)
	JoinClub(ctx context.Context, code string) error
	LeaveClub(ctx context.Context, clubID string) error
	SetPendingJoinCode(ctx context.Context, code string) error
}

type clubRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=80"`
	Description string `json:"description" validate:"max=500"`
	Action      string `json:"action"`
	IsPrivate   bool   `json:"is_private"`
}

type joinRequest struct {
	Code string `json:"code" validate:"required"`
}

type clubListResponse struct {
	Clubs []domain.Club `json:"clubs"`
}

// ClubList returns the cached membership list.
func ClubList(svc clubService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, clubListResponse{Clubs: svc.Clubs()})
	}
}

// ClubRefresh forces a club-list fetch outside the polling cadence.
func ClubRefresh(svc clubService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.RefreshClubs(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, clubListResponse{Clubs: svc.Clubs()})
	}
}

// ClubCreate creates a club.
func ClubCreate(svc clubService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body clubRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		club, err := svc.CreateClub(r.Context(), body.Name, body.Description, body.Action, body.IsPrivate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, club)
	}
}

// ClubUpdate edits a club's metadata.
func ClubUpdate(svc clubService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body clubRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clubID := chi.URLParam(r, "clubID")
		club, err := svc.UpdateClubInfo(r.Context(), clubID, body.Name, body.Description, body.Action, body.IsPrivate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, club)
	}
}

// ClubJoin joins by invite code.
func ClubJoin(svc clubService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body joinRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.JoinClub(r.Context(), body.Code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, clubListResponse{Clubs: svc.Clubs()})
	}
}

// ClubPendingJoin stashes an invite code for after the next login.
func ClubPendingJoin(svc clubService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body joinRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetPendingJoinCode(r.Context(), body.Code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "pending"})
	}
}

// ClubLeave removes the caller from a club.
func ClubLeave(svc clubService, onLeave func(clubID string), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubID := chi.URLParam(r, "clubID")
		if err := svc.LeaveClub(r.Context(), clubID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if onLeave != nil {
			onLeave(clubID)
		}
		responses.WriteSuccess(w, clubListResponse{Clubs: svc.Clubs()})
	}
}
