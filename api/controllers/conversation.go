package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidcastaneda/clubsync/api/responses"
	"github.com/davidcastaneda/clubsync/api/validators"
	"github.com/davidcastaneda/clubsync/internal/domain"
	pkgerrors "github.com/davidcastaneda/clubsync/pkg/errors"
	"github.com/davidcastaneda/clubsync/pkg/logger"
)

type conversationService interface {
	OpenClub(ctx context.Context, clubID string) error
	CloseClub(clubID string)
	LoadOlderMessages(ctx context.Context, clubID string) (bool, error)
	SendMessage(ctx context.Context, clubID, text, replyToID string) error
	IncrementScore(ctx context.Context, clubID string) error
	FetchStats(ctx context.Context, clubID string) error
	Messages(clubID string) []domain.Message
	Members(clubID string) []domain.Member
	Stats(clubID string) (domain.UserStats, bool)
	HistoryExhausted(clubID string) bool
}

type sendMessageRequest struct {
	Text      string `json:"text" validate:"required,max=2000"`
	ReplyToID string `json:"reply_to_id"`
}

type messagesResponse struct {
	Messages  []domain.Message `json:"messages"`
	Exhausted bool             `json:"exhausted"`
}

type olderResponse struct {
	Merged    bool `json:"merged"`
	Exhausted bool `json:"exhausted"`
}

type leaderboardResponse struct {
	Members []domain.Member `json:"members"`
}

// ClubOpen makes a club the active conversation and starts its poll
// loops via the onOpen hook.
func ClubOpen(svc conversationService, onOpen func(ctx context.Context, clubID string), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubID := chi.URLParam(r, "clubID")
		if err := svc.OpenClub(r.Context(), clubID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if onOpen != nil {
			onOpen(r.Context(), clubID)
		}
		responses.WriteSuccess(w, messagesResponse{
			Messages:  svc.Messages(clubID),
			Exhausted: svc.HistoryExhausted(clubID),
		})
	}
}

// ClubClose leaves the conversation view and stops its poll loops.
func ClubClose(svc conversationService, onClose func(clubID string), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubID := chi.URLParam(r, "clubID")
		svc.CloseClub(clubID)
		if onClose != nil {
			onClose(clubID)
		}
		responses.WriteSuccess(w, map[string]string{"status": "closed"})
	}
}

// ClubMessages returns the current history snapshot, oldest first.
func ClubMessages(svc conversationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubID := chi.URLParam(r, "clubID")
		responses.WriteSuccess(w, messagesResponse{
			Messages:  svc.Messages(clubID),
			Exhausted: svc.HistoryExhausted(clubID),
		})
	}
}

// ClubMessagesOlder loads one page further back in history.
func ClubMessagesOlder(svc conversationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubID := chi.URLParam(r, "clubID")
		merged, err := svc.LoadOlderMessages(r.Context(), clubID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, olderResponse{
			Merged:    merged,
			Exhausted: svc.HistoryExhausted(clubID),
		})
	}
}

// ClubMessageSend posts a message and returns the reloaded history.
// The caller has already cleared its input; a failure here does not
// bring the text back.
func ClubMessageSend(svc conversationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body sendMessageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clubID := chi.URLParam(r, "clubID")
		if err := svc.SendMessage(r.Context(), clubID, body.Text, body.ReplyToID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, messagesResponse{
			Messages:  svc.Messages(clubID),
			Exhausted: svc.HistoryExhausted(clubID),
		})
	}
}

// ClubLeaderboard returns the cached leaderboard snapshot.
func ClubLeaderboard(svc conversationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubID := chi.URLParam(r, "clubID")
		responses.WriteSuccess(w, leaderboardResponse{Members: svc.Members(clubID)})
	}
}

// ClubStats returns the caller's stats, fetching them on a cache miss.
func ClubStats(svc conversationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubID := chi.URLParam(r, "clubID")
		stats, ok := svc.Stats(clubID)
		if !ok {
			if err := svc.FetchStats(r.Context(), clubID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			stats, ok = svc.Stats(clubID)
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no stats for club"))
				return
			}
		}
		responses.WriteSuccess(w, stats)
	}
}

// ClubIncrement records one check-in, cooldown permitting.
func ClubIncrement(svc conversationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubID := chi.URLParam(r, "clubID")
		if err := svc.IncrementScore(r.Context(), clubID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "checked_in"})
	}
}
