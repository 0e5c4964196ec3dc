package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidcastaneda/clubsync/api/responses"
	"github.com/davidcastaneda/clubsync/api/validators"
	"github.com/davidcastaneda/clubsync/internal/domain"
	"github.com/davidcastaneda/clubsync/internal/scroll"
	"github.com/davidcastaneda/clubsync/pkg/logger"
)

type viewportStore interface {
	Messages(clubID string) []domain.Message
	Session() (domain.Session, bool)
}

type viewportRequest struct {
	Event   string         `json:"event" validate:"required,oneof=prepend append populate bottom"`
	Metrics scroll.Metrics `json:"metrics"`
}

// ClubViewport reports a history change or user gesture and gets back
// the scroll command the view should apply. For appends, whether the
// newest message is the user's own is derived here from store state,
// not trusted from the caller.
func ClubViewport(ctrl *scroll.Controller, store viewportStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body viewportRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clubID := chi.URLParam(r, "clubID")

		var cmd scroll.Command
		switch body.Event {
		case "prepend":
			cmd = ctrl.Prepended(clubID, body.Metrics)
		case "append":
			own, peek := newestMessageInfo(store, clubID)
			cmd = ctrl.Appended(clubID, body.Metrics, own, peek)
		case "populate":
			cmd = ctrl.Populated(clubID)
		case "bottom":
			cmd = ctrl.BottomRequested(clubID)
		}

		responses.WriteSuccess(w, cmd)
	}
}

func newestMessageInfo(store viewportStore, clubID string) (bool, scroll.Peek) {
	messages := store.Messages(clubID)
	if len(messages) == 0 {
		return false, scroll.Peek{}
	}

	newest := messages[len(messages)-1]
	peek := scroll.Peek{Username: newest.Username, Text: newest.Text}

	session, ok := store.Session()
	if !ok {
		return false, peek
	}
	return newest.AuthorID == session.User.ID, peek
}
