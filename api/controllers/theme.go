package controllers

import (
	"context"
	"net/http"

	"github.com/davidcastaneda/clubsync/api/responses"
	"github.com/davidcastaneda/clubsync/pkg/enums"
	"github.com/davidcastaneda/clubsync/pkg/logger"
)

type themeService interface {
	Theme() enums.Theme
	ToggleTheme(ctx context.Context) (enums.Theme, error)
}

type themeResponse struct {
	Theme enums.Theme `json:"theme"`
}

// ThemeGet returns the persisted display preference.
func ThemeGet(svc themeService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, themeResponse{Theme: svc.Theme()})
	}
}

// ThemeToggle flips between light and dark.
func ThemeToggle(svc themeService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		theme, err := svc.ToggleTheme(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, themeResponse{Theme: theme})
	}
}
