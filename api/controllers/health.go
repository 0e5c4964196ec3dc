package controllers

import (
	"net/http"

	"github.com/davidcastaneda/clubsync/api/responses"
	"github.com/davidcastaneda/clubsync/pkg/config"
)

// Healthz is the liveness probe.
func Healthz(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ClubSync-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}
