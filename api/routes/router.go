package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davidcastaneda/clubsync/api/controllers"
	"github.com/davidcastaneda/clubsync/api/middleware"
	"github.com/davidcastaneda/clubsync/internal/scroll"
	"github.com/davidcastaneda/clubsync/internal/store"
	"github.com/davidcastaneda/clubsync/pkg/config"
	"github.com/davidcastaneda/clubsync/pkg/logger"
)

// Hooks let the daemon react to lifecycle events the HTTP surface
// triggers: starting the club-list loop after login, starting and
// stopping per-club loops as conversations open and close.
type Hooks struct {
	OnLogin     func(ctx context.Context)
	OnClubOpen  func(ctx context.Context, clubID string)
	OnClubClose func(clubID string)
}

// NewRouter wires the local HTTP surface over the synchronized store.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	st *store.Store,
	scrollCtrl *scroll.Controller,
	gatherer prometheus.Gatherer,
	hooks Hooks,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/healthz", controllers.Healthz(cfg))
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// closeClub stops loops and forgets viewport state alongside the
	// store-side close.
	closeClub := func(clubID string) {
		if hooks.OnClubClose != nil {
			hooks.OnClubClose(clubID)
		}
		scrollCtrl.Forget(clubID)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionCurrent(st, logg))
			r.Post("/login", controllers.SessionLogin(st, hooks.OnLogin, logg))
			r.Post("/signup", controllers.SessionSignup(st, hooks.OnLogin, logg))
			r.Post("/logout", controllers.SessionLogout(st, logg))
			r.Put("/avatar", controllers.SessionAvatar(st, logg))
		})

		r.Route("/theme", func(r chi.Router) {
			r.Get("/", controllers.ThemeGet(st, logg))
			r.Post("/toggle", controllers.ThemeToggle(st, logg))
		})

		r.Route("/clubs", func(r chi.Router) {
			r.Get("/", controllers.ClubList(st, logg))
			r.Post("/", controllers.ClubCreate(st, logg))
			r.Post("/refresh", controllers.ClubRefresh(st, logg))
			r.Post("/join", controllers.ClubJoin(st, logg))
			r.Post("/pending-join", controllers.ClubPendingJoin(st, logg))

			r.Route("/{clubID}", func(r chi.Router) {
				r.Put("/", controllers.ClubUpdate(st, logg))
				r.Delete("/members", controllers.ClubLeave(st, closeClub, logg))

				r.Post("/open", controllers.ClubOpen(st, hooks.OnClubOpen, logg))
				r.Post("/close", controllers.ClubClose(st, closeClub, logg))

				r.Get("/messages", controllers.ClubMessages(st, logg))
				r.Post("/messages", controllers.ClubMessageSend(st, logg))
				r.Post("/messages/older", controllers.ClubMessagesOlder(st, logg))

				r.Get("/leaderboard", controllers.ClubLeaderboard(st, logg))
				r.Get("/stats", controllers.ClubStats(st, logg))
				r.Post("/increment", controllers.ClubIncrement(st, logg))

				r.Post("/viewport", controllers.ClubViewport(scrollCtrl, st, logg))
			})
		})
	})

	return r
}
