package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/davidcastaneda/clubsync/api/routes"
	"github.com/davidcastaneda/clubsync/internal/gateway"
	"github.com/davidcastaneda/clubsync/internal/poller"
	"github.com/davidcastaneda/clubsync/internal/scroll"
	"github.com/davidcastaneda/clubsync/internal/store"
	"github.com/davidcastaneda/clubsync/pkg/config"
	"github.com/davidcastaneda/clubsync/pkg/keyval"
	"github.com/davidcastaneda/clubsync/pkg/logger"
	"github.com/davidcastaneda/clubsync/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "syncd"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "syncd",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	kv, err := keyval.New(context.Background(), cfg.State, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open state database", err)
		os.Exit(1)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logg.Error(context.Background(), "error closing state database", err)
		}
	}()

	gw, err := gateway.NewClient(cfg.Remote)
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway client", err)
		os.Exit(1)
	}

	pollMetrics := metrics.NewPollMetrics(prometheus.DefaultRegisterer)
	sched, err := poller.NewScheduler(poller.SchedulerParams{
		Logger:  logg,
		Metrics: pollMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduler", err)
		os.Exit(1)
	}

	st, err := store.New(store.Params{
		Gateway:      gw,
		KV:           kv,
		Logger:       logg,
		Remote:       cfg.Remote,
		OnSessionEnd: sched.StopAll,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create store", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sync := syncLoops{cfg: cfg, sched: sched, st: st, logg: logg}

	restored, err := st.Restore(ctx)
	if err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "could not restore saved session")
	}
	if restored {
		sync.startClubList(ctx)
	}

	addr := ":" + cfg.App.Port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting sync daemon")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, st, scroll.NewController(cfg.Viewport), prometheus.DefaultGatherer, routes.Hooks{
			OnLogin:     sync.startClubList,
			OnClubOpen:  sync.startClubLoops,
			OnClubClose: sched.StopClub,
		}),
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "sync daemon stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(logCtx, "error shutting down http server", err)
	}
	sched.StopAll(context.Background())
	logg.Info(logCtx, "sync daemon shutting down gracefully")
}

// syncLoops wires poll loop lifecycles to session and conversation
// events. Loops are keyed, so repeated logins or re-opens replace
// rather than stack.
type syncLoops struct {
	cfg   *config.Config
	sched *poller.Scheduler
	st    *store.Store
	logg  *logger.Logger
}

func (s *syncLoops) startClubList(ctx context.Context) {
	err := s.sched.Start(context.Background(), "", poller.PurposeClubList, s.cfg.Poll.ClubList, s.st.RefreshClubs)
	if err != nil {
		s.logg.Error(ctx, "failed to start club list polling", err)
	}
}

func (s *syncLoops) startClubLoops(ctx context.Context, clubID string) {
	err := s.sched.Start(context.Background(), clubID, poller.PurposeClubData, s.cfg.Poll.ClubData, func(ctx context.Context) error {
		return s.st.LoadClubData(ctx, clubID)
	})
	if err != nil {
		s.logg.Error(ctx, "failed to start club data polling", err)
	}

	err = s.sched.Start(context.Background(), clubID, poller.PurposeStats, s.cfg.Poll.Stats, func(ctx context.Context) error {
		return s.st.FetchStats(ctx, clubID)
	})
	if err != nil {
		s.logg.Error(ctx, "failed to start stats polling", err)
	}
}
