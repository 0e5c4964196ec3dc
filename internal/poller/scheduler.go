// Package poller runs the repeating refresh loops that keep the local
// store in step with the backend. Each loop is owned by a
// (club, purpose) key; starting a key replaces any loop already
// running for it, so two timers never poll the same thing at once.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/davidcastaneda/clubsync/pkg/logger"
	"github.com/davidcastaneda/clubsync/pkg/metrics"
)

// Purposes distinguish the refresh loops a club can own. The club list
// loop is global and uses an empty club ID.
const (
	PurposeClubList = "club_list"
	PurposeClubData = "club_data"
	PurposeStats    = "stats"
)

// Task is one unit of refresh work. Errors are logged and counted,
// never propagated; a failed tick must not stop the loop.
type Task func(ctx context.Context) error

// SchedulerParams configure the scheduler.
type SchedulerParams struct {
	Logger  *logger.Logger
	Metrics *metrics.PollMetrics
}

// Scheduler owns all running poll loops.
type Scheduler struct {
	logg    *logger.Logger
	metrics *metrics.PollMetrics

	mu      sync.Mutex
	runners map[loopKey]*runner
}

type loopKey struct {
	clubID  string
	purpose string
}

type runner struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// runnerCtxKey marks a loop's context with its own runner, so a stop
// issued from inside one of its ticks can be told apart from a stop
// issued by another goroutine.
type runnerCtxKey struct{}

// NewScheduler builds a scheduler.
func NewScheduler(params SchedulerParams) (*Scheduler, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Scheduler{
		logg:    params.Logger,
		metrics: params.Metrics,
		runners: make(map[loopKey]*runner),
	}, nil
}

// Start launches a poll loop for the key, replacing and fully stopping
// any loop already registered for it. The task runs once immediately,
// then on every tick until the key is stopped or the parent context is
// canceled.
func (s *Scheduler) Start(ctx context.Context, clubID, purpose string, interval time.Duration, task Task) error {
	if task == nil {
		return fmt.Errorf("task required")
	}
	if interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	key := loopKey{clubID: clubID, purpose: purpose}
	s.stopKey(ctx, key)

	loopCtx, cancel := context.WithCancel(ctx)
	loopCtx = s.logg.WithPurpose(loopCtx, purpose)
	if clubID != "" {
		loopCtx = s.logg.WithClubID(loopCtx, clubID)
	}

	run := &runner{cancel: cancel, done: make(chan struct{})}
	loopCtx = context.WithValue(loopCtx, runnerCtxKey{}, run)

	s.mu.Lock()
	s.runners[key] = run
	s.mu.Unlock()

	go s.loop(loopCtx, run, purpose, interval, task)
	return nil
}

// Stop cancels the loop for one key and waits for it to exit.
func (s *Scheduler) Stop(clubID, purpose string) {
	s.stopKey(context.Background(), loopKey{clubID: clubID, purpose: purpose})
}

// StopClub cancels every loop owned by one club.
func (s *Scheduler) StopClub(clubID string) {
	for _, key := range s.keys() {
		if key.clubID == clubID {
			s.stopKey(context.Background(), key)
		}
	}
}

// StopAll cancels every loop. Called on logout and shutdown. Safe to
// call from inside a poll tick: a 401 mid-tick tears the session down
// through this path, so the calling loop is canceled without waiting
// for it, while every other loop is stopped and drained.
func (s *Scheduler) StopAll(ctx context.Context) {
	for _, key := range s.keys() {
		s.stopKey(ctx, key)
	}
}

// Active reports how many loops are currently registered.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runners)
}

func (s *Scheduler) keys() []loopKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]loopKey, 0, len(s.runners))
	for key := range s.runners {
		keys = append(keys, key)
	}
	return keys
}

func (s *Scheduler) stopKey(ctx context.Context, key loopKey) {
	s.mu.Lock()
	run, ok := s.runners[key]
	if ok {
		delete(s.runners, key)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	run.cancel()
	if owner, _ := ctx.Value(runnerCtxKey{}).(*runner); owner == run {
		// The stop came from this runner's own tick; it exits as soon
		// as the tick returns. Waiting here would never finish.
		return
	}
	<-run.done
}

func (s *Scheduler) loop(ctx context.Context, run *runner, purpose string, interval time.Duration, task Task) {
	defer close(run.done)

	s.logg.Info(ctx, "poll loop started")
	s.tick(ctx, purpose, task)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "poll loop stopped")
			return
		case <-ticker.C:
			s.tick(ctx, purpose, task)
		}
	}
}

// tick runs the task once. A canceled context between the select and
// the task call shows up as the task's own error and is swallowed like
// any other.
func (s *Scheduler) tick(ctx context.Context, purpose string, task Task) {
	start := time.Now()
	err := task(ctx)
	duration := time.Since(start)
	s.metrics.ObserveDuration(purpose, duration)

	tickCtx := s.logg.WithField(ctx, "duration_ms", duration.Milliseconds())
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logg.Error(tickCtx, "poll tick failed", err)
		s.metrics.IncFailure(purpose)
		return
	}
	s.logg.Debug(tickCtx, "poll tick completed")
	s.metrics.IncSuccess(purpose)
}
