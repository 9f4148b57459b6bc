// Package notifications schedules digest runs in daemon mode.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amityadav/newsdigest/internal/core"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// RunTimeout bounds a single scheduled or triggered run
const RunTimeout = 30 * time.Minute

// ErrRunInProgress is returned when a run is requested while another is active
var ErrRunInProgress = errors.New("digest run already in progress")

// Runner executes one digest run
type Runner interface {
	Run(ctx context.Context) (*core.RunResult, error)
}

// Worker runs the digest on a cron schedule and on demand. At most one run is
// active at a time.
type Worker struct {
	runner   Runner
	cron     *cron.Cron
	schedule string
	mu       sync.Mutex
	wg       sync.WaitGroup
}

// NewWorker creates a worker for the given cron spec, evaluated in UTC
func NewWorker(runner Runner, schedule string) (*Worker, error) {
	logger := cron.PrintfLogger(log.StandardLogger())
	w := &Worker{
		runner:   runner,
		schedule: schedule,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}

	if _, err := w.cron.AddFunc(schedule, w.scheduledRun); err != nil {
		return nil, fmt.Errorf("failed to schedule digest job %q: %w", schedule, err)
	}
	return w, nil
}

// Start starts the scheduler
func (w *Worker) Start() {
	w.cron.Start()
	log.Infof("[Worker] Scheduled digest runs at %q (UTC)", w.schedule)
}

// Stop stops the scheduler and waits for an active run to finish
func (w *Worker) Stop() {
	<-w.cron.Stop().Done()
	w.wg.Wait()
	log.Info("[Worker] Stopped")
}

// Trigger starts a run in the background. It returns false when a run is
// already active.
func (w *Worker) Trigger() bool {
	if !w.mu.TryLock() {
		return false
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), RunTimeout)
		defer cancel()

		log.Info("[Worker] Running triggered digest (async)...")
		w.run(ctx)
	}()
	return true
}

// RunNow runs the digest synchronously
func (w *Worker) RunNow(ctx context.Context) (*core.RunResult, error) {
	if !w.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer w.mu.Unlock()

	return w.runner.Run(ctx)
}

func (w *Worker) scheduledRun() {
	ctx, cancel := context.WithTimeout(context.Background(), RunTimeout)
	defer cancel()

	log.Info("[Worker] Running scheduled digest...")
	result, err := w.RunNow(ctx)
	if errors.Is(err, ErrRunInProgress) {
		log.Warn("[Worker] Skipping scheduled run, previous run still active")
		return
	}
	w.report(result, err)
}

func (w *Worker) run(ctx context.Context) {
	w.report(w.runner.Run(ctx))
}

func (w *Worker) report(result *core.RunResult, err error) {
	if err != nil {
		log.Errorf("[Worker] Digest run failed: %v", err)
		return
	}
	log.Infof("[Worker] Digest run complete: %d articles, draft %s", result.Found, result.DraftID)
}
