package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
	"github.com/vietcalls99/UptimeKit-CLI/internal/repo"
)

const defaultReconcileInterval = 10 * time.Second

// Scheduler keeps one polling loop alive per persisted monitor. A
// reconciliation tick diffs the store against the running loops and starts,
// stops, or restarts them as monitors are added, edited, or removed.
type Scheduler struct {
	logger    *zap.Logger
	monitors  repo.MonitorStore
	checker   *Checker
	reconcile time.Duration

	mu     sync.Mutex
	active map[domain.MonitorID]*entry
	ctx    context.Context // root ctx for in-flight checks, set by Run
}

// entry is the bookkeeping for one running monitor loop.
type entry struct {
	monitor domain.Monitor  // snapshot the loop was started with
	baseCtx context.Context // outlives loop cancellation; checks run on it
	cancel  context.CancelFunc
	done    chan struct{}

	stateMu sync.Mutex
	state   State
}

func New(logger *zap.Logger, monitors repo.MonitorStore, checker *Checker, reconcileInterval time.Duration) *Scheduler {
	if reconcileInterval <= 0 {
		reconcileInterval = defaultReconcileInterval
	}
	return &Scheduler{
		logger:    logger,
		monitors:  monitors,
		checker:   checker,
		reconcile: reconcileInterval,
		active:    make(map[domain.MonitorID]*entry),
	}
}

// Run reconciles immediately, then on every tick, until ctx is cancelled.
// On return every monitor loop has been cancelled and drained.
func (s *Scheduler) Run(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	t := time.NewTicker(s.reconcile)
	defer t.Stop()

	s.reconcileOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.stopAll()
			s.logger.Info("scheduler_stopped")
			return
		case <-t.C:
			s.reconcileOnce(ctx)
		}
	}
}

// reconcileOnce aligns running loops with the persisted monitor list. A
// listing failure skips the tick and leaves the active set untouched.
func (s *Scheduler) reconcileOnce(ctx context.Context) {
	monitors, err := s.monitors.List(ctx)
	if err != nil {
		s.logger.Warn("reconcile_list_error", zap.Error(err))
		return
	}

	desired := make(map[domain.MonitorID]domain.Monitor, len(monitors))
	for _, m := range monitors {
		desired[m.ID] = m
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Deleted monitors: cancel the loop and drop the state entry as one
	// atomic step relative to reconciliation.
	for id, e := range s.active {
		if _, ok := desired[id]; ok {
			continue
		}
		s.stopEntryLocked(e)
		delete(s.active, id)
		s.logger.Info("monitor_unscheduled", zap.String("monitor_id", string(id)))
	}

	for id, m := range desired {
		e, ok := s.active[id]
		if !ok {
			// New monitor: fresh state, unknown status.
			s.startLocked(m, State{})
			s.logger.Info("monitor_scheduled",
				zap.String("monitor_id", string(id)),
				zap.String("type", string(m.Type)),
				zap.Int("interval_s", m.IntervalS),
			)
			continue
		}
		if !needsRestart(e.monitor, m) {
			continue
		}
		// Config change: rebuild the loop, carrying the last status so the
		// edit itself cannot look like a transition. The expiry watermark
		// resets with the loop. The state is read only after the drain, so
		// an in-flight check that finishes during it is still carried.
		s.stopEntryLocked(e)
		delete(s.active, id)
		e.stateMu.Lock()
		carried := State{LastStatus: e.state.LastStatus}
		e.stateMu.Unlock()
		s.startLocked(m, carried)
		s.logger.Info("monitor_rescheduled",
			zap.String("monitor_id", string(id)),
			zap.Int("interval_s", m.IntervalS),
		)
	}
}

func needsRestart(old, cur domain.Monitor) bool {
	return old.IntervalS != cur.IntervalS || old.Target != cur.Target || old.Type != cur.Type
}

// startLocked starts a loop for m. Caller holds s.mu.
func (s *Scheduler) startLocked(m domain.Monitor, st State) {
	base := s.ctx
	if base == nil {
		base = context.Background()
	}
	loopCtx, cancel := context.WithCancel(context.Background())
	e := &entry{
		monitor: m,
		baseCtx: base,
		cancel:  cancel,
		done:    make(chan struct{}),
		state:   st,
	}
	s.active[m.ID] = e
	go s.runLoop(loopCtx, e)
}

// stopEntryLocked cancels a loop and waits for it to drain, so a
// replacement loop for the same id can never overlap with the old one.
func (s *Scheduler) stopEntryLocked(e *entry) {
	e.cancel()
	<-e.done
}

func (s *Scheduler) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.active {
		s.stopEntryLocked(e)
		delete(s.active, id)
	}
}

// runLoop checks immediately, then on the monitor's own cadence. The loop is
// strictly serial: a probe that outlives the interval defers the next tick
// instead of overlapping it.
func (s *Scheduler) runLoop(loopCtx context.Context, e *entry) {
	defer close(e.done)

	s.runCheck(e)

	t := time.NewTicker(e.monitor.Interval())
	defer t.Stop()

	for {
		select {
		case <-loopCtx.Done():
			return
		case <-t.C:
			s.runCheck(e)
		}
	}
}

// runCheck executes one check against the loop's monitor snapshot. The
// check runs on the scheduler's root context, not the loop context, so a
// cancelled loop finishes its in-flight probe naturally (the heartbeat is
// still persisted). The result only mutates the entry's own state, so it
// cannot resurrect an entry the registry already dropped. Must not touch
// s.mu: reconciliation holds it while draining this loop.
func (s *Scheduler) runCheck(e *entry) {
	e.stateMu.Lock()
	prior := e.state
	e.stateMu.Unlock()

	next := s.checker.Check(e.baseCtx, e.monitor, prior)

	e.stateMu.Lock()
	e.state = next
	e.stateMu.Unlock()
}

// LastStatus reports the in-memory status of a scheduled monitor, for the
// API's monitor listing. False when no loop is running for the id.
func (s *Scheduler) LastStatus(id domain.MonitorID) (domain.Status, bool) {
	s.mu.Lock()
	e, ok := s.active[id]
	s.mu.Unlock()
	if !ok {
		return domain.StatusUnknown, false
	}
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.state.LastStatus, true
}

// ActiveCount reports how many loops are running.
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}
