// Package scheduler drives the reminder cycle at a fixed cadence for the
// lifetime of the process.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CycleFunc is one scan-and-dispatch cycle. It must handle its own errors;
// the Clock only guards against panics escaping a cycle.
type CycleFunc func(ctx context.Context)

// Status is a read-only snapshot of the Clock's state.
type Status struct {
	IsRunning   bool           `json:"is_running"`
	LastRunTime *time.Time     `json:"last_run_time"`
	RunCount    uint64         `json:"run_count"`
	NextRunIn   *time.Duration `json:"next_run_in"`
}

// Clock fires the cycle once per interval. The next cycle is armed only
// after the previous one completes, so a slow cycle (unresponsive database,
// hanging push service) can delay but never overlap its successor. A panic
// inside a cycle is caught at the cycle boundary and does not stop the Clock.
//
// Created once at process boot and injected where needed; stopped at
// shutdown. Start and Stop are idempotent. Stop never interrupts a cycle
// already in flight, it only cancels future scheduling.
//
// Each Start opens a new generation of the scheduling chain. A cycle only
// re-arms the timer for its own generation, so a cycle that finishes after a
// stop/start restart cannot arm a second chain next to the new one.
type Clock struct {
	interval time.Duration
	enabled  bool
	cycle    CycleFunc
	logger   *zap.Logger
	onState  func(running bool)
	onCycle  func(elapsed time.Duration)

	mu         sync.Mutex
	running    bool
	generation uint64
	timer      *time.Timer
	ctx        context.Context
	lastRun    *time.Time
	runCount   uint64
}

// Hooks lets the Clock report cycle metrics without importing the metrics
// package. Both fields are optional (nil = no-op).
type Hooks struct {
	OnState func(running bool)
	OnCycle func(elapsed time.Duration)
}

func New(interval time.Duration, enabled bool, cycle CycleFunc, logger *zap.Logger, hooks Hooks) *Clock {
	if hooks.OnState == nil {
		hooks.OnState = func(bool) {}
	}
	if hooks.OnCycle == nil {
		hooks.OnCycle = func(time.Duration) {}
	}
	return &Clock{
		interval: interval,
		enabled:  enabled,
		cycle:    cycle,
		logger:   logger,
		onState:  hooks.OnState,
		onCycle:  hooks.OnCycle,
	}
}

// Start arms the Clock and immediately triggers the first cycle.
// A no-op when already running, or when the Clock is disabled by
// configuration (deployment safeguard against duplicate schedulers).
func (c *Clock) Start(ctx context.Context) {
	if !c.enabled {
		c.logger.Info("reminder clock disabled by configuration, not starting")
		return
	}

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		c.logger.Info("reminder clock already running")
		return
	}
	c.running = true
	c.generation++
	gen := c.generation
	c.ctx = ctx
	c.mu.Unlock()

	c.onState(true)
	c.logger.Info("reminder clock started", zap.Duration("interval", c.interval))
	go c.run(gen)
}

// Stop cancels future scheduling. A cycle already in flight finishes
// normally but does not re-arm. A no-op when not running.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		c.logger.Info("reminder clock already stopped")
		return
	}
	c.running = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.onState(false)
	c.logger.Info("reminder clock stopped")
}

// Status returns a snapshot. Never blocks on a running cycle.
func (c *Clock) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Status{
		IsRunning: c.running,
		RunCount:  c.runCount,
	}
	if c.lastRun != nil {
		t := *c.lastRun
		s.LastRunTime = &t
	}
	if c.running {
		d := c.interval
		s.NextRunIn = &d
	}
	return s
}

// run executes one cycle, records completion, and re-arms the timer from
// inside its own completion path so cycles can never overlap. gen is the
// generation this chain belongs to; a cycle whose Start has since been
// superseded by a stop/start restart must not re-arm, or the restarted chain
// would run alongside an orphaned one that no Stop can reach.
func (c *Clock) run(gen uint64) {
	c.mu.Lock()
	ctx := c.ctx
	seq := c.runCount + 1
	c.mu.Unlock()

	start := time.Now().UTC()
	c.runCycle(ctx, seq)
	elapsed := time.Since(start)
	c.onCycle(elapsed)

	c.mu.Lock()
	defer c.mu.Unlock()
	done := time.Now().UTC()
	c.lastRun = &done
	c.runCount++
	if c.running && gen == c.generation {
		c.timer = time.AfterFunc(c.interval, func() { c.run(gen) })
	}

	c.logger.Debug("reminder cycle completed",
		zap.Uint64("cycle", seq), zap.Duration("elapsed", elapsed))
}

// runCycle isolates the cycle so a panic cannot kill the scheduling loop.
func (c *Clock) runCycle(ctx context.Context, seq uint64) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic in reminder cycle",
				zap.Uint64("cycle", seq), zap.Any("panic", r))
		}
	}()
	c.cycle(ctx)
}
