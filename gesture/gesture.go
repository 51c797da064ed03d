// Package gesture implements the press-and-hold confirmation control that
// gates analysis submission. The gesture must be fully abortable: releasing
// before the hold duration elapses never fires the bound action, and every
// pending timer is cancelled on early release or teardown so no callback
// fires into an owner that is gone.
package gesture

import (
	"sync"
	"time"
)

// State of the confirmation gesture.
type State string

const (
	StateIdle       State = "idle"
	StateHolding    State = "holding"
	StatePublishing State = "publishing"
	StatePublished  State = "published"
)

// Default timing. The hold duration is how long the user must keep pressing;
// the settle and display delays pace the publishing -> published -> idle
// auto-revert with no further input.
const (
	DefaultHoldDuration     = 2000 * time.Millisecond
	DefaultSettleDelay      = 1000 * time.Millisecond
	DefaultDisplayDelay     = 3000 * time.Millisecond
	DefaultProgressInterval = 30 * time.Millisecond
)

// Config wires the gesture to its owner. Labels and delays carry no business
// logic; the action is the single bound side effect.
type Config struct {
	HoldDuration     time.Duration
	SettleDelay      time.Duration
	DisplayDelay     time.Duration
	ProgressInterval time.Duration

	IdleLabel       string
	PublishingLabel string
	PublishedLabel  string

	Action     func()        // invoked exactly once per completed hold
	Haptic     func()        // optional pulse on publish settle
	OnProgress func(float64) // optional sampler callback while holding
}

// Gesture is the state machine. All methods are safe for concurrent use.
type Gesture struct {
	mu  sync.Mutex
	cfg Config

	state     State
	pressedAt time.Time
	closed    bool

	holdTimer    *time.Timer
	settleTimer  *time.Timer
	displayTimer *time.Timer
	samplerStop  chan struct{}
}

// New builds a gesture in the idle state, filling zero config fields with
// defaults.
func New(cfg Config) *Gesture {
	if cfg.HoldDuration <= 0 {
		cfg.HoldDuration = DefaultHoldDuration
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.DisplayDelay <= 0 {
		cfg.DisplayDelay = DefaultDisplayDelay
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = DefaultProgressInterval
	}
	if cfg.IdleLabel == "" {
		cfg.IdleLabel = "Hold to analyze"
	}
	if cfg.PublishingLabel == "" {
		cfg.PublishingLabel = "Publishing..."
	}
	if cfg.PublishedLabel == "" {
		cfg.PublishedLabel = "Published"
	}
	return &Gesture{cfg: cfg, state: StateIdle}
}

// Press begins the hold. A press while not idle is a no-op; this is the
// re-entry guard that prevents double-firing the action.
func (g *Gesture) Press() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || g.state != StateIdle {
		return
	}
	g.state = StateHolding
	g.pressedAt = time.Now()

	// Completion is driven by its own timer of exactly HoldDuration, not by
	// the progress sampler reaching 100%.
	g.holdTimer = time.AfterFunc(g.cfg.HoldDuration, g.completeHold)

	if g.cfg.OnProgress != nil {
		g.samplerStop = make(chan struct{})
		go g.sampleProgress(g.samplerStop)
	}
}

// Release aborts the hold when released early. Releasing after the hold has
// completed (or while idle) does nothing.
func (g *Gesture) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateHolding {
		return
	}
	g.stopHoldingLocked()
	g.state = StateIdle
}

// completeHold fires when the full hold duration elapsed.
func (g *Gesture) completeHold() {
	g.mu.Lock()
	if g.closed || g.state != StateHolding {
		g.mu.Unlock()
		return
	}
	g.stopHoldingLocked()
	g.state = StatePublishing

	action := g.cfg.Action
	g.settleTimer = time.AfterFunc(g.cfg.SettleDelay, g.settle)
	g.mu.Unlock()

	// Invoked outside the lock so the action may re-query the gesture.
	if action != nil {
		action()
	}
}

func (g *Gesture) settle() {
	g.mu.Lock()
	if g.closed || g.state != StatePublishing {
		g.mu.Unlock()
		return
	}
	g.state = StatePublished
	haptic := g.cfg.Haptic
	g.displayTimer = time.AfterFunc(g.cfg.DisplayDelay, g.revert)
	g.mu.Unlock()

	if haptic != nil {
		haptic()
	}
}

func (g *Gesture) revert() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || g.state != StatePublished {
		return
	}
	g.state = StateIdle
}

// stopHoldingLocked cancels the hold timer and the progress sampler.
// Callers hold g.mu.
func (g *Gesture) stopHoldingLocked() {
	if g.holdTimer != nil {
		g.holdTimer.Stop()
		g.holdTimer = nil
	}
	if g.samplerStop != nil {
		close(g.samplerStop)
		g.samplerStop = nil
	}
}

// sampleProgress reports hold progress on a fixed interval for visual
// feedback only.
func (g *Gesture) sampleProgress(stop chan struct{}) {
	ticker := time.NewTicker(g.cfg.ProgressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			g.cfg.OnProgress(g.Progress())
		}
	}
}

// Progress is 0 while idle, min(elapsed/hold, 1) while holding, and pinned
// at 1 from publishing onward.
func (g *Gesture) Progress() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateHolding:
		p := float64(time.Since(g.pressedAt)) / float64(g.cfg.HoldDuration)
		if p > 1 {
			p = 1
		}
		return p
	case StatePublishing, StatePublished:
		return 1
	default:
		return 0
	}
}

// State returns the current machine state.
func (g *Gesture) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Label returns the display text for the current state. Holding shows the
// idle label; the progress bar carries the feedback during a hold.
func (g *Gesture) Label() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StatePublishing:
		return g.cfg.PublishingLabel
	case StatePublished:
		return g.cfg.PublishedLabel
	default:
		return g.cfg.IdleLabel
	}
}

// Close cancels every pending timer. After Close no callback fires and all
// inputs are no-ops.
func (g *Gesture) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true
	g.stopHoldingLocked()
	if g.settleTimer != nil {
		g.settleTimer.Stop()
		g.settleTimer = nil
	}
	if g.displayTimer != nil {
		g.displayTimer.Stop()
		g.displayTimer = nil
	}
	g.state = StateIdle
}
