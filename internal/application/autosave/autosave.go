// Package autosave coalesces note edits into debounced writes and flushes
// any unsaved draft when the editor loses focus or the session ends.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/vimtodo/core/internal/domain/entities"
	"github.com/vimtodo/core/internal/infrastructure/logger"
)

// DefaultDelay is the debounce window applied after the last edit.
const DefaultDelay = 600 * time.Millisecond

// Triggers reported to the Recorder.
const (
	TriggerDebounce = "debounce"
	TriggerFlush    = "flush"
)

// PersistFunc writes content to the note identified by noteID.
type PersistFunc func(ctx context.Context, noteID, content string) error

// Timer is a pending debounce window.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Recorder observes persist outcomes.
type Recorder interface {
	PersistAttempt(trigger string, err error)
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler schedules on the wall clock.
var RealScheduler Scheduler = clockScheduler{}

// Options configures a Controller. Zero values pick the defaults.
type Options struct {
	Delay     time.Duration
	Scheduler Scheduler
	// Enabled reports whether debounced saves are on. Flushes run regardless.
	Enabled func() bool
	// OnError receives failures of timer-driven persists, which have no
	// caller to return to.
	OnError  func(noteID string, err error)
	Recorder Recorder
	Logger   *logger.Logger
	// PersistTimeout bounds timer-driven persists.
	PersistTimeout time.Duration
}

// State is a snapshot of the editing session.
type State struct {
	NoteID  string `json:"note_id"`
	Draft   string `json:"draft"`
	Pending bool   `json:"pending"`
	Dirty   bool   `json:"dirty"`
}

// Controller tracks one editing session at a time.
type Controller struct {
	persist PersistFunc
	opts    Options
	log     *logger.Logger

	mu sync.Mutex
	// generation changes whenever the active note changes; completions
	// carrying an older generation are not applied to the draft state.
	generation uint64
	noteID     string
	draft      string
	submitted  string
	persisted  string
	timer      Timer
	timerSeq   uint64
}

// NewController returns a Controller writing through persist.
func NewController(persist PersistFunc, opts Options) *Controller {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler
	}
	if opts.Enabled == nil {
		opts.Enabled = func() bool { return true }
	}
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = 10 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	return &Controller{
		persist: persist,
		opts:    opts,
		log:     log.WithComponent("autosave"),
	}
}

// Open starts editing noteID whose stored content is persisted. Any pending
// window for the previous note is dropped without writing.
func (c *Controller) Open(noteID, persisted string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()
	c.generation++
	c.noteID = noteID
	c.draft = persisted
	c.submitted = persisted
	c.persisted = persisted
}

// Edit replaces the draft and restarts the debounce window.
func (c *Controller) Edit(content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.noteID == "" {
		return entities.ErrNoActiveSession
	}

	c.draft = content
	c.stopTimerLocked()
	if !c.opts.Enabled() {
		return nil
	}

	c.timerSeq++
	seq := c.timerSeq
	c.timer = c.opts.Scheduler.AfterFunc(c.opts.Delay, func() { c.fire(seq) })
	return nil
}

// LoseFocus cancels the pending window and writes the draft if it has not
// been submitted yet.
func (c *Controller) LoseFocus(ctx context.Context) error {
	c.mu.Lock()
	c.stopTimerLocked()

	if c.noteID == "" {
		c.mu.Unlock()
		return entities.ErrNoActiveSession
	}
	if c.draft == c.submitted {
		c.mu.Unlock()
		return nil
	}

	noteID, gen, content := c.noteID, c.generation, c.draft
	c.submitted = content
	c.mu.Unlock()

	err := c.persist(ctx, noteID, content)
	c.complete(TriggerFlush, noteID, gen, content, err)
	return err
}

// End flushes like LoseFocus and closes the session.
func (c *Controller) End(ctx context.Context) error {
	err := c.LoseFocus(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.generation++
	c.noteID = ""
	c.draft, c.submitted, c.persisted = "", "", ""

	return err
}

// State returns a snapshot of the active session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		NoteID:  c.noteID,
		Draft:   c.draft,
		Pending: c.timer != nil,
		Dirty:   c.draft != c.persisted,
	}
}

func (c *Controller) fire(seq uint64) {
	c.mu.Lock()
	if c.timer == nil || seq != c.timerSeq {
		c.mu.Unlock()
		return
	}
	c.timer = nil

	noteID, gen, content := c.noteID, c.generation, c.draft
	c.submitted = content
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.PersistTimeout)
	defer cancel()

	err := c.persist(ctx, noteID, content)
	c.complete(TriggerDebounce, noteID, gen, content, err)
	if err != nil && c.opts.OnError != nil {
		c.opts.OnError(noteID, err)
	}
}

func (c *Controller) complete(trigger, noteID string, gen uint64, content string, err error) {
	if c.opts.Recorder != nil {
		c.opts.Recorder.PersistAttempt(trigger, err)
	}
	if err != nil {
		c.log.Warnw("Note persist failed", "note_id", noteID, "trigger", trigger, "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.log.Debugw("Discarding persist result for inactive note", "note_id", noteID)
		return
	}

	if err == nil {
		c.persisted = content
		return
	}
	// let the next flush resend what failed
	if c.submitted == content {
		c.submitted = c.persisted
	}
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
