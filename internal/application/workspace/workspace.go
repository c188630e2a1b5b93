// Package workspace holds the in-memory view of one owner's tasks, notes,
// history and preferences, kept in step with the store.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vimtodo/core/internal/application/autosave"
	"github.com/vimtodo/core/internal/domain/entities"
	"github.com/vimtodo/core/internal/infrastructure/logger"
	"github.com/vimtodo/core/internal/ports"
)

// Options configures a Workspace.
type Options struct {
	Logger   *logger.Logger
	Now      func() time.Time
	Autosave autosave.Options
}

// Workspace is the state container for a single owner. Mutations write to the
// store first and apply the confirmed row locally; nothing is applied
// optimistically.
type Workspace struct {
	store    *ports.Store
	log      *logger.Logger
	now      func() time.Time
	validate *validator.Validate
	editor   *autosave.Controller

	mu sync.RWMutex
	// epoch advances on every Initialize and Teardown. Store results that
	// come back under an older epoch belong to a previous owner and are
	// dropped.
	epoch   uint64
	owner   *uuid.UUID
	tasks   []entities.Task
	notes   []entities.Note
	history []entities.HistoryEntry
	config  entities.AppConfig
}

// New returns an empty workspace with default preferences.
func New(store *ports.Store, opts Options) *Workspace {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	w := &Workspace{
		store:    store,
		log:      log.WithComponent("workspace"),
		now:      now,
		validate: validator.New(),
		config:   entities.DefaultAppConfig(),
	}

	editorOpts := opts.Autosave
	editorOpts.Enabled = func() bool { return w.Config().AutoSave }
	if editorOpts.Logger == nil {
		editorOpts.Logger = log
	}
	w.editor = autosave.NewController(w.persistDraft, editorOpts)

	return w
}

// Initialize loads everything owned by owner, replacing whatever the
// workspace held before. An open editing session is ended first so its
// draft is written under the previous owner. A nil owner leaves the
// workspace empty.
func (w *Workspace) Initialize(ctx context.Context, owner *uuid.UUID) error {
	if w.editor.State().NoteID != "" {
		if err := w.editor.End(ctx); err != nil {
			w.log.Errorw("Failed to flush draft before switching owner", "error", err)
		}
	}

	w.mu.Lock()
	w.epoch++
	epoch := w.epoch
	w.owner = owner
	w.resetLocked()
	w.mu.Unlock()

	if owner == nil {
		return nil
	}

	cfg, err := w.ensureConfig(ctx, *owner)
	if err != nil {
		return err
	}

	var (
		tasks   []*entities.Task
		notes   []*entities.Note
		history []*entities.HistoryEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = w.store.Tasks.List(gctx, *owner)
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = w.store.Notes.List(gctx, *owner)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = w.store.History.List(gctx, *owner)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load workspace: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if epoch != w.epoch {
		w.log.Debugw("Discarding load for superseded owner", "owner", owner.String())
		return nil
	}

	w.config = *cfg
	w.tasks = derefAll(tasks)
	w.notes = derefAll(notes)
	w.history = derefAll(history)

	w.log.Infow("Workspace loaded",
		"owner", owner.String(),
		"tasks", len(w.tasks),
		"notes", len(w.notes),
		"history", len(w.history),
	)
	return nil
}

// Teardown ends any editing session, flushing its draft, and clears all
// state.
func (w *Workspace) Teardown(ctx context.Context) error {
	var flushErr error
	if w.editor.State().NoteID != "" {
		flushErr = w.editor.End(ctx)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.epoch++
	w.owner = nil
	w.resetLocked()

	return flushErr
}

func (w *Workspace) resetLocked() {
	w.tasks = []entities.Task{}
	w.notes = []entities.Note{}
	w.history = []entities.HistoryEntry{}
	w.config = entities.DefaultAppConfig()
}

// ensureConfig returns the stored preferences, inserting the defaults the
// first time an owner is seen.
func (w *Workspace) ensureConfig(ctx context.Context, owner uuid.UUID) (*entities.AppConfig, error) {
	cfg, err := w.store.Configs.Get(ctx, owner)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, entities.ErrConfigNotFound) {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg, err = w.store.Configs.Insert(ctx, owner, entities.DefaultAppConfig())
	if err != nil {
		return nil, fmt.Errorf("create default config: %w", err)
	}
	w.log.Infow("Created default config", "owner", owner.String())
	return cfg, nil
}

// session captures the owner and epoch a mutation starts under.
type session struct {
	owner uuid.UUID
	epoch uint64
}

func (w *Workspace) begin() (session, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.owner == nil {
		return session{}, entities.ErrNoOwner
	}
	return session{owner: *w.owner, epoch: w.epoch}, nil
}

// commit runs apply under the write lock if s is still current.
func (w *Workspace) commit(s session, apply func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if s.epoch != w.epoch {
		w.log.Debugw("Dropping store result for previous owner", "owner", s.owner.String())
		return
	}
	apply()
}

// Owner returns the signed-in owner, if any.
func (w *Workspace) Owner() *uuid.UUID {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.owner == nil {
		return nil
	}
	owner := *w.owner
	return &owner
}

// Tasks returns the tasks in display order: open tasks before completed
// ones, each group ordered by the configured sort order.
func (w *Workspace) Tasks() []entities.Task {
	w.mu.RLock()
	tasks := append([]entities.Task(nil), w.tasks...)
	order := w.config.SortOrder
	w.mu.RUnlock()

	SortTasks(tasks, order)
	return tasks
}

// SortTasks orders tasks in place for display.
func SortTasks(tasks []entities.Task, order entities.SortOrder) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		switch order {
		case entities.SortByAlpha:
			return strings.ToLower(a.Text) < strings.ToLower(b.Text)
		case entities.SortByDate:
			return a.CreatedAt.After(b.CreatedAt)
		default:
			if a.Priority.Rank() != b.Priority.Rank() {
				return a.Priority.Rank() < b.Priority.Rank()
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

// Notes returns the notes, newest first.
func (w *Workspace) Notes() []entities.Note {
	w.mu.RLock()
	defer w.mu.RUnlock()

	notes := make([]entities.Note, len(w.notes))
	for i, n := range w.notes {
		n.Images = append([]string{}, n.Images...)
		notes[i] = n
	}
	return notes
}

// Note returns a single note by id.
func (w *Workspace) Note(id string) (entities.Note, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	i := indexOf(w.notes, id, func(n entities.Note) string { return n.ID })
	if i < 0 {
		return entities.Note{}, entities.ErrNoteNotFound
	}
	note := w.notes[i]
	note.Images = append([]string{}, note.Images...)
	return note, nil
}

// History returns the completion log, newest first.
func (w *Workspace) History() []entities.HistoryEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]entities.HistoryEntry{}, w.history...)
}

// Config returns the current preferences.
func (w *Workspace) Config() entities.AppConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

func derefAll[T any](rows []*T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}
