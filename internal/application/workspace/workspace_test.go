package workspace

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vimtodo/core/internal/application/autosave"
	"github.com/vimtodo/core/internal/domain/entities"
)

var fixedNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

// manualScheduler fires pending timers on demand.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	f    func()
	done bool
}

func (t *manualTimer) Stop() bool {
	was := !t.done
	t.done = true
	return was
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) autosave.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) FireAll() {
	s.mu.Lock()
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.done {
			t.done = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

func setup(t *testing.T) (*Workspace, *memStore, uuid.UUID, *manualScheduler) {
	t.Helper()
	mem := newMemStore(func() time.Time { return fixedNow })
	sched := &manualScheduler{}
	w := New(mem.Store(), Options{
		Now:      func() time.Time { return fixedNow },
		Autosave: autosave.Options{Scheduler: sched},
	})
	owner := uuid.New()
	require.NoError(t, w.Initialize(context.Background(), &owner))
	return w, mem, owner, sched
}

func TestInitialize_NoOwnerMeansNoData(t *testing.T) {
	mem := newMemStore(time.Now)
	w := New(mem.Store(), Options{})

	require.NoError(t, w.Initialize(context.Background(), nil))

	assert.Empty(t, w.Tasks())
	assert.Empty(t, w.Notes())
	assert.Empty(t, w.History())
	assert.Equal(t, entities.DefaultAppConfig(), w.Config())
	assert.Nil(t, w.Owner())
	assert.Zero(t, mem.Calls("configs.get"))

	_, err := w.AddTask(context.Background(), "x", "")
	assert.ErrorIs(t, err, entities.ErrNoOwner)
}

func TestInitialize_CreatesConfigOnce(t *testing.T) {
	w, mem, owner, _ := setup(t)

	assert.Equal(t, 1, mem.Calls("configs.insert"))
	assert.Equal(t, entities.DefaultAppConfig(), w.Config())

	require.NoError(t, w.Initialize(context.Background(), &owner))
	assert.Equal(t, 1, mem.Calls("configs.insert"))
}

func TestInitialize_ReplacesPreviousOwner(t *testing.T) {
	w, _, _, _ := setup(t)
	ctx := context.Background()

	_, err := w.AddTask(ctx, "first owner task", "")
	require.NoError(t, err)
	require.Len(t, w.Tasks(), 1)

	other := uuid.New()
	require.NoError(t, w.Initialize(ctx, &other))

	assert.Empty(t, w.Tasks())
	assert.Equal(t, other, *w.Owner())
}

func TestInitialize_FlushesPreviousOwnerDraft(t *testing.T) {
	w, mem, first, sched := setup(t)
	ctx := context.Background()

	note, err := w.AddNote(ctx, "a.md", "a0", nil)
	require.NoError(t, err)
	_, err = w.OpenSession(ctx, note.ID)
	require.NoError(t, err)
	_, err = w.EditDraft(note.ID, "a1 unsaved")
	require.NoError(t, err)

	second := uuid.New()
	require.NoError(t, w.Initialize(ctx, &second))

	assert.Equal(t, "a1 unsaved", mem.notes[first][0].Content)
	assert.Empty(t, w.SessionState().NoteID)
	assert.Empty(t, w.Notes())

	sched.FireAll()
	assert.Equal(t, 1, mem.Calls("notes.update_content"))
	assert.Equal(t, second, *w.Owner())
}

func TestInitialize_SwitchesOwnerWhenDraftFlushFails(t *testing.T) {
	w, mem, _, _ := setup(t)
	ctx := context.Background()

	note, err := w.AddNote(ctx, "a.md", "a0", nil)
	require.NoError(t, err)
	_, err = w.OpenSession(ctx, note.ID)
	require.NoError(t, err)
	_, err = w.EditDraft(note.ID, "a1")
	require.NoError(t, err)

	mem.SetFail("notes.update_content", errors.New("connection reset"))
	second := uuid.New()
	require.NoError(t, w.Initialize(ctx, &second))

	assert.Empty(t, w.SessionState().NoteID)
	assert.Equal(t, second, *w.Owner())
}

func TestInitialize_LoadFailure(t *testing.T) {
	mem := newMemStore(time.Now)
	mem.SetFail("notes.list", errors.New("connection reset"))
	w := New(mem.Store(), Options{})
	owner := uuid.New()

	err := w.Initialize(context.Background(), &owner)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Empty(t, w.Tasks())
}

func TestInitialize_DiscardsLoadAfterTeardown(t *testing.T) {
	mem := newMemStore(time.Now)
	owner := uuid.New()
	mem.tasks[owner] = []*entities.Task{{ID: "t1", Text: "stale", Priority: entities.PriorityLow}}

	w := New(mem.Store(), Options{})
	mem.beforeList = func(uuid.UUID) {
		assert.NoError(t, w.Teardown(context.Background()))
	}

	require.NoError(t, w.Initialize(context.Background(), &owner))
	assert.Empty(t, w.Tasks())
	assert.Nil(t, w.Owner())
}

func TestAddTask(t *testing.T) {
	w, _, _, _ := setup(t)
	ctx := context.Background()

	task, err := w.AddTask(ctx, "  write docs ", "")
	require.NoError(t, err)
	assert.Equal(t, "write docs", task.Text)
	assert.Equal(t, entities.PriorityMedium, task.Priority, "config default")

	_, err = w.AddTask(ctx, "   ", entities.PriorityHigh)
	assert.ErrorIs(t, err, entities.ErrEmptyText)

	_, err = w.AddTask(ctx, "x", "Z")
	assert.ErrorIs(t, err, entities.ErrInvalidPriority)
}

func TestAddTask_StoreFailureLeavesStateUntouched(t *testing.T) {
	w, mem, _, _ := setup(t)
	mem.SetFail("tasks.create", errors.New("permission denied"))

	_, err := w.AddTask(context.Background(), "x", entities.PriorityHigh)
	require.Error(t, err)
	assert.Empty(t, w.Tasks())
}

func TestToggleTask_RecordsHistoryOnCompletion(t *testing.T) {
	w, mem, _, _ := setup(t)
	ctx := context.Background()

	task, err := w.AddTask(ctx, "ship release", entities.PriorityHigh)
	require.NoError(t, err)

	done, err := w.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, fixedNow, *done.CompletedAt)

	history := w.History()
	require.Len(t, history, 1)
	assert.Equal(t, "Completed: ship release", history[0].Message)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{7}$`), history[0].Hash)
	assert.Equal(t, fixedNow, history[0].Date)

	reopened, err := w.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.CompletedAt)
	assert.Len(t, w.History(), 1, "reopening is not a completion")
	assert.Equal(t, 1, mem.Calls("history.create"))
}

func TestToggleTask_HistoryFailureKeepsCompletion(t *testing.T) {
	w, mem, _, _ := setup(t)
	ctx := context.Background()

	task, err := w.AddTask(ctx, "ship release", entities.PriorityHigh)
	require.NoError(t, err)

	mem.SetFail("history.create", errors.New("connection reset"))
	toggled, err := w.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.True(t, w.Tasks()[0].Completed)
	assert.Empty(t, w.History())
}

func TestToggleTask_Unknown(t *testing.T) {
	w, mem, _, _ := setup(t)

	_, err := w.ToggleTask(context.Background(), "missing")
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
	assert.Zero(t, mem.Calls("tasks.set_completed"))
}

func TestUpdateAndDeleteTask(t *testing.T) {
	w, _, _, _ := setup(t)
	ctx := context.Background()

	task, err := w.AddTask(ctx, "draft", entities.PriorityLow)
	require.NoError(t, err)

	updated, err := w.UpdateTask(ctx, task.ID, "final", entities.PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Text)
	assert.Equal(t, "final", w.Tasks()[0].Text)

	_, err = w.UpdateTask(ctx, "missing", "x", entities.PriorityHigh)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)

	require.NoError(t, w.DeleteTask(ctx, task.ID))
	assert.Empty(t, w.Tasks())
	assert.ErrorIs(t, w.DeleteTask(ctx, task.ID), entities.ErrTaskNotFound)
}

func TestSortTasks(t *testing.T) {
	day := func(d int) time.Time { return fixedNow.AddDate(0, 0, d) }
	tasks := []entities.Task{
		{ID: "low-new", Text: "alpha", Priority: entities.PriorityLow, CreatedAt: day(0)},
		{ID: "high-old", Text: "Charlie", Priority: entities.PriorityHigh, CreatedAt: day(-2)},
		{ID: "done", Text: "aardvark", Priority: entities.PriorityHigh, Completed: true, CreatedAt: day(1)},
		{ID: "high-new", Text: "bravo", Priority: entities.PriorityHigh, CreatedAt: day(-1)},
	}

	ids := func(order entities.SortOrder) []string {
		sorted := append([]entities.Task(nil), tasks...)
		SortTasks(sorted, order)
		var out []string
		for _, t := range sorted {
			out = append(out, t.ID)
		}
		return out
	}

	assert.Equal(t, []string{"high-new", "high-old", "low-new", "done"}, ids(entities.SortByPriority))
	assert.Equal(t, []string{"low-new", "high-new", "high-old", "done"}, ids(entities.SortByDate))
	assert.Equal(t, []string{"low-new", "high-new", "high-old", "done"}, ids(entities.SortByAlpha))
}

func TestNoteImages(t *testing.T) {
	w, mem, _, _ := setup(t)
	ctx := context.Background()

	note, err := w.AddNote(ctx, "board.md", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, note.Images)

	for _, img := range []string{"a.png", "b.png", "data:image/png;base64,AA"} {
		_, err = w.AddImageToNote(ctx, note.ID, img)
		require.NoError(t, err)
	}

	updated, err := w.RemoveImageFromNote(ctx, note.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "data:image/png;base64,AA"}, updated.Images)

	got, err := w.Note(note.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Images, got.Images)

	calls := mem.Calls("notes.update_images")
	_, err = w.RemoveImageFromNote(ctx, note.ID, 5)
	assert.ErrorIs(t, err, entities.ErrImageIndex)
	assert.Equal(t, calls, mem.Calls("notes.update_images"))

	_, err = w.AddImageToNote(ctx, "missing", "x.png")
	assert.ErrorIs(t, err, entities.ErrNoteNotFound)
}

func TestAddNote_RequiresTitle(t *testing.T) {
	w, _, _, _ := setup(t)

	_, err := w.AddNote(context.Background(), " ", "body", nil)
	assert.ErrorIs(t, err, entities.ErrEmptyTitle)
}

func TestUpdateConfig(t *testing.T) {
	w, mem, owner, _ := setup(t)
	ctx := context.Background()

	light := entities.ThemeLight
	high := entities.PriorityHigh
	cfg, err := w.UpdateConfig(ctx, entities.AppConfigPatch{Theme: &light, DefaultPriority: &high})
	require.NoError(t, err)
	assert.Equal(t, entities.ThemeLight, cfg.Theme)
	assert.Equal(t, cfg.Theme, mem.configs[owner].Theme)

	task, err := w.AddTask(ctx, "new default", "")
	require.NoError(t, err)
	assert.Equal(t, entities.PriorityHigh, task.Priority)

	bad := "25:00"
	_, err = w.UpdateConfig(ctx, entities.AppConfigPatch{ReminderTime: &bad})
	require.Error(t, err)
	assert.Equal(t, entities.ThemeLight, w.Config().Theme)
}

func TestSession_DebouncedDraftReachesStore(t *testing.T) {
	w, mem, owner, sched := setup(t)
	ctx := context.Background()

	note, err := w.AddNote(ctx, "log.md", "v0", nil)
	require.NoError(t, err)

	state, err := w.OpenSession(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "v0", state.Draft)

	_, err = w.EditDraft(note.ID, "v1")
	require.NoError(t, err)
	_, err = w.EditDraft(note.ID, "v2")
	require.NoError(t, err)
	sched.FireAll()

	assert.Equal(t, 1, mem.Calls("notes.update_content"))
	stored, err := w.Note(note.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", stored.Content)
	assert.Equal(t, "v2", mem.notes[owner][0].Content)
	assert.False(t, w.SessionState().Dirty)
}

func TestSession_SwitchingFlushesPreviousNote(t *testing.T) {
	w, _, _, _ := setup(t)
	ctx := context.Background()

	a, err := w.AddNote(ctx, "a.md", "a0", nil)
	require.NoError(t, err)
	b, err := w.AddNote(ctx, "b.md", "b0", nil)
	require.NoError(t, err)

	_, err = w.OpenSession(ctx, a.ID)
	require.NoError(t, err)
	_, err = w.EditDraft(a.ID, "a1")
	require.NoError(t, err)

	state, err := w.OpenSession(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, state.NoteID)
	assert.Equal(t, "b0", state.Draft)

	stored, err := w.Note(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a1", stored.Content)

	_, err = w.EditDraft(a.ID, "late")
	assert.ErrorIs(t, err, entities.ErrNoActiveSession)
}

func TestSession_AutosaveOffOnlyFlushes(t *testing.T) {
	w, mem, _, sched := setup(t)
	ctx := context.Background()

	off := false
	_, err := w.UpdateConfig(ctx, entities.AppConfigPatch{AutoSave: &off})
	require.NoError(t, err)

	note, err := w.AddNote(ctx, "n.md", "", nil)
	require.NoError(t, err)
	_, err = w.OpenSession(ctx, note.ID)
	require.NoError(t, err)
	_, err = w.EditDraft(note.ID, "typed")
	require.NoError(t, err)
	sched.FireAll()
	assert.Zero(t, mem.Calls("notes.update_content"))

	require.NoError(t, w.EndSession(ctx, note.ID))
	assert.Equal(t, 1, mem.Calls("notes.update_content"))
	assert.Empty(t, w.SessionState().NoteID)
}

func TestTeardown_FlushesAndClears(t *testing.T) {
	w, mem, owner, _ := setup(t)
	ctx := context.Background()

	note, err := w.AddNote(ctx, "n.md", "", nil)
	require.NoError(t, err)
	_, err = w.OpenSession(ctx, note.ID)
	require.NoError(t, err)
	_, err = w.EditDraft(note.ID, "unsaved")
	require.NoError(t, err)

	require.NoError(t, w.Teardown(ctx))

	assert.Equal(t, "unsaved", mem.notes[owner][0].Content)
	assert.Empty(t, w.Notes())
	assert.Nil(t, w.Owner())
	assert.Equal(t, entities.DefaultAppConfig(), w.Config())
}

func TestManager(t *testing.T) {
	mem := newMemStore(time.Now)
	clock := fixedNow
	m := NewManager(mem.Store(), Options{Now: func() time.Time { return clock }})
	ctx := context.Background()
	owner := uuid.New()

	w1, err := m.Get(ctx, owner)
	require.NoError(t, err)
	w2, err := m.Get(ctx, owner)
	require.NoError(t, err)
	assert.Same(t, w1, w2)
	assert.Equal(t, 1, mem.Calls("tasks.list"))

	clock = clock.Add(time.Hour)
	other := uuid.New()
	_, err = m.Get(ctx, other)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Sweep(ctx, 30*time.Minute))
	assert.Equal(t, 1, m.Len())
	assert.Nil(t, w1.Owner())

	require.NoError(t, m.Release(ctx, other))
	assert.Zero(t, m.Len())
}

func TestManager_FailedLoadIsRetried(t *testing.T) {
	mem := newMemStore(time.Now)
	mem.SetFail("configs.get", errors.New("timeout"))
	m := NewManager(mem.Store(), Options{})
	owner := uuid.New()

	_, err := m.Get(context.Background(), owner)
	require.Error(t, err)
	assert.Zero(t, m.Len())

	mem.SetFail("configs.get", nil)
	w, err := m.Get(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, owner, *w.Owner())
}
