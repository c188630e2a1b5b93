package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vimtodo/core/internal/domain/entities"
	"github.com/vimtodo/core/internal/ports"
)

// memStore is an owner-scoped in-memory stand-in for the Postgres
// repositories.
type memStore struct {
	mu      sync.Mutex
	seq     int
	now     func() time.Time
	tasks   map[uuid.UUID][]*entities.Task
	notes   map[uuid.UUID][]*entities.Note
	history map[uuid.UUID][]*entities.HistoryEntry
	configs map[uuid.UUID]entities.AppConfig

	// failures keyed by operation name, e.g. "tasks.create"
	fail map[string]error
	// calls counts operations by name
	calls map[string]int
	// beforeList runs at the start of each List call
	beforeList func(owner uuid.UUID)
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{
		now:     now,
		tasks:   map[uuid.UUID][]*entities.Task{},
		notes:   map[uuid.UUID][]*entities.Note{},
		history: map[uuid.UUID][]*entities.HistoryEntry{},
		configs: map[uuid.UUID]entities.AppConfig{},
		fail:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (m *memStore) Store() *ports.Store {
	return &ports.Store{
		Tasks:   memTasks{m},
		Notes:   memNotes{m},
		History: memHistory{m},
		Configs: memConfigs{m},
	}
}

func (m *memStore) enter(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
	return m.fail[op]
}

func (m *memStore) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *memStore) SetFail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[op] = err
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type memTasks struct{ m *memStore }

func (r memTasks) List(_ context.Context, owner uuid.UUID) ([]*entities.Task, error) {
	if r.m.beforeList != nil {
		r.m.beforeList(owner)
	}
	if err := r.m.enter("tasks.list"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entities.Task
	for _, t := range r.m.tasks[owner] {
		c := *t
		out = append(out, &c)
	}
	return out, nil
}

func (r memTasks) Create(_ context.Context, owner uuid.UUID, text string, priority entities.Priority) (*entities.Task, error) {
	if err := r.m.enter("tasks.create"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t := &entities.Task{ID: r.m.nextID("task"), Text: text, Priority: priority, CreatedAt: r.m.now()}
	r.m.tasks[owner] = append([]*entities.Task{t}, r.m.tasks[owner]...)
	c := *t
	return &c, nil
}

func (r memTasks) find(owner uuid.UUID, id string) *entities.Task {
	for _, t := range r.m.tasks[owner] {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (r memTasks) SetCompleted(_ context.Context, owner uuid.UUID, id string, completed bool, completedAt *time.Time) (*entities.Task, error) {
	if err := r.m.enter("tasks.set_completed"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t := r.find(owner, id)
	if t == nil {
		return nil, entities.ErrTaskNotFound
	}
	t.Completed = completed
	t.CompletedAt = completedAt
	c := *t
	return &c, nil
}

func (r memTasks) Update(_ context.Context, owner uuid.UUID, id, text string, priority entities.Priority) (*entities.Task, error) {
	if err := r.m.enter("tasks.update"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t := r.find(owner, id)
	if t == nil {
		return nil, entities.ErrTaskNotFound
	}
	t.Text, t.Priority = text, priority
	c := *t
	return &c, nil
}

func (r memTasks) Delete(_ context.Context, owner uuid.UUID, id string) error {
	if err := r.m.enter("tasks.delete"); err != nil {
		return err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	list := r.m.tasks[owner]
	for i, t := range list {
		if t.ID == id {
			r.m.tasks[owner] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return entities.ErrTaskNotFound
}

type memNotes struct{ m *memStore }

func (r memNotes) List(_ context.Context, owner uuid.UUID) ([]*entities.Note, error) {
	if err := r.m.enter("notes.list"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entities.Note
	for _, n := range r.m.notes[owner] {
		c := *n
		c.Images = append([]string{}, n.Images...)
		out = append(out, &c)
	}
	return out, nil
}

func (r memNotes) Create(_ context.Context, owner uuid.UUID, title, content string, images []string) (*entities.Note, error) {
	if err := r.m.enter("notes.create"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n := &entities.Note{ID: r.m.nextID("note"), Title: title, Content: content,
		Images: append([]string{}, images...), CreatedAt: r.m.now()}
	r.m.notes[owner] = append([]*entities.Note{n}, r.m.notes[owner]...)
	c := *n
	return &c, nil
}

func (r memNotes) update(owner uuid.UUID, id string, apply func(*entities.Note)) (*entities.Note, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, n := range r.m.notes[owner] {
		if n.ID == id {
			apply(n)
			c := *n
			c.Images = append([]string{}, n.Images...)
			return &c, nil
		}
	}
	return nil, entities.ErrNoteNotFound
}

func (r memNotes) UpdateContent(_ context.Context, owner uuid.UUID, id, content string) (*entities.Note, error) {
	if err := r.m.enter("notes.update_content"); err != nil {
		return nil, err
	}
	return r.update(owner, id, func(n *entities.Note) { n.Content = content })
}

func (r memNotes) UpdateImages(_ context.Context, owner uuid.UUID, id string, images []string) (*entities.Note, error) {
	if err := r.m.enter("notes.update_images"); err != nil {
		return nil, err
	}
	return r.update(owner, id, func(n *entities.Note) { n.Images = append([]string{}, images...) })
}

func (r memNotes) Delete(_ context.Context, owner uuid.UUID, id string) error {
	if err := r.m.enter("notes.delete"); err != nil {
		return err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	list := r.m.notes[owner]
	for i, n := range list {
		if n.ID == id {
			r.m.notes[owner] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return entities.ErrNoteNotFound
}

type memHistory struct{ m *memStore }

func (r memHistory) List(_ context.Context, owner uuid.UUID) ([]*entities.HistoryEntry, error) {
	if err := r.m.enter("history.list"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return append([]*entities.HistoryEntry(nil), r.m.history[owner]...), nil
}

func (r memHistory) Create(_ context.Context, owner uuid.UUID, hash, message string, date time.Time) (*entities.HistoryEntry, error) {
	if err := r.m.enter("history.create"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	h := &entities.HistoryEntry{ID: r.m.nextID("hist"), Hash: hash, Message: message, Date: date}
	r.m.history[owner] = append([]*entities.HistoryEntry{h}, r.m.history[owner]...)
	c := *h
	return &c, nil
}

type memConfigs struct{ m *memStore }

func (r memConfigs) Get(_ context.Context, owner uuid.UUID) (*entities.AppConfig, error) {
	if err := r.m.enter("configs.get"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cfg, ok := r.m.configs[owner]
	if !ok {
		return nil, entities.ErrConfigNotFound
	}
	return &cfg, nil
}

func (r memConfigs) Insert(_ context.Context, owner uuid.UUID, cfg entities.AppConfig) (*entities.AppConfig, error) {
	if err := r.m.enter("configs.insert"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.configs[owner] = cfg
	return &cfg, nil
}

func (r memConfigs) Upsert(_ context.Context, owner uuid.UUID, cfg entities.AppConfig) (*entities.AppConfig, error) {
	if err := r.m.enter("configs.upsert"); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.configs[owner] = cfg
	return &cfg, nil
}
