package http

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vimtodo/core/internal/domain/entities"
	"github.com/vimtodo/core/internal/ports"
)

// memStore keeps every collection in memory, keyed by owner.
type memStore struct {
	mu      sync.Mutex
	seq     int
	tasks   map[uuid.UUID][]*entities.Task
	notes   map[uuid.UUID][]*entities.Note
	history map[uuid.UUID][]*entities.HistoryEntry
	configs map[uuid.UUID]entities.AppConfig
}

func newMemStore() *memStore {
	return &memStore{
		tasks:   map[uuid.UUID][]*entities.Task{},
		notes:   map[uuid.UUID][]*entities.Note{},
		history: map[uuid.UUID][]*entities.HistoryEntry{},
		configs: map[uuid.UUID]entities.AppConfig{},
	}
}

func (m *memStore) Store() *ports.Store {
	return &ports.Store{Tasks: memTasks{m}, Notes: memNotes{m}, History: memHistory{m}, Configs: memConfigs{m}}
}

func (m *memStore) id(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type memTasks struct{ m *memStore }

func (r memTasks) List(_ context.Context, owner uuid.UUID) ([]*entities.Task, error) {
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
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t := &entities.Task{ID: r.m.id("task"), Text: text, Priority: priority, CreatedAt: time.Now()}
	r.m.tasks[owner] = append(r.m.tasks[owner], t)
	c := *t
	return &c, nil
}

func (r memTasks) edit(owner uuid.UUID, id string, apply func(*entities.Task)) (*entities.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, t := range r.m.tasks[owner] {
		if t.ID == id {
			apply(t)
			c := *t
			return &c, nil
		}
	}
	return nil, entities.ErrTaskNotFound
}

func (r memTasks) SetCompleted(_ context.Context, owner uuid.UUID, id string, completed bool, completedAt *time.Time) (*entities.Task, error) {
	return r.edit(owner, id, func(t *entities.Task) { t.Completed, t.CompletedAt = completed, completedAt })
}

func (r memTasks) Update(_ context.Context, owner uuid.UUID, id, text string, priority entities.Priority) (*entities.Task, error) {
	return r.edit(owner, id, func(t *entities.Task) { t.Text, t.Priority = text, priority })
}

func (r memTasks) Delete(_ context.Context, owner uuid.UUID, id string) error {
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
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n := &entities.Note{ID: r.m.id("note"), Title: title, Content: content, Images: append([]string{}, images...), CreatedAt: time.Now()}
	r.m.notes[owner] = append([]*entities.Note{n}, r.m.notes[owner]...)
	c := *n
	return &c, nil
}

func (r memNotes) edit(owner uuid.UUID, id string, apply func(*entities.Note)) (*entities.Note, error) {
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
	return r.edit(owner, id, func(n *entities.Note) { n.Content = content })
}

func (r memNotes) UpdateImages(_ context.Context, owner uuid.UUID, id string, images []string) (*entities.Note, error) {
	return r.edit(owner, id, func(n *entities.Note) { n.Images = append([]string{}, images...) })
}

func (r memNotes) Delete(_ context.Context, owner uuid.UUID, id string) error {
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
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return append([]*entities.HistoryEntry(nil), r.m.history[owner]...), nil
}

func (r memHistory) Create(_ context.Context, owner uuid.UUID, hash, message string, date time.Time) (*entities.HistoryEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	h := &entities.HistoryEntry{ID: r.m.id("hist"), Hash: hash, Message: message, Date: date}
	r.m.history[owner] = append([]*entities.HistoryEntry{h}, r.m.history[owner]...)
	c := *h
	return &c, nil
}

type memConfigs struct{ m *memStore }

func (r memConfigs) Get(_ context.Context, owner uuid.UUID) (*entities.AppConfig, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cfg, ok := r.m.configs[owner]
	if !ok {
		return nil, entities.ErrConfigNotFound
	}
	return &cfg, nil
}

func (r memConfigs) Insert(_ context.Context, owner uuid.UUID, cfg entities.AppConfig) (*entities.AppConfig, error) {
	return r.Upsert(context.Background(), owner, cfg)
}

func (r memConfigs) Upsert(_ context.Context, owner uuid.UUID, cfg entities.AppConfig) (*entities.AppConfig, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.configs[owner] = cfg
	return &cfg, nil
}
