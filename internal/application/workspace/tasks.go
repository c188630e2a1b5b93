package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vimtodo/core/internal/domain/entities"
)

// AddTask creates a task. An empty priority takes the configured default.
func (w *Workspace) AddTask(ctx context.Context, text string, priority entities.Priority) (*entities.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, entities.ErrEmptyText
	}
	if priority == "" {
		priority = w.Config().DefaultPriority
	}
	if !priority.IsValid() {
		return nil, entities.ErrInvalidPriority
	}

	s, err := w.begin()
	if err != nil {
		return nil, err
	}

	task, err := w.store.Tasks.Create(ctx, s.owner, text, priority)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	w.commit(s, func() {
		w.tasks = append([]entities.Task{*task}, w.tasks...)
	})
	w.log.Infow("Task created", "task_id", task.ID, "priority", task.Priority)
	return task, nil
}

// ToggleTask flips a task's completion. Completing a task also appends a
// history entry.
func (w *Workspace) ToggleTask(ctx context.Context, id string) (*entities.Task, error) {
	s, err := w.begin()
	if err != nil {
		return nil, err
	}

	w.mu.RLock()
	i := indexOf(w.tasks, id, taskID)
	var current entities.Task
	if i >= 0 {
		current = w.tasks[i]
	}
	w.mu.RUnlock()
	if i < 0 {
		return nil, entities.ErrTaskNotFound
	}

	now := w.now()
	next := current
	next.SetCompleted(!current.Completed, now)

	task, err := w.store.Tasks.SetCompleted(ctx, s.owner, id, next.Completed, next.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}
	w.commit(s, func() { w.replaceTaskLocked(*task) })

	if !task.Completed {
		return task, nil
	}

	entry, err := w.store.History.Create(ctx, s.owner, newHash(), current.CompletionMessage(), now)
	if err != nil {
		// the completion is already stored
		w.log.Warnw("Failed to record completion", "task_id", id, "error", err)
		return task, nil
	}
	w.commit(s, func() {
		w.history = append([]entities.HistoryEntry{*entry}, w.history...)
	})

	return task, nil
}

// UpdateTask changes a task's text and priority.
func (w *Workspace) UpdateTask(ctx context.Context, id, text string, priority entities.Priority) (*entities.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, entities.ErrEmptyText
	}
	if !priority.IsValid() {
		return nil, entities.ErrInvalidPriority
	}

	s, err := w.begin()
	if err != nil {
		return nil, err
	}

	task, err := w.store.Tasks.Update(ctx, s.owner, id, text, priority)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	w.commit(s, func() { w.replaceTaskLocked(*task) })
	return task, nil
}

// DeleteTask removes a task.
func (w *Workspace) DeleteTask(ctx context.Context, id string) error {
	s, err := w.begin()
	if err != nil {
		return err
	}

	if err := w.store.Tasks.Delete(ctx, s.owner, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	w.commit(s, func() {
		if i := indexOf(w.tasks, id, taskID); i >= 0 {
			w.tasks = append(w.tasks[:i:i], w.tasks[i+1:]...)
		}
	})
	w.log.Infow("Task deleted", "task_id", id)
	return nil
}

func (w *Workspace) replaceTaskLocked(task entities.Task) {
	if i := indexOf(w.tasks, task.ID, taskID); i >= 0 {
		w.tasks[i] = task
	}
}

func taskID(t entities.Task) string { return t.ID }

// newHash returns a short hex token in the style of an abbreviated commit.
func newHash() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
}
