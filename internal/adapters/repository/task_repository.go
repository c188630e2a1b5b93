package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vimtodo/core/internal/domain/entities"
	"github.com/vimtodo/core/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) List(ctx context.Context, owner uuid.UUID) ([]*entities.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC`

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, owner); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]*entities.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, toTask(row))
	}
	return tasks, nil
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, owner uuid.UUID, text string, priority entities.Priority) (*entities.Task, error) {
	query := `
		INSERT INTO tasks (user_id, text, priority, completed)
		VALUES ($1, $2, $3, FALSE)
		RETURNING ` + taskColumns

	var row taskRow
	if err := r.db.GetContext(ctx, &row, query, owner, text, string(priority)); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return toTask(row), nil
}

func (r *TaskRepositoryImpl) SetCompleted(ctx context.Context, owner uuid.UUID, id string, completed bool, completedAt *time.Time) (*entities.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entities.ErrTaskNotFound
	}

	query := `
		UPDATE tasks
		SET completed = $3, completed_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	var row taskRow
	err := r.db.GetContext(ctx, &row, query, id, owner, completed, completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("set task completed: %w", err)
	}
	return toTask(row), nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, owner uuid.UUID, id, text string, priority entities.Priority) (*entities.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entities.ErrTaskNotFound
	}

	query := `
		UPDATE tasks
		SET text = $3, priority = $4
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	var row taskRow
	err := r.db.GetContext(ctx, &row, query, id, owner, text, string(priority))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return toTask(row), nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, owner uuid.UUID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return entities.ErrTaskNotFound
	}

	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}
