package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vimtodo/core/internal/domain/entities"
	"github.com/vimtodo/core/internal/ports"
)

// NoteRepositoryImpl implements the NoteRepository interface
type NoteRepositoryImpl struct {
	db *sqlx.DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *sqlx.DB) ports.NoteRepository {
	return &NoteRepositoryImpl{db: db}
}

func (r *NoteRepositoryImpl) List(ctx context.Context, owner uuid.UUID) ([]*entities.Note, error) {
	query := `SELECT ` + noteColumns + `
		FROM notes
		WHERE user_id = $1
		ORDER BY created_at DESC`

	var rows []noteRow
	if err := r.db.SelectContext(ctx, &rows, query, owner); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes := make([]*entities.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, toNote(row))
	}
	return notes, nil
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, owner uuid.UUID, title, content string, images []string) (*entities.Note, error) {
	if images == nil {
		images = []string{}
	}

	query := `
		INSERT INTO notes (user_id, title, content, images)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + noteColumns

	var row noteRow
	if err := r.db.GetContext(ctx, &row, query, owner, title, content, pq.Array(images)); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return toNote(row), nil
}

func (r *NoteRepositoryImpl) UpdateContent(ctx context.Context, owner uuid.UUID, id, content string) (*entities.Note, error) {
	query := `
		UPDATE notes
		SET content = $3
		WHERE id = $1 AND user_id = $2
		RETURNING ` + noteColumns

	return r.updateOne(ctx, "update note content", query, id, owner, content)
}

func (r *NoteRepositoryImpl) UpdateImages(ctx context.Context, owner uuid.UUID, id string, images []string) (*entities.Note, error) {
	query := `
		UPDATE notes
		SET images = $3
		WHERE id = $1 AND user_id = $2
		RETURNING ` + noteColumns

	return r.updateOne(ctx, "update note images", query, id, owner, pq.Array(images))
}

func (r *NoteRepositoryImpl) updateOne(ctx context.Context, op, query, id string, owner uuid.UUID, value interface{}) (*entities.Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entities.ErrNoteNotFound
	}

	var row noteRow
	err := r.db.GetContext(ctx, &row, query, id, owner, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrNoteNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toNote(row), nil
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, owner uuid.UUID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return entities.ErrNoteNotFound
	}

	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrNoteNotFound
	}

	return nil
}
