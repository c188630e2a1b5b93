package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vimtodo/core/internal/domain/entities"
	"github.com/vimtodo/core/internal/ports"
)

// HistoryRepositoryImpl implements the HistoryRepository interface.
// History is append-only: there is no update or delete.
type HistoryRepositoryImpl struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sqlx.DB) ports.HistoryRepository {
	return &HistoryRepositoryImpl{db: db}
}

func (r *HistoryRepositoryImpl) List(ctx context.Context, owner uuid.UUID) ([]*entities.HistoryEntry, error) {
	query := `SELECT ` + historyColumns + `
		FROM history_entries
		WHERE user_id = $1
		ORDER BY date DESC`

	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, query, owner); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	entries := make([]*entities.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toHistoryEntry(row))
	}
	return entries, nil
}

func (r *HistoryRepositoryImpl) Create(ctx context.Context, owner uuid.UUID, hash, message string, date time.Time) (*entities.HistoryEntry, error) {
	query := `
		INSERT INTO history_entries (user_id, hash, message, date)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + historyColumns

	var row historyRow
	if err := r.db.GetContext(ctx, &row, query, owner, hash, message, date); err != nil {
		return nil, fmt.Errorf("create history entry: %w", err)
	}
	return toHistoryEntry(row), nil
}
