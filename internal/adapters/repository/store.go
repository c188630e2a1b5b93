package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/vimtodo/core/internal/ports"
)

// NewStore wires the four owner-scoped collection repositories onto db.
func NewStore(db *sqlx.DB) *ports.Store {
	return &ports.Store{
		Tasks:   NewTaskRepository(db),
		Notes:   NewNoteRepository(db),
		History: NewHistoryRepository(db),
		Configs: NewConfigRepository(db),
	}
}
