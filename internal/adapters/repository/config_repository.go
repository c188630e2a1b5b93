package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vimtodo/core/internal/domain/entities"
	"github.com/vimtodo/core/internal/ports"
)

// ConfigRepositoryImpl implements the ConfigRepository interface
type ConfigRepositoryImpl struct {
	db *sqlx.DB
}

// NewConfigRepository creates a new preferences repository
func NewConfigRepository(db *sqlx.DB) ports.ConfigRepository {
	return &ConfigRepositoryImpl{db: db}
}

func (r *ConfigRepositoryImpl) Get(ctx context.Context, owner uuid.UUID) (*entities.AppConfig, error) {
	query := `SELECT ` + configColumns + ` FROM app_configs WHERE user_id = $1`

	var row configRow
	err := r.db.GetContext(ctx, &row, query, owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrConfigNotFound
		}
		return nil, fmt.Errorf("get config: %w", err)
	}
	return toConfig(row), nil
}

func (r *ConfigRepositoryImpl) Insert(ctx context.Context, owner uuid.UUID, cfg entities.AppConfig) (*entities.AppConfig, error) {
	query := `
		INSERT INTO app_configs (` + configColumns + `)
		VALUES (:user_id, :theme, :show_line_numbers, :sort_order, :confirm_delete,
			:reminder_time, :high_priority_color, :default_priority, :auto_save)
		RETURNING ` + configColumns

	return r.write(ctx, "insert config", query, fromConfig(owner, cfg))
}

func (r *ConfigRepositoryImpl) Upsert(ctx context.Context, owner uuid.UUID, cfg entities.AppConfig) (*entities.AppConfig, error) {
	query := `
		INSERT INTO app_configs (` + configColumns + `)
		VALUES (:user_id, :theme, :show_line_numbers, :sort_order, :confirm_delete,
			:reminder_time, :high_priority_color, :default_priority, :auto_save)
		ON CONFLICT (user_id) DO UPDATE SET
			theme = EXCLUDED.theme,
			show_line_numbers = EXCLUDED.show_line_numbers,
			sort_order = EXCLUDED.sort_order,
			confirm_delete = EXCLUDED.confirm_delete,
			reminder_time = EXCLUDED.reminder_time,
			high_priority_color = EXCLUDED.high_priority_color,
			default_priority = EXCLUDED.default_priority,
			auto_save = EXCLUDED.auto_save
		RETURNING ` + configColumns

	return r.write(ctx, "upsert config", query, fromConfig(owner, cfg))
}

func (r *ConfigRepositoryImpl) write(ctx context.Context, op, query string, arg configRow) (*entities.AppConfig, error) {
	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: no row returned", op)
	}

	var row configRow
	if err := rows.StructScan(&row); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toConfig(row), nil
}
