package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vimtodo/core/internal/domain/entities"
)

// Row shapes as stored in Postgres. Translators below map them to entities;
// missing or malformed optional fields are defaulted, never treated as fatal.

type taskRow struct {
	ID          string       `db:"id"`
	UserID      uuid.UUID    `db:"user_id"`
	Text        string       `db:"text"`
	Priority    string       `db:"priority"`
	Completed   bool         `db:"completed"`
	CreatedAt   time.Time    `db:"created_at"`
	CompletedAt sql.NullTime `db:"completed_at"`
}

type noteRow struct {
	ID        string         `db:"id"`
	UserID    uuid.UUID      `db:"user_id"`
	Title     string         `db:"title"`
	Content   sql.NullString `db:"content"`
	Images    pq.StringArray `db:"images"`
	CreatedAt time.Time      `db:"created_at"`
}

type historyRow struct {
	ID      string    `db:"id"`
	UserID  uuid.UUID `db:"user_id"`
	Hash    string    `db:"hash"`
	Message string    `db:"message"`
	Date    time.Time `db:"date"`
}

type configRow struct {
	UserID            uuid.UUID `db:"user_id"`
	Theme             string    `db:"theme"`
	ShowLineNumbers   bool      `db:"show_line_numbers"`
	SortOrder         string    `db:"sort_order"`
	ConfirmDelete     bool      `db:"confirm_delete"`
	ReminderTime      string    `db:"reminder_time"`
	HighPriorityColor string    `db:"high_priority_color"`
	DefaultPriority   string    `db:"default_priority"`
	AutoSave          bool      `db:"auto_save"`
}

const (
	taskColumns    = "id, user_id, text, priority, completed, created_at, completed_at"
	noteColumns    = "id, user_id, title, content, images, created_at"
	historyColumns = "id, user_id, hash, message, date"
	configColumns  = "user_id, theme, show_line_numbers, sort_order, confirm_delete, " +
		"reminder_time, high_priority_color, default_priority, auto_save"
)

func toTask(row taskRow) *entities.Task {
	task := &entities.Task{
		ID:        row.ID,
		Text:      row.Text,
		Priority:  entities.Priority(row.Priority),
		Completed: row.Completed,
		CreatedAt: row.CreatedAt,
	}
	if !task.Priority.IsValid() {
		task.Priority = entities.DefaultAppConfig().DefaultPriority
	}
	// completed_at is only meaningful while the task is completed
	if row.Completed && row.CompletedAt.Valid {
		completedAt := row.CompletedAt.Time
		task.CompletedAt = &completedAt
	}
	return task
}

func toNote(row noteRow) *entities.Note {
	images := []string(row.Images)
	if images == nil {
		images = []string{}
	}
	return &entities.Note{
		ID:        row.ID,
		Title:     row.Title,
		Content:   row.Content.String,
		Images:    images,
		CreatedAt: row.CreatedAt,
	}
}

func toHistoryEntry(row historyRow) *entities.HistoryEntry {
	return &entities.HistoryEntry{
		ID:      row.ID,
		Hash:    row.Hash,
		Message: row.Message,
		Date:    row.Date,
	}
}

func toConfig(row configRow) *entities.AppConfig {
	defaults := entities.DefaultAppConfig()
	cfg := &entities.AppConfig{
		Theme:             entities.Theme(row.Theme),
		ShowLineNumbers:   row.ShowLineNumbers,
		SortOrder:         entities.SortOrder(row.SortOrder),
		ConfirmDelete:     row.ConfirmDelete,
		ReminderTime:      row.ReminderTime,
		HighPriorityColor: row.HighPriorityColor,
		DefaultPriority:   entities.Priority(row.DefaultPriority),
		AutoSave:          row.AutoSave,
	}
	if !cfg.Theme.IsValid() {
		cfg.Theme = defaults.Theme
	}
	if !cfg.SortOrder.IsValid() {
		cfg.SortOrder = defaults.SortOrder
	}
	if !cfg.DefaultPriority.IsValid() {
		cfg.DefaultPriority = defaults.DefaultPriority
	}
	if cfg.ReminderTime == "" {
		cfg.ReminderTime = defaults.ReminderTime
	}
	if cfg.HighPriorityColor == "" {
		cfg.HighPriorityColor = defaults.HighPriorityColor
	}
	return cfg
}

func fromConfig(owner uuid.UUID, cfg entities.AppConfig) configRow {
	return configRow{
		UserID:            owner,
		Theme:             string(cfg.Theme),
		ShowLineNumbers:   cfg.ShowLineNumbers,
		SortOrder:         string(cfg.SortOrder),
		ConfirmDelete:     cfg.ConfirmDelete,
		ReminderTime:      cfg.ReminderTime,
		HighPriorityColor: cfg.HighPriorityColor,
		DefaultPriority:   string(cfg.DefaultPriority),
		AutoSave:          cfg.AutoSave,
	}
}
