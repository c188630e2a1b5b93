package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrConfigNotFound     = errors.New("config not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNoOwner            = errors.New("no signed-in owner")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrEmptyText          = errors.New("text cannot be empty")
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrImageIndex         = errors.New("image index out of range")
	ErrEmptyImage         = errors.New("image reference cannot be empty")
	ErrNoActiveSession    = errors.New("no active editing session")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Priority is the task priority tag shown in the editor gutter.
type Priority string

const (
	PriorityHigh   Priority = "H"
	PriorityMedium Priority = "M"
	PriorityLow    Priority = "L"
)

// Rank orders priorities for sorting, High first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

type Theme string

const (
	ThemeDark   Theme = "dark"
	ThemeLight  Theme = "light"
	ThemeSystem Theme = "system"
)

type SortOrder string

const (
	SortByPriority SortOrder = "priority"
	SortByDate     SortOrder = "date"
	SortByAlpha    SortOrder = "alpha"
)

// User is the owner of every other row
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Task is one line of the todo list.
// CompletedAt is set exactly when Completed is true.
type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Note is a free-text document with ordered image attachments
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry is an append-only, commit-style record of a task completion.
type HistoryEntry struct {
	ID      string    `json:"id"`
	Hash    string    `json:"hash"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
}

// AppConfig holds the per-owner preferences
type AppConfig struct {
	Theme             Theme     `json:"theme" validate:"oneof=dark light system"`
	ShowLineNumbers   bool      `json:"show_line_numbers"`
	SortOrder         SortOrder `json:"sort_order" validate:"oneof=priority date alpha"`
	ConfirmDelete     bool      `json:"confirm_delete"`
	ReminderTime      string    `json:"reminder_time" validate:"len=4,numeric"`
	HighPriorityColor string    `json:"high_priority_color" validate:"hexcolor"`
	DefaultPriority   Priority  `json:"default_priority" validate:"oneof=H M L"`
	AutoSave          bool      `json:"auto_save"`
}

// DefaultAppConfig returns the preferences a new owner starts with.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Theme:             ThemeDark,
		ShowLineNumbers:   true,
		SortOrder:         SortByPriority,
		ConfirmDelete:     true,
		ReminderTime:      "0800",
		HighPriorityColor: "#ff5555",
		DefaultPriority:   PriorityMedium,
		AutoSave:          true,
	}
}

// AppConfigPatch carries a partial preferences update. Nil fields are left
// untouched.
type AppConfigPatch struct {
	Theme             *Theme     `json:"theme" validate:"omitempty,oneof=dark light system"`
	ShowLineNumbers   *bool      `json:"show_line_numbers"`
	SortOrder         *SortOrder `json:"sort_order" validate:"omitempty,oneof=priority date alpha"`
	ConfirmDelete     *bool      `json:"confirm_delete"`
	ReminderTime      *string    `json:"reminder_time" validate:"omitempty,len=4,numeric"`
	HighPriorityColor *string    `json:"high_priority_color" validate:"omitempty,hexcolor"`
	DefaultPriority   *Priority  `json:"default_priority" validate:"omitempty,oneof=H M L"`
	AutoSave          *bool      `json:"auto_save"`
}

// Apply returns cfg with the non-nil patch fields merged in.
func (p AppConfigPatch) Apply(cfg AppConfig) AppConfig {
	if p.Theme != nil {
		cfg.Theme = *p.Theme
	}
	if p.ShowLineNumbers != nil {
		cfg.ShowLineNumbers = *p.ShowLineNumbers
	}
	if p.SortOrder != nil {
		cfg.SortOrder = *p.SortOrder
	}
	if p.ConfirmDelete != nil {
		cfg.ConfirmDelete = *p.ConfirmDelete
	}
	if p.ReminderTime != nil {
		cfg.ReminderTime = *p.ReminderTime
	}
	if p.HighPriorityColor != nil {
		cfg.HighPriorityColor = *p.HighPriorityColor
	}
	if p.DefaultPriority != nil {
		cfg.DefaultPriority = *p.DefaultPriority
	}
	if p.AutoSave != nil {
		cfg.AutoSave = *p.AutoSave
	}
	return cfg
}

// Business logic methods for Task

// SetCompleted flips the completion state, stamping or clearing CompletedAt.
func (t *Task) SetCompleted(completed bool, now time.Time) {
	t.Completed = completed
	if completed {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}

// CompletionMessage is the history message recorded when t is completed.
func (t *Task) CompletionMessage() string {
	return "Completed: " + t.Text
}

// Business logic methods for Note

// WithImage returns a copy of the image list with url appended.
func (n *Note) WithImage(url string) ([]string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrEmptyImage
	}
	images := make([]string, 0, len(n.Images)+1)
	images = append(images, n.Images...)
	return append(images, url), nil
}

// WithoutImage returns a copy of the image list with the image at index
// removed. Order of the remaining images is preserved.
func (n *Note) WithoutImage(index int) ([]string, error) {
	if index < 0 || index >= len(n.Images) {
		return nil, ErrImageIndex
	}
	images := make([]string, 0, len(n.Images)-1)
	images = append(images, n.Images[:index]...)
	return append(images, n.Images[index+1:]...), nil
}

// IsImageData reports whether ref is an inline data URI rather than a URL.
func IsImageData(ref string) bool {
	return strings.HasPrefix(ref, "data:image/")
}

// Utility methods
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

func (t Theme) IsValid() bool {
	switch t {
	case ThemeDark, ThemeLight, ThemeSystem:
		return true
	default:
		return false
	}
}

func (s SortOrder) IsValid() bool {
	switch s {
	case SortByPriority, SortByDate, SortByAlpha:
		return true
	default:
		return false
	}
}
