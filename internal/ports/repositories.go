package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vimtodo/core/internal/domain/entities"
)

// Every collection repository is scoped to an owner: all reads and writes
// filter on user_id, so no cross-owner access is reachable through them.

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	List(ctx context.Context, owner uuid.UUID) ([]*entities.Task, error)
	Create(ctx context.Context, owner uuid.UUID, text string, priority entities.Priority) (*entities.Task, error)
	SetCompleted(ctx context.Context, owner uuid.UUID, id string, completed bool, completedAt *time.Time) (*entities.Task, error)
	Update(ctx context.Context, owner uuid.UUID, id, text string, priority entities.Priority) (*entities.Task, error)
	Delete(ctx context.Context, owner uuid.UUID, id string) error
}

// NoteRepository defines the interface for note data operations
type NoteRepository interface {
	List(ctx context.Context, owner uuid.UUID) ([]*entities.Note, error)
	Create(ctx context.Context, owner uuid.UUID, title, content string, images []string) (*entities.Note, error)
	UpdateContent(ctx context.Context, owner uuid.UUID, id, content string) (*entities.Note, error)
	UpdateImages(ctx context.Context, owner uuid.UUID, id string, images []string) (*entities.Note, error)
	Delete(ctx context.Context, owner uuid.UUID, id string) error
}

// HistoryRepository is append-only.
type HistoryRepository interface {
	List(ctx context.Context, owner uuid.UUID) ([]*entities.HistoryEntry, error)
	Create(ctx context.Context, owner uuid.UUID, hash, message string, date time.Time) (*entities.HistoryEntry, error)
}

// ConfigRepository stores the singleton preferences row per owner
type ConfigRepository interface {
	// Get returns entities.ErrConfigNotFound when the owner has no row yet.
	Get(ctx context.Context, owner uuid.UUID) (*entities.AppConfig, error)
	Insert(ctx context.Context, owner uuid.UUID, cfg entities.AppConfig) (*entities.AppConfig, error)
	Upsert(ctx context.Context, owner uuid.UUID, cfg entities.AppConfig) (*entities.AppConfig, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// AuthRepository defines the interface for authentication operations
type AuthRepository interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// Store bundles the four owner-scoped collections.
type Store struct {
	Tasks   TaskRepository
	Notes   NoteRepository
	History HistoryRepository
	Configs ConfigRepository
}

// RefreshToken represents a refresh token record
type RefreshToken struct {
	ID        int        `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash string     `json:"token_hash" db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
}

// IsExpired checks if the refresh token is expired
func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// IsRevoked checks if the refresh token is revoked
func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

// IsValid checks if the refresh token is valid
func (rt *RefreshToken) IsValid() bool {
	return !rt.IsExpired() && !rt.IsRevoked()
}
