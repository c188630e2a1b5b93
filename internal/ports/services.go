package ports

import (
	"github.com/vimtodo/core/internal/domain/entities"
)

// Request/Response Types

// Auth related types
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *entities.User `json:"user"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Task related types
type CreateTaskRequest struct {
	Text     string            `json:"text" validate:"required,max=500"`
	Priority entities.Priority `json:"priority" validate:"omitempty,oneof=H M L"`
}

type UpdateTaskRequest struct {
	Text     string            `json:"text" validate:"required,max=500"`
	Priority entities.Priority `json:"priority" validate:"required,oneof=H M L"`
}

// Note related types
type CreateNoteRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content"`
	Images  []string `json:"images" validate:"omitempty,dive,required"`
}

type UpdateNoteContentRequest struct {
	Content string `json:"content"`
}

type AddImageRequest struct {
	URL string `json:"url" validate:"required"`
}

// Editing session types
type DraftRequest struct {
	Content string `json:"content"`
}

type SessionResponse struct {
	NoteID  string `json:"note_id"`
	Draft   string `json:"draft"`
	Pending bool   `json:"pending"`
	Dirty   bool   `json:"dirty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
