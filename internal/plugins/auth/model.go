// Package auth handles user authentication and session management for Curio.
// It provides login, logout, and session validation via opaque tokens stored
// in Redis, plus the permission queries the media chooser relies on.
//
// This is a CORE plugin -- always enabled, cannot be disabled.
package auth

import (
	"time"
)

// User represents a registered Curio user. This is the domain model used
// throughout the application. Database scanning and JSON marshaling use this
// struct directly.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"` // Never expose in JSON responses.
	IsAdmin      bool       `json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// --- Request DTOs (bound from HTTP requests) ---

// LoginRequest holds the data submitted by the login form.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// --- Service Input DTOs (passed from handler to service) ---

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Email    string
	Password string
}

// --- Session ---

// Session represents an authenticated user session stored in Redis.
// The session token is the key, and this struct is the value (JSON-encoded).
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
