package core

import (
	"context"
	"time"
)

// SignUpInput and SignInInput are checked field by field by services.Validator,
// which maps each failure onto its own sentinel.
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpResult struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
	Token   string   `json:"token"`
}

type SignInResult struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
	Token   string   `json:"token"`
}

type CreateSessionResult struct {
	Session *Session
	Token   string
}

type SessionConfig struct {
	MaxAge time.Duration
}

// AuthHandler is the account half of the API.
type AuthHandler interface {
	SignUp(ctx context.Context, input SignUpInput, ipAddress, userAgent string) (*SignUpResult, error)
	SignIn(ctx context.Context, input SignInInput, ipAddress, userAgent string) (*SignInResult, error)
	SignOut(ctx context.Context, token string) error
	SignOutEverywhere(ctx context.Context, userID string) (int, error)
	GetSession(ctx context.Context, token string) (*SessionData, error)
}

// ProfileHandler reads and writes profile rows on behalf of an authenticated user.
type ProfileHandler interface {
	UpsertProfile(ctx context.Context, userID string, input ProfileInput) (*Profile, error)
	// GetProfile returns userID's row; requesterID must be the same user.
	GetProfile(ctx context.Context, requesterID, userID string) (*Profile, error)
}

type APIProvider interface {
	AuthHandler
	ProfileHandler
}
