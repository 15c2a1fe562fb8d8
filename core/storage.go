package core

import "context"

type SessionStorage interface {
	CreateSession(ctx context.Context, session *Session) error

	// Query methods
	GetSessionByHash(ctx context.Context, tokenHash string) (*Session, error)
	GetSessionByID(ctx context.Context, id string) (*Session, error)
	GetUserSessions(ctx context.Context, userID string) ([]*Session, error)

	// Delete methods
	DeleteSessionByID(ctx context.Context, id string) error
	DeleteSessionByHash(ctx context.Context, tokenHash string) error
	DeleteUserSessions(ctx context.Context, userID string) (int, error)

	// Cleanup
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

type UserStorage interface {
	CreateUser(ctx context.Context, u *User) error

	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	DeleteUser(ctx context.Context, id string) error
}

type AccountStorage interface {
	CreateAccount(ctx context.Context, a *Account) error

	GetAccountByUserAndProvider(ctx context.Context, userID, providerID string) ([]*Account, error)
}

// ProfileStorage persists whole profile rows keyed by user ID.
type ProfileStorage interface {
	UpsertProfile(ctx context.Context, p *Profile) error
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}

type AuthStorage interface {
	UserStorage
	AccountStorage
	SessionStorage
}

// Storage is everything a backing store has to provide.
type Storage interface {
	AuthStorage
	ProfileStorage
}
