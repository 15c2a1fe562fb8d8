package services

import (
	"context"
	"time"

	"github.com/lborres/flex/adapters/memory"
	"github.com/lborres/flex/core"
	"github.com/lborres/flex/pkg/crypto"
)

const testSecret = "secretshouldbeatleast32charslong"

// faultyStorage wraps the in-memory store and injects errors per operation.
type faultyStorage struct {
	*memory.Storage
	createSessionErr error
	getSessionErr    error
	deleteSessionErr error
	getUserErr       error
	createAccountErr error
	upsertProfileErr error
	getProfileErr    error

	getProfileCalls int
}

func newFaultyStorage() *faultyStorage {
	return &faultyStorage{Storage: memory.New()}
}

func (f *faultyStorage) CreateSession(ctx context.Context, s *core.Session) error {
	if f.createSessionErr != nil {
		return f.createSessionErr
	}
	return f.Storage.CreateSession(ctx, s)
}

func (f *faultyStorage) GetSessionByHash(ctx context.Context, tokenHash string) (*core.Session, error) {
	if f.getSessionErr != nil {
		return nil, f.getSessionErr
	}
	return f.Storage.GetSessionByHash(ctx, tokenHash)
}

func (f *faultyStorage) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	if f.deleteSessionErr != nil {
		return f.deleteSessionErr
	}
	return f.Storage.DeleteSessionByHash(ctx, tokenHash)
}

func (f *faultyStorage) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	return f.Storage.GetUserByEmail(ctx, email)
}

func (f *faultyStorage) CreateAccount(ctx context.Context, a *core.Account) error {
	if f.createAccountErr != nil {
		return f.createAccountErr
	}
	return f.Storage.CreateAccount(ctx, a)
}

func (f *faultyStorage) UpsertProfile(ctx context.Context, p *core.Profile) error {
	if f.upsertProfileErr != nil {
		return f.upsertProfileErr
	}
	return f.Storage.UpsertProfile(ctx, p)
}

func (f *faultyStorage) GetProfile(ctx context.Context, userID string) (*core.Profile, error) {
	f.getProfileCalls++
	if f.getProfileErr != nil {
		return nil, f.getProfileErr
	}
	return f.Storage.GetProfile(ctx, userID)
}

// fastHasher keeps argon2 cheap in tests.
func fastHasher() *crypto.Argon2 {
	return &crypto.Argon2{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func newTestSessionManager(storage core.SessionStorage, cache core.Cache[*core.Session]) *SessionManager {
	return NewSessionManager(core.SessionConfig{MaxAge: 24 * time.Hour}, storage, cache, crypto.NewTokenHasher(testSecret))
}

func newTestAuthService(storage *faultyStorage) *AuthService {
	return NewAuthService(storage, fastHasher(), newTestSessionManager(storage, nil), NewValidator())
}

// seedAccount registers email/password directly through storage.
func seedAccount(storage *faultyStorage, email, password string) *core.User {
	ctx := context.Background()
	user := &core.User{Email: email}
	_ = storage.Storage.CreateUser(ctx, user)
	hashed, _ := fastHasher().Hash(password)
	_ = storage.Storage.CreateAccount(ctx, &core.Account{
		UserID:     user.ID,
		ProviderID: core.CredentialProvider,
		AccountID:  user.ID,
		Password:   &hashed,
	})
	return user
}
