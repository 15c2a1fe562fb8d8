package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3/log"

	"github.com/lborres/flex/core"
	"github.com/lborres/flex/pkg/crypto"
)

type SessionManager struct {
	config  core.SessionConfig
	storage core.SessionStorage
	cache   core.Cache[*core.Session] // nil disables caching
	tokens  *crypto.TokenHasher
	ids     *crypto.NanoIDGenerator
}

func NewSessionManager(config core.SessionConfig, storage core.SessionStorage, cache core.Cache[*core.Session], tokens *crypto.TokenHasher) *SessionManager {
	return &SessionManager{
		config:  config,
		storage: storage,
		cache:   cache,
		tokens:  tokens,
		ids:     crypto.DefaultNanoID(),
	}
}

func (sm *SessionManager) MaxAge() time.Duration { return sm.config.MaxAge }

func (sm *SessionManager) Create(ctx context.Context, userID, ip, userAgent string) (*core.CreateSessionResult, error) {
	pair, err := sm.tokens.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	sessionID, err := sm.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := time.Now()
	session := &core.Session{
		ID:        sessionID,
		UserID:    userID,
		TokenHash: pair.Hash,
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(sm.config.MaxAge),
	}

	if err := sm.storage.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	if sm.cache != nil {
		// A cache failure never fails the request.
		_ = sm.cache.Set(pair.Hash, session)
	}

	return &core.CreateSessionResult{Session: session, Token: pair.Token}, nil
}

// Verify resolves a client token to its live session.
func (sm *SessionManager) Verify(ctx context.Context, token string) (*core.Session, error) {
	if token == "" {
		return nil, core.ErrInvalidToken
	}

	tokenHash := sm.tokens.Hash(token)

	if sm.cache != nil {
		if session, err := sm.cache.Get(tokenHash); err == nil {
			if time.Now().After(session.ExpiresAt) {
				_ = sm.cache.Delete(tokenHash)
				return nil, core.ErrSessionExpired
			}
			return session, nil
		}
	}

	session, err := sm.storage.GetSessionByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			return nil, core.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, core.ErrInvalidToken
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, core.ErrSessionExpired
	}

	if sm.cache != nil {
		_ = sm.cache.Set(tokenHash, session)
	}

	return session, nil
}

func (sm *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return core.ErrInvalidToken
	}

	tokenHash := sm.tokens.Hash(token)

	// Evict first so a storage failure cannot leave a stale cached session.
	if sm.cache != nil {
		_ = sm.cache.Delete(tokenHash)
	}

	if err := sm.storage.DeleteSessionByHash(ctx, tokenHash); err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			return core.ErrInvalidToken
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DestroyAllUserSessions removes every session of userID, cached ones included.
func (sm *SessionManager) DestroyAllUserSessions(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, core.ErrUserNotFound
	}

	if sm.cache != nil {
		if sessions, err := sm.storage.GetUserSessions(ctx, userID); err == nil {
			for _, s := range sessions {
				_ = sm.cache.Delete(s.TokenHash)
			}
		}
	}

	return sm.storage.DeleteUserSessions(ctx, userID)
}

// Cleanup removes expired rows. Cached entries expire on their own TTL and
// are re-checked against ExpiresAt on every hit.
func (sm *SessionManager) Cleanup(ctx context.Context) (int, error) {
	n, err := sm.storage.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	if n > 0 {
		log.Infow("expired sessions removed", "count", n)
	}
	return n, nil
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (sm *SessionManager) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sm.Cleanup(ctx); err != nil {
				log.Warnw("session cleanup failed", "error", err)
			}
		}
	}
}
