// Package memory is an in-process core.Storage for development and tests.
// Nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lborres/flex/core"
)

type Storage struct {
	mu       sync.RWMutex
	users    map[string]*core.User    // by ID
	emails   map[string]string        // email -> user ID
	accounts map[string]*core.Account // by ID
	sessions map[string]*core.Session // by token hash
	profiles map[string]*core.Profile // by user ID
}

var _ core.Storage = (*Storage)(nil)

func New() *Storage {
	return &Storage{
		users:    make(map[string]*core.User),
		emails:   make(map[string]string),
		accounts: make(map[string]*core.Account),
		sessions: make(map[string]*core.Session),
		profiles: make(map[string]*core.Profile),
	}
}

func (s *Storage) CreateUser(_ context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[u.Email]; taken {
		return core.ErrUserExists
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now

	row := *u
	s.users[u.ID] = &row
	s.emails[u.Email] = u.ID
	return nil
}

func (s *Storage) GetUserByID(_ context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	row := *u
	return &row, nil
}

func (s *Storage) GetUserByEmail(_ context.Context, email string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	row := *s.users[id]
	return &row, nil
}

// DeleteUser removes the user together with its accounts, sessions and profile.
func (s *Storage) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return core.ErrUserNotFound
	}
	delete(s.emails, u.Email)
	delete(s.users, id)
	delete(s.profiles, id)
	for k, a := range s.accounts {
		if a.UserID == id {
			delete(s.accounts, k)
		}
	}
	for k, sess := range s.sessions {
		if sess.UserID == id {
			delete(s.sessions, k)
		}
	}
	return nil
}

func (s *Storage) CreateAccount(_ context.Context, a *core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[a.UserID]; !ok {
		return core.ErrUserNotFound
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now

	row := *a
	s.accounts[a.ID] = &row
	return nil
}

func (s *Storage) GetAccountByUserAndProvider(_ context.Context, userID, providerID string) ([]*core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*core.Account
	for _, a := range s.accounts {
		if a.UserID == userID && a.ProviderID == providerID {
			row := *a
			out = append(out, &row)
		}
	}
	return out, nil
}

func (s *Storage) CreateSession(_ context.Context, session *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := *session
	s.sessions[session.TokenHash] = &row
	return nil
}

func (s *Storage) GetSessionByHash(_ context.Context, tokenHash string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[tokenHash]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	row := *sess
	return &row, nil
}

func (s *Storage) GetSessionByID(_ context.Context, id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sess := range s.sessions {
		if sess.ID == id {
			row := *sess
			return &row, nil
		}
	}
	return nil, core.ErrSessionNotFound
}

func (s *Storage) GetUserSessions(_ context.Context, userID string) ([]*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*core.Session
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			row := *sess
			out = append(out, &row)
		}
	}
	return out, nil
}

func (s *Storage) DeleteSessionByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, sess := range s.sessions {
		if sess.ID == id {
			delete(s.sessions, k)
			return nil
		}
	}
	return core.ErrSessionNotFound
}

func (s *Storage) DeleteSessionByHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[tokenHash]; !ok {
		return core.ErrSessionNotFound
	}
	delete(s.sessions, tokenHash)
	return nil
}

func (s *Storage) DeleteUserSessions(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, k)
			n++
		}
	}
	return n, nil
}

func (s *Storage) DeleteExpiredSessions(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	n := 0
	for k, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, k)
			n++
		}
	}
	return n, nil
}

func (s *Storage) UpsertProfile(_ context.Context, p *core.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[p.ID]; !ok {
		return core.ErrUserNotFound
	}
	s.profiles[p.ID] = cloneProfile(p)
	return nil
}

func (s *Storage) GetProfile(_ context.Context, userID string) (*core.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, core.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

func cloneProfile(p *core.Profile) *core.Profile {
	row := *p
	row.Goals = append([]core.Goal(nil), p.Goals...)
	return &row
}
