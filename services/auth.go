package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3/log"

	"github.com/lborres/flex/core"
	"github.com/lborres/flex/pkg/crypto"
)

type AuthService struct {
	db        core.AuthStorage
	passwords crypto.PasswordHasher
	sessions  *SessionManager
	validate  *Validator
}

var _ core.AuthHandler = (*AuthService)(nil)

func NewAuthService(db core.AuthStorage, passwords crypto.PasswordHasher, sessions *SessionManager, validate *Validator) *AuthService {
	return &AuthService{
		db:        db,
		passwords: passwords,
		sessions:  sessions,
		validate:  validate,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a user with email and password and opens a session.
func (s *AuthService) SignUp(ctx context.Context, input core.SignUpInput, ipAddress, userAgent string) (*core.SignUpResult, error) {
	input.Email = normalizeEmail(input.Email)
	if err := s.validate.SignUp(input); err != nil {
		return nil, err
	}

	existing, err := s.db.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, core.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, core.ErrUserExists
	}

	hashed, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &core.User{Email: input.Email}
	if err := s.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, core.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// For the credential provider the account ID is the user ID.
	account := &core.Account{
		UserID:     user.ID,
		ProviderID: core.CredentialProvider,
		AccountID:  user.ID,
		Password:   &hashed,
	}
	if err := s.db.CreateAccount(ctx, account); err != nil {
		// A user row without a credential can neither sign up again nor sign in.
		if delErr := s.db.DeleteUser(ctx, user.ID); delErr != nil {
			log.Errorw("failed to remove user after account error", "user_id", user.ID, "error", delErr.Error())
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	created, err := s.sessions.Create(ctx, user.ID, ipAddress, userAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Infow("user signed up", "user_id", user.ID)

	return &core.SignUpResult{
		User:    user,
		Session: created.Session,
		Token:   created.Token,
	}, nil
}

// SignOutEverywhere ends every session of userID and reports how many were open.
func (s *AuthService) SignOutEverywhere(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, core.ErrNotAuthenticated
	}

	n, err := s.sessions.DestroyAllUserSessions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user sessions: %w", err)
	}

	log.Infow("signed out everywhere", "user_id", userID, "sessions", n)
	return n, nil
}

// SignIn authenticates with email and password and opens a new session.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, input core.SignInInput, ipAddress, userAgent string) (*core.SignInResult, error) {
	input.Email = normalizeEmail(input.Email)
	if err := s.validate.SignIn(input); err != nil {
		return nil, err
	}

	user, err := s.db.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	accounts, err := s.db.GetAccountByUserAndProvider(ctx, user.ID, core.CredentialProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if len(accounts) == 0 || accounts[0].Password == nil {
		return nil, core.ErrInvalidCredentials
	}

	ok, err := s.passwords.Verify(input.Password, *accounts[0].Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		log.Warnw("sign-in rejected", "user_id", user.ID, "ip", ipAddress)
		return nil, core.ErrInvalidCredentials
	}

	created, err := s.sessions.Create(ctx, user.ID, ipAddress, userAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &core.SignInResult{
		User:    user,
		Session: created.Session,
		Token:   created.Token,
	}, nil
}

// SignOut invalidates the session behind token.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// GetSession resolves token to the session and its user.
func (s *AuthService) GetSession(ctx context.Context, token string) (*core.SessionData, error) {
	session, err := s.sessions.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.db.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &core.SessionData{
		User:    user,
		Session: session,
	}, nil
}
