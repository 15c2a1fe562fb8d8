// Package flex wires the account and profile services behind an HTTP adapter.
package flex

import (
	"fmt"
	"time"

	"github.com/lborres/flex/core"
	"github.com/lborres/flex/pkg/crypto"
	"github.com/lborres/flex/services"
)

// interfaces
type (
	Storage      = core.Storage
	HTTPProvider = core.HTTPProvider
	SessionCache = core.Cache[*core.Session]
	ProfileCache = core.Cache[*core.Profile]

	PasswordHasher = crypto.PasswordHasher
)

// structs
type (
	SessionConfig = core.SessionConfig
	CacheConfig   = core.CacheConfig
	CacheStats    = core.CacheStats
)

type (
	User         = core.User
	Account      = core.Account
	Session      = core.Session
	SessionData  = core.SessionData
	Profile      = core.Profile
	ProfileInput = core.ProfileInput
	FitnessLevel = core.FitnessLevel
	Goal         = core.Goal
)

const (
	defaultBasePath  = "/api/auth"
	defaultSecretLen = 32
	defaultMaxAge    = 24 * time.Hour
)

// Constructors & helpers (convenience re-exports)
var (
	NewArgon2 = crypto.NewArgon2
)

var (
	ErrUserExists         = core.ErrUserExists
	ErrUserNotFound       = core.ErrUserNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrNotAuthenticated   = core.ErrNotAuthenticated
)

var (
	ErrMissingAuthHeader = core.ErrMissingAuthHeader
	ErrInvalidToken      = core.ErrInvalidToken
	ErrSessionNotFound   = core.ErrSessionNotFound
	ErrSessionExpired    = core.ErrSessionExpired
)

var (
	ErrProfileNotFound  = core.ErrProfileNotFound
	ErrProfileForbidden = core.ErrProfileForbidden
	ErrInvalidProfile   = core.ErrInvalidProfile
)

var (
	ErrDBAdapterRequired   = core.ErrDBAdapterRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
	ErrSecretRequired      = core.ErrSecretRequired
	ErrSecretTooShort      = core.ErrSecretTooShort
)

type Config struct {
	// Secret keys the session token hashes. At least 32 characters.
	Secret string

	Database Storage
	HTTP     HTTPProvider

	SessionConfig *SessionConfig

	// Caches default to in-memory ones built from CacheConfig.
	SessionCache SessionCache
	ProfileCache ProfileCache
	CacheConfig  CacheConfig
	DisableCache bool

	PasswordHasher PasswordHasher
	BasePath       string
}

// Flex is a running instance: the API, the session manager, and the
// middleware that guards custom routes.
type Flex struct {
	*services.API

	Sessions  *services.SessionManager
	Protected interface{}
	BasePath  string
}

func New(config Config) (*Flex, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if config.Database == nil {
		return nil, ErrDBAdapterRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	var sessionCache SessionCache
	var profileCache ProfileCache
	if !config.DisableCache {
		sessionCache, profileCache = config.SessionCache, config.ProfileCache
		if sessionCache == nil {
			sessionCache = core.NewInMemoryCache[*core.Session](config.CacheConfig)
		}
		if profileCache == nil {
			profileCache = core.NewInMemoryCache[*core.Profile](config.CacheConfig)
		}
	}

	sessionConfig := config.SessionConfig
	if sessionConfig == nil {
		sessionConfig = &SessionConfig{MaxAge: defaultMaxAge}
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = crypto.NewArgon2()
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	validate := services.NewValidator()
	sessions := services.NewSessionManager(*sessionConfig, config.Database, sessionCache, crypto.NewTokenHasher(config.Secret))
	api := services.NewAPI(
		services.NewAuthService(config.Database, passwordHasher, sessions, validate),
		services.NewProfileService(config.Database, profileCache, validate),
	)

	if err := config.HTTP.RegisterRoutes(api, services.NewEndpointRegistry().Endpoints(), basePath, sessionConfig.MaxAge); err != nil {
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	return &Flex{
		API:       api,
		Sessions:  sessions,
		Protected: config.HTTP.BuildProtectedMiddleware(api),
		BasePath:  basePath,
	}, nil
}
