package flex

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lborres/flex/adapters/memory"
	"github.com/lborres/flex/core"
	"github.com/lborres/flex/pkg/crypto"
)

const testSecret = "secretshouldbeatleast32charslong"

// recordingHTTP captures what New mounts.
type recordingHTTP struct {
	provider  core.APIProvider
	endpoints []*core.Endpoint
	basePath  string
	ttl       time.Duration
	err       error
}

func (r *recordingHTTP) RegisterRoutes(provider core.APIProvider, endpoints []*core.Endpoint, basePath string, ttl time.Duration) error {
	r.provider, r.endpoints, r.basePath, r.ttl = provider, endpoints, basePath, ttl
	return r.err
}

func (r *recordingHTTP) BuildProtectedMiddleware(provider core.APIProvider) interface{} {
	return "protected"
}

func fastHasher() *crypto.Argon2 {
	return &crypto.Argon2{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

// Requirement: New rejects incomplete configuration before wiring anything.
func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "missing secret", config: Config{Database: memory.New(), HTTP: &recordingHTTP{}}, wantErr: ErrSecretRequired},
		{name: "short secret", config: Config{Secret: "short", Database: memory.New(), HTTP: &recordingHTTP{}}, wantErr: ErrSecretTooShort},
		{name: "missing database", config: Config{Secret: testSecret, HTTP: &recordingHTTP{}}, wantErr: ErrDBAdapterRequired},
		{name: "missing http", config: Config{Secret: testSecret, Database: memory.New()}, wantErr: ErrHTTPAdapterRequired},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			_, err := New(test.config)
			if !errors.Is(err, test.wantErr) {
				t.Errorf("New() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	// Arrange
	http := &recordingHTTP{}

	// Act
	f, err := New(Config{Secret: testSecret, Database: memory.New(), HTTP: http})

	// Assert
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if http.basePath != defaultBasePath || f.BasePath != defaultBasePath {
		t.Errorf("basePath = %q, want %q", http.basePath, defaultBasePath)
	}
	if http.ttl != defaultMaxAge || f.Sessions.MaxAge() != defaultMaxAge {
		t.Errorf("ttl = %v, want %v", http.ttl, defaultMaxAge)
	}
	if len(http.endpoints) != 8 {
		t.Errorf("mounted %d endpoints, want 8", len(http.endpoints))
	}
	if http.provider != f.API {
		t.Error("routes not bound to the returned API")
	}
	if f.Protected != "protected" {
		t.Errorf("Protected = %v", f.Protected)
	}
}

func TestNewHonoursOverrides(t *testing.T) {
	http := &recordingHTTP{}

	_, err := New(Config{
		Secret:         testSecret,
		Database:       memory.New(),
		HTTP:           http,
		SessionConfig:  &SessionConfig{MaxAge: time.Hour},
		BasePath:       "/v1",
		PasswordHasher: fastHasher(),
		DisableCache:   true,
	})

	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if http.basePath != "/v1" || http.ttl != time.Hour {
		t.Errorf("basePath=%q ttl=%v", http.basePath, http.ttl)
	}
}

func TestNewWrapsRouteErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := New(Config{Secret: testSecret, Database: memory.New(), HTTP: &recordingHTTP{err: boom}})

	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "register routes") {
		t.Errorf("New() error = %v", err)
	}
}

func TestFlexServesAccountAndProfile(t *testing.T) {
	// Arrange
	ctx := context.Background()
	sessions := core.NewInMemoryCache[*core.Session](CacheConfig{TTL: time.Minute})
	f, err := New(Config{
		Secret:         testSecret,
		Database:       memory.New(),
		HTTP:           &recordingHTTP{},
		PasswordHasher: fastHasher(),
		SessionCache:   sessions,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Act
	signUp, err := f.SignUp(ctx, core.SignUpInput{Email: "a@b.com", Password: "secret1"}, "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	data, err := f.GetSession(ctx, signUp.Token)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	_, err = f.UpsertProfile(ctx, data.User.ID, ProfileInput{Name: "Sam", Age: 29, FitnessLevel: core.Beginner})
	if err != nil {
		t.Fatalf("UpsertProfile() error = %v", err)
	}
	profile, err := f.GetProfile(ctx, data.User.ID, data.User.ID)

	// Assert
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if profile.Name != "Sam" || profile.CreatedAt.IsZero() {
		t.Errorf("profile = %+v", profile)
	}
	if sessions.Stats().Sets == 0 {
		t.Error("configured session cache was not used")
	}
}
