package fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"

	"github.com/lborres/flex/adapters/memory"
	"github.com/lborres/flex/core"
	"github.com/lborres/flex/pkg/crypto"
	"github.com/lborres/flex/services"
)

const (
	testSecret   = "secretshouldbeatleast32charslong"
	testBasePath = "/api/auth"
)

func newTestAPI() *services.API {
	storage := memory.New()
	sessions := services.NewSessionManager(core.SessionConfig{MaxAge: time.Hour}, storage, nil, crypto.NewTokenHasher(testSecret))
	validate := services.NewValidator()
	hasher := &crypto.Argon2{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

	return services.NewAPI(
		services.NewAuthService(storage, hasher, sessions, validate),
		services.NewProfileService(storage, nil, validate),
	)
}

func newTestApp(t *testing.T, provider core.APIProvider) *fiber.App {
	t.Helper()
	app := fiber.New()
	err := New(app).RegisterRoutes(provider, services.NewEndpointRegistry().Endpoints(), testBasePath, time.Hour)
	require.NoError(t, err)
	return app
}

type response struct {
	status int
	body   map[string]any
	header http.Header
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, testBasePath+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := response{status: resp.StatusCode, header: resp.Header}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.body), "body: %s", raw)
	}
	return out
}

func signUp(t *testing.T, app *fiber.App, email string) (token, userID string) {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/sign-up", "", map[string]string{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusCreated, resp.status, resp.body)
	user := resp.body["user"].(map[string]any)
	return resp.body["token"].(string), user["id"].(string)
}

// Requirement: sign-up and sign-in return user, session and token and set the auth cookie.
func TestHandlers_SignUpAndSignIn(t *testing.T) {
	app := newTestApp(t, newTestAPI())

	token, userID := signUp(t, app, "a@b.com")
	require.NotEmpty(t, token)
	require.NotEmpty(t, userID)

	resp := call(t, app, http.MethodPost, "/sign-in", "", map[string]string{"email": "a@b.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.status)
	require.NotEmpty(t, resp.body["token"])
	require.NotEqual(t, token, resp.body["token"], "each sign-in opens a new session")
	require.Contains(t, resp.header.Get("Set-Cookie"), authCookie+"=")

	session := resp.body["session"].(map[string]any)
	require.NotContains(t, session, "tokenHash")
}

// Requirement: failures come back as {"error": msg} with a mapped status.
func TestHandlers_ErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       any
		wantStatus int
		wantError  string
	}{
		{name: "duplicate email", path: "/sign-up", body: map[string]string{"email": "a@b.com", "password": "secret1"}, wantStatus: http.StatusConflict, wantError: core.ErrUserExists.Error()},
		{name: "short password", path: "/sign-up", body: map[string]string{"email": "new@b.com", "password": "12345"}, wantStatus: http.StatusBadRequest},
		{name: "invalid email", path: "/sign-up", body: map[string]string{"email": "nope", "password": "secret1"}, wantStatus: http.StatusBadRequest, wantError: core.ErrInvalidEmail.Error()},
		{name: "wrong password", path: "/sign-in", body: map[string]string{"email": "a@b.com", "password": "wrong12"}, wantStatus: http.StatusUnauthorized, wantError: core.ErrInvalidCredentials.Error()},
		{name: "unknown user", path: "/sign-in", body: map[string]string{"email": "x@b.com", "password": "secret1"}, wantStatus: http.StatusUnauthorized, wantError: core.ErrInvalidCredentials.Error()},
		{name: "malformed body", path: "/sign-in", body: "{not json", wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
	}

	app := newTestApp(t, newTestAPI())
	signUp(t, app, "a@b.com")

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Act
			resp := call(t, app, http.MethodPost, test.path, "", test.body)

			// Assert
			require.Equal(t, test.wantStatus, resp.status, resp.body)
			require.NotEmpty(t, resp.body["error"])
			if test.wantError != "" {
				require.Equal(t, test.wantError, resp.body["error"])
			}
		})
	}
}

// Requirement: protected routes need a bearer token or the auth cookie.
func TestHandlers_ProtectedRoutesRequireSession(t *testing.T) {
	app := newTestApp(t, newTestAPI())

	resp := call(t, app, http.MethodGet, "/user", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.status)
	require.Equal(t, core.ErrMissingAuthHeader.Error(), resp.body["error"])

	req := httptest.NewRequest(http.MethodGet, testBasePath+"/user", nil)
	req.Header.Set("Authorization", "Basic abc")
	raw, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, raw.StatusCode)

	resp = call(t, app, http.MethodGet, "/session", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.status)
	require.Equal(t, core.ErrInvalidToken.Error(), resp.body["error"])
}

func TestHandlers_CookieAuth(t *testing.T) {
	app := newTestApp(t, newTestAPI())
	token, userID := signUp(t, app, "a@b.com")

	req := httptest.NewRequest(http.MethodGet, testBasePath+"/user", nil)
	req.AddCookie(&http.Cookie{Name: authCookie, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		User core.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, userID, body.User.ID)
}

// Requirement: the profile lifecycle of a signed-in user, end to end.
func TestHandlers_ProfileFlow(t *testing.T) {
	app := newTestApp(t, newTestAPI())
	token, userID := signUp(t, app, "a@b.com")
	_, otherID := signUp(t, app, "c@d.com")

	resp := call(t, app, http.MethodGet, "/profile/"+userID, token, nil)
	require.Equal(t, http.StatusNotFound, resp.status)
	require.Equal(t, core.ErrProfileNotFound.Error(), resp.body["error"])

	input := map[string]any{
		"name":          "Sam",
		"age":           29,
		"bio":           "Early riser",
		"fitness_level": "Advanced",
		"gym_location":  "Downtown",
		"goals":         []string{"Workouts", "Dating"},
	}
	resp = call(t, app, http.MethodPut, "/profile", token, input)
	require.Equal(t, http.StatusOK, resp.status, resp.body)
	require.Equal(t, userID, resp.body["id"])

	resp = call(t, app, http.MethodGet, "/profile/"+userID, token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	require.Equal(t, "Advanced", resp.body["fitness_level"])
	require.Equal(t, []any{"Workouts", "Dating"}, resp.body["goals"])

	resp = call(t, app, http.MethodGet, "/profile/"+otherID, token, nil)
	require.Equal(t, http.StatusForbidden, resp.status)

	input["fitness_level"] = "Legendary"
	resp = call(t, app, http.MethodPut, "/profile", token, input)
	require.Equal(t, http.StatusBadRequest, resp.status)
	require.Contains(t, resp.body["error"], "fitness_level")
}

func TestHandlers_SignOutInvalidatesToken(t *testing.T) {
	app := newTestApp(t, newTestAPI())
	token, _ := signUp(t, app, "a@b.com")

	resp := call(t, app, http.MethodPost, "/sign-out", token, nil)
	require.Equal(t, http.StatusOK, resp.status)

	resp = call(t, app, http.MethodGet, "/session", token, nil)
	require.Equal(t, http.StatusUnauthorized, resp.status)
}

func TestHandlers_SignOutAllEndsEverySession(t *testing.T) {
	app := newTestApp(t, newTestAPI())
	first, _ := signUp(t, app, "a@b.com")
	resp := call(t, app, http.MethodPost, "/sign-in", "", map[string]string{"email": "a@b.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.status)
	second, _ := resp.body["token"].(string)
	require.NotEmpty(t, second)

	resp = call(t, app, http.MethodPost, "/sign-out-all", first, nil)
	require.Equal(t, http.StatusOK, resp.status)
	require.EqualValues(t, 2, resp.body["sessions"])

	for _, token := range []string{first, second} {
		resp = call(t, app, http.MethodGet, "/session", token, nil)
		require.Equal(t, http.StatusUnauthorized, resp.status)
	}
}

// failingProvider fails every session lookup with an unclassified error.
type failingProvider struct {
	core.APIProvider
}

func (failingProvider) GetSession(context.Context, string) (*core.SessionData, error) {
	return nil, errors.New("connection refused")
}

func TestHandlers_InternalErrorsAreHidden(t *testing.T) {
	app := newTestApp(t, failingProvider{APIProvider: newTestAPI()})

	resp := call(t, app, http.MethodGet, "/session", "tok", nil)

	require.Equal(t, http.StatusInternalServerError, resp.status)
	require.Equal(t, "internal server error", resp.body["error"])
}

func TestRegisterRoutes_UnknownOperation(t *testing.T) {
	endpoints := []*core.Endpoint{{Path: "/x", Method: http.MethodGet, Metadata: core.EndpointMetadata{OperationID: "mystery"}}}

	err := New(fiber.New()).RegisterRoutes(newTestAPI(), endpoints, testBasePath, time.Hour)

	require.Error(t, err)
	require.Contains(t, err.Error(), "mystery")
}

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: nil, want: http.StatusOK},
		{err: core.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{err: core.ErrSessionExpired, want: http.StatusUnauthorized},
		{err: core.ErrNotAuthenticated, want: http.StatusUnauthorized},
		{err: core.ErrProfileForbidden, want: http.StatusForbidden},
		{err: core.ErrProfileNotFound, want: http.StatusNotFound},
		{err: core.ErrUserExists, want: http.StatusConflict},
		{err: fmt.Errorf("%w: name is required", core.ErrInvalidProfile), want: http.StatusBadRequest},
		{err: core.ErrPasswordTooShort, want: http.StatusBadRequest},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, test := range tests {
		if got := mapErrorToStatus(test.err); got != test.want {
			t.Errorf("mapErrorToStatus(%v) = %d, want %d", test.err, got, test.want)
		}
	}
}
