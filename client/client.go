// Package client talks to the Flex API over HTTP and keeps the session token
// between calls. *Client satisfies submit.Remote.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	fiberclient "github.com/gofiber/fiber/v3/client"

	"github.com/lborres/flex/core"
)

// APIError is a non-2xx answer from the server. Error returns the server's
// message unchanged so it can be shown to the user as is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Is matches the core sentinel the server reported, so
// errors.Is(err, core.ErrInvalidCredentials) works across the wire. Wrapped
// server messages ("invalid profile: ...") match their leading sentinel.
func (e *APIError) Is(target error) bool {
	if target == nil {
		return false
	}
	want := target.Error()
	return e.Message == want || strings.HasPrefix(e.Message, want+":")
}

type Client struct {
	http    *fiberclient.Client
	baseURL string

	mu    sync.RWMutex
	token string
	user  *core.User
}

type Option func(*Client)

// WithTimeout bounds every request. There is no timeout by default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithToken restores a previously issued session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the API mounted at baseURL,
// e.g. "http://localhost:8080/api/auth".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    fiberclient.New(),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current session token, empty when signed out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setSession(token string, user *core.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.user = user
}

func (c *Client) clearSession() {
	c.setSession("", nil)
}

type authResponse struct {
	User  *core.User `json:"user"`
	Token string     `json:"token"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) error {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/sign-up", core.SignUpInput{Email: email, Password: password}, &out)
	if err != nil {
		return err
	}
	c.setSession(out.Token, out.User)
	return nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) error {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/sign-in", core.SignInInput{Email: email, Password: password}, &out)
	if err != nil {
		return err
	}
	c.setSession(out.Token, out.User)
	return nil
}

// SignOut ends the server session. The local token is dropped even when the
// server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	defer c.clearSession()
	return c.do(ctx, http.MethodPost, "/sign-out", nil, nil)
}

// GetCurrentUser returns nil, nil when there is no live session.
func (c *Client) GetCurrentUser(ctx context.Context) (*core.User, error) {
	if c.Token() == "" {
		return nil, nil
	}

	var out struct {
		User *core.User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/user", nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			c.clearSession()
			return nil, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.user = out.User
	c.mu.Unlock()
	return out.User, nil
}

// UpsertProfile writes the signed-in user's profile. The server derives the
// owner from the session, so userID must be that user.
func (c *Client) UpsertProfile(ctx context.Context, userID string, input core.ProfileInput) error {
	c.mu.RLock()
	current := c.user
	c.mu.RUnlock()
	if current != nil && current.ID != userID {
		return core.ErrProfileForbidden
	}

	return c.do(ctx, http.MethodPut, "/profile", input, nil)
}

func (c *Client) SelectProfile(ctx context.Context, userID string) (*core.Profile, error) {
	var p core.Profile
	if err := c.do(ctx, http.MethodGet, "/profile/"+url.PathEscape(userID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req := fiberclient.AcquireRequest()
	defer fiberclient.ReleaseRequest(req)

	req.SetClient(c.http).
		SetContext(ctx).
		SetMethod(method).
		SetURL(c.baseURL + path)

	if token := c.Token(); token != "" {
		req.SetHeader(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		req.SetJSON(body)
	}

	resp, err := req.Send()
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer fiberclient.ReleaseResponse(resp)

	if status := resp.StatusCode(); status < 200 || status > 299 {
		return decodeError(resp)
	}

	if out != nil {
		if err := resp.JSON(out); err != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

func decodeError(resp *fiberclient.Response) error {
	apiErr := &APIError{Status: resp.StatusCode()}

	var body core.ErrorResponse
	if err := resp.JSON(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = http.StatusText(apiErr.Status)
	}
	return apiErr
}
