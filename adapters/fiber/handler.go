package fiber

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"

	"github.com/lborres/flex/core"
	"github.com/lborres/flex/services"
)

const (
	authCookie   = "auth_token"
	bearerPrefix = "Bearer "
)

type handlers struct {
	provider  core.APIProvider
	cookieTTL time.Duration
}

func (h *handlers) byOperation() map[string]fiber.Handler {
	return map[string]fiber.Handler{
		services.OpSignUp:         h.signUp,
		services.OpSignIn:         h.signIn,
		services.OpSignOut:        h.signOut,
		services.OpSignOutAll:     h.signOutAll,
		services.OpGetSession:     h.session,
		services.OpGetCurrentUser: h.currentUser,
		services.OpUpsertProfile:  h.upsertProfile,
		services.OpSelectProfile:  h.selectProfile,
	}
}

func (h *handlers) signUp(c fiber.Ctx) error {
	var input core.SignUpInput
	if err := c.Bind().Body(&input); err != nil {
		return badBody(c)
	}

	result, err := h.provider.SignUp(c.Context(), input, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return writeError(c, err)
	}

	h.setAuthCookie(c, result.Token)
	return c.Status(http.StatusCreated).JSON(result)
}

func (h *handlers) signIn(c fiber.Ctx) error {
	var input core.SignInInput
	if err := c.Bind().Body(&input); err != nil {
		return badBody(c)
	}

	result, err := h.provider.SignIn(c.Context(), input, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return writeError(c, err)
	}

	h.setAuthCookie(c, result.Token)
	return c.Status(http.StatusOK).JSON(result)
}

func (h *handlers) signOut(c fiber.Ctx) error {
	token, _ := c.Locals(localsToken).(string)

	if err := h.provider.SignOut(c.Context(), token); err != nil {
		return writeError(c, err)
	}

	c.ClearCookie(authCookie)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "signed out successfully",
	})
}

func (h *handlers) signOutAll(c fiber.Ctx) error {
	n, err := h.provider.SignOutEverywhere(c.Context(), UserFrom(c).ID)
	if err != nil {
		return writeError(c, err)
	}

	c.ClearCookie(authCookie)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":  "signed out of all sessions",
		"sessions": n,
	})
}

func (h *handlers) session(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(core.SessionData{
		User:    UserFrom(c),
		Session: SessionFrom(c),
	})
}

func (h *handlers) currentUser(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user": UserFrom(c),
	})
}

func (h *handlers) upsertProfile(c fiber.Ctx) error {
	var input core.ProfileInput
	if err := c.Bind().Body(&input); err != nil {
		return badBody(c)
	}

	profile, err := h.provider.UpsertProfile(c.Context(), UserFrom(c).ID, input)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(profile)
}

func (h *handlers) selectProfile(c fiber.Ctx) error {
	profile, err := h.provider.GetProfile(c.Context(), UserFrom(c).ID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(profile)
}

func (h *handlers) setAuthCookie(c fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookieTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// extractToken reads the bearer token, falling back to the auth cookie.
func extractToken(c fiber.Ctx) (string, error) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		token, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok || token == "" {
			return "", core.ErrInvalidAuthHeader
		}
		return token, nil
	}

	if token := c.Cookies(authCookie); token != "" {
		return token, nil
	}
	return "", core.ErrMissingAuthHeader
}

func badBody(c fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(core.ErrorResponse{Error: "invalid request body"})
}

// writeError maps err onto a status and writes {"error": msg}.
// Unclassified errors are logged and hidden behind a generic message.
func writeError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		msg = "internal server error"
	}
	return c.Status(status).JSON(core.ErrorResponse{Error: msg})
}

func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrNotAuthenticated),
		errors.Is(err, core.ErrMissingAuthHeader),
		errors.Is(err, core.ErrInvalidAuthHeader),
		errors.Is(err, core.ErrInvalidToken),
		errors.Is(err, core.ErrSessionNotFound),
		errors.Is(err, core.ErrSessionExpired):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrProfileForbidden):
		return http.StatusForbidden

	case errors.Is(err, core.ErrProfileNotFound),
		errors.Is(err, core.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, core.ErrUserExists):
		return http.StatusConflict

	case errors.Is(err, core.ErrEmailRequired),
		errors.Is(err, core.ErrPasswordRequired),
		errors.Is(err, core.ErrPasswordTooShort),
		errors.Is(err, core.ErrPasswordTooLong),
		errors.Is(err, core.ErrInvalidEmail),
		errors.Is(err, core.ErrInvalidProfile),
		errors.Is(err, core.ErrInvalidGoal),
		errors.Is(err, core.ErrInvalidLevel):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
