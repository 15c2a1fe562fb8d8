package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/lborres/flex/core"
)

// Locals keys set by the protected middleware.
const (
	LocalsUser    = "user"
	LocalsSession = "session"
	localsToken   = "token"
)

// BuildProtectedMiddleware returns a fiber.Handler that rejects requests
// without a live session and exposes the user and session to later handlers.
func (a *Adapter) BuildProtectedMiddleware(provider core.APIProvider) interface{} {
	return a.protect(provider)
}

func (a *Adapter) protect(provider core.APIProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, err := extractToken(c)
		if err != nil {
			return writeError(c, err)
		}

		data, err := provider.GetSession(c.Context(), token)
		if err != nil {
			return writeError(c, err)
		}

		c.Locals(LocalsUser, data.User)
		c.Locals(LocalsSession, data.Session)
		c.Locals(localsToken, token)

		return c.Next()
	}
}

// UserFrom returns the user stored by the protected middleware, or nil.
func UserFrom(c fiber.Ctx) *core.User {
	u, _ := c.Locals(LocalsUser).(*core.User)
	return u
}

// SessionFrom returns the session stored by the protected middleware, or nil.
func SessionFrom(c fiber.Ctx) *core.Session {
	s, _ := c.Locals(LocalsSession).(*core.Session)
	return s
}
