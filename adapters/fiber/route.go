// Package fiber serves the API over gofiber/fiber v3.
package fiber

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/flex/core"
)

type Adapter struct {
	app *fiber.App
}

var _ core.HTTPProvider = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

// RegisterRoutes mounts every endpoint under basePath. Each endpoint must name
// an operation this adapter has a handler for. ttl sets the auth cookie lifetime.
func (a *Adapter) RegisterRoutes(provider core.APIProvider, endpoints []*core.Endpoint, basePath string, ttl time.Duration) error {
	h := &handlers{provider: provider, cookieTTL: ttl}
	table := h.byOperation()
	protect := a.protect(provider)

	api := a.app.Group(basePath)
	for _, ep := range endpoints {
		handler, ok := table[ep.Metadata.OperationID]
		if !ok {
			return fmt.Errorf("no handler for operation %q (%s %s)", ep.Metadata.OperationID, ep.Method, ep.Path)
		}

		if ep.Protected {
			api.Add([]string{ep.Method}, ep.Path, protect, handler)
		} else {
			api.Add([]string{ep.Method}, ep.Path, handler)
		}
	}

	return nil
}
