package core

import "time"

// HTTPProvider mounts the API onto a concrete HTTP framework.
//
// Routes are derived from the endpoint list; adapters look handlers up by
// OperationID.
type HTTPProvider interface {
	RegisterRoutes(provider APIProvider, endpoints []*Endpoint, basePath string, ttl time.Duration) error
	BuildProtectedMiddleware(provider APIProvider) interface{}
}
