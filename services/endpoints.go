package services

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/lborres/flex/core"
)

// Operation IDs adapters bind handlers to.
const (
	OpSignUp         = "signUpWithEmailAndPassword"
	OpSignIn         = "signInWithEmailAndPassword"
	OpSignOut        = "signOut"
	OpSignOutAll     = "signOutEverywhere"
	OpGetSession     = "getSession"
	OpGetCurrentUser = "getCurrentUser"
	OpUpsertProfile  = "upsertProfile"
	OpSelectProfile  = "selectProfile"
)

// BaseEndpoints returns the framework-agnostic route table of the API.
func BaseEndpoints() []core.Endpoint {
	return []core.Endpoint{
		{
			Path:   "/sign-up",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID: OpSignUp,
				Description: "Sign up a user using email and password",
			},
		},
		{
			Path:   "/sign-in",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID: OpSignIn,
				Description: "Sign in a user using email and password",
			},
		},
		{
			Path:      "/sign-out",
			Method:    http.MethodPost,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: OpSignOut,
				Description: "Sign out the current user and invalidate the session",
			},
		},
		{
			Path:      "/sign-out-all",
			Method:    http.MethodPost,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: OpSignOutAll,
				Description: "Invalidate every session of the current user",
			},
		},
		{
			Path:      "/session",
			Method:    http.MethodGet,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: OpGetSession,
				Description: "Get the current user's session data",
			},
		},
		{
			Path:      "/user",
			Method:    http.MethodGet,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: OpGetCurrentUser,
				Description: "Get the user behind the current session",
			},
		},
		{
			Path:      "/profile",
			Method:    http.MethodPut,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: OpUpsertProfile,
				Description: "Create or replace the current user's profile",
			},
		},
		{
			Path:      "/profile/:id",
			Method:    http.MethodGet,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: OpSelectProfile,
				Description: "Get a profile by user ID; only the owner may read it",
			},
		},
	}
}

// EndpointRegistry holds the endpoints to mount, keyed by "METHOD:PATH".
type EndpointRegistry struct {
	endpoints map[string]*core.Endpoint
}

func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		endpoints: make(map[string]*core.Endpoint),
	}

	base := BaseEndpoints()
	for i := range base {
		// base endpoints are unique by construction
		_ = reg.register(&base[i])
	}

	return reg
}

func endpointKey(ep *core.Endpoint) string {
	return fmt.Sprintf("%s:%s", ep.Method, ep.Path)
}

func (r *EndpointRegistry) register(ep *core.Endpoint) error {
	key := endpointKey(ep)
	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
	}
	r.endpoints[key] = ep
	return nil
}

// Endpoints returns every registered endpoint sorted by path then method,
// so adapters mount routes in a stable order.
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	result := make([]*core.Endpoint, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		result = append(result, ep)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Path != result[j].Path {
			return result[i].Path < result[j].Path
		}
		return result[i].Method < result[j].Method
	})
	return result
}
