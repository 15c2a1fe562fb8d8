package submit

import (
	"context"

	"github.com/lborres/flex/core"
)

// Remote is the account and profile service the forms submit to.
// *client.Client satisfies it.
type Remote interface {
	SignUp(ctx context.Context, email, password string) error
	SignInWithPassword(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error

	// GetCurrentUser returns nil, nil when no one is signed in.
	GetCurrentUser(ctx context.Context) (*core.User, error)

	UpsertProfile(ctx context.Context, userID string, in core.ProfileInput) error
	SelectProfile(ctx context.Context, userID string) (*core.Profile, error)
}
