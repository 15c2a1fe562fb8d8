package submit

import (
	"context"

	"github.com/gofiber/fiber/v3/log"

	"github.com/lborres/flex/core"
)

// Dashboard loads the signed-in user's profile for the main screen and
// handles logging out.
type Dashboard struct {
	remote Remote
}

func NewDashboard(remote Remote) *Dashboard {
	return &Dashboard{remote: remote}
}

// Load fetches the current user's profile. Without a session the outcome
// points at the login screen; a missing profile points at profile setup.
func (d *Dashboard) Load(ctx context.Context) (*core.Profile, Outcome) {
	user, err := d.remote.GetCurrentUser(ctx)
	if err != nil {
		log.Warnw("current user lookup failed", "error", err.Error())
	}
	if user == nil {
		out := failed(MsgNotAuthenticated)
		out.Next = ScreenLogin
		return nil, out
	}

	profile, err := d.remote.SelectProfile(ctx, user.ID)
	if err != nil || profile == nil {
		if err != nil {
			log.Warnw("profile fetch failed", "user_id", user.ID, "error", err.Error())
		}
		out := failed(MsgProfileNotFound)
		out.Next = ScreenProfileSetup
		return nil, out
	}

	return profile, Outcome{Status: StatusSucceeded}
}

// LogOut signs out and returns to the welcome screen. A failed sign-out is
// logged only.
func (d *Dashboard) LogOut(ctx context.Context) Outcome {
	if err := d.remote.SignOut(ctx); err != nil {
		log.Warnw("sign-out failed", "error", err.Error())
	}
	return Outcome{Status: StatusSucceeded, Next: ScreenWelcome}
}
