// Package submit runs form submissions against the remote account and
// profile service and reports where the UI should go next.
package submit

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gofiber/fiber/v3/log"

	"github.com/lborres/flex/form"
)

const (
	MsgNotAuthenticated = "User not authenticated."
	MsgProfileFailed    = "Failed to create profile."
	MsgProfileCreated   = "Profile created successfully!"
	MsgProfileNotFound  = "Profile not found"
)

// ErrRemotePanicked is wrapped by a PanicError.
var ErrRemotePanicked = errors.New("remote call panicked")

var errNoUser = errors.New(MsgNotAuthenticated)

// Controller gates one screen's submissions. A submit that arrives while
// another is in flight is ignored rather than queued.
type Controller struct {
	remote Remote
	busy   atomic.Bool
	state  atomic.Int32
}

func NewController(remote Remote) *Controller {
	return &Controller{remote: remote}
}

// State returns the current step of the state machine.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// SignUp validates f and creates an account.
func (c *Controller) SignUp(ctx context.Context, f *form.CredentialForm) Outcome {
	return c.credentials(ctx, f, "sign-up", c.remote.SignUp)
}

// LogIn validates f and signs in with email and password.
func (c *Controller) LogIn(ctx context.Context, f *form.CredentialForm) Outcome {
	return c.credentials(ctx, f, "log-in", c.remote.SignInWithPassword)
}

func (c *Controller) credentials(ctx context.Context, f *form.CredentialForm, action string, call func(context.Context, string, string) error) Outcome {
	return c.run(&f.Errors, func() form.Errors {
		return form.ValidateCredentials(*f)
	}, func() Outcome {
		err := guard(panicMessage, func() error {
			return call(ctx, f.Email, f.Password)
		})
		if err != nil {
			log.Warnw(action+" failed", "error", err.Error())
			return failed(err.Error())
		}

		log.Infow(action + " succeeded")
		return Outcome{Status: StatusSucceeded, Errors: form.Errors{}, Next: ScreenProfileSetup}
	})
}

// SaveProfile validates f, confirms someone is signed in and upserts their
// profile. The upsert is skipped when there is no current user.
func (c *Controller) SaveProfile(ctx context.Context, f *form.ProfileForm) Outcome {
	return c.run(&f.Errors, func() form.Errors {
		return form.ValidateProfile(*f)
	}, func() Outcome {
		in, err := f.Input()
		if err != nil {
			return failed(form.MsgAgeNotNumber)
		}

		var userID string
		err = guard(fixedMessage(MsgProfileFailed), func() error {
			user, err := c.remote.GetCurrentUser(ctx)
			if err != nil {
				log.Warnw("current user lookup failed", "error", err.Error())
			}
			if user == nil {
				return errNoUser
			}
			userID = user.ID
			return c.remote.UpsertProfile(ctx, userID, in)
		})
		switch {
		case errors.Is(err, errNoUser):
			return failed(MsgNotAuthenticated)
		case err != nil:
			log.Warnw("profile submit failed", "error", err.Error())
			return failed(err.Error())
		}

		log.Infow("profile submit succeeded", "user_id", userID)
		return Outcome{
			Status: StatusSucceeded,
			Errors: form.Errors{},
			Next:   ScreenMain,
			Notice: MsgProfileCreated,
		}
	})
}

// run drives the state machine for one attempt. errs is the form's error
// map; it is replaced wholesale, never merged.
func (c *Controller) run(errs *form.Errors, validate func() form.Errors, call func() Outcome) Outcome {
	if !c.busy.CompareAndSwap(false, true) {
		return Outcome{Status: StatusIgnored}
	}
	defer func() {
		c.state.Store(int32(Idle))
		c.busy.Store(false)
	}()

	c.state.Store(int32(Validating))
	if v := validate(); len(v) > 0 {
		c.state.Store(int32(Blocked))
		*errs = v
		return Outcome{Status: StatusBlocked, Errors: v}
	}

	c.state.Store(int32(Submitting))
	out := call()
	*errs = out.Errors

	if out.OK() {
		c.state.Store(int32(Succeeded))
	} else {
		c.state.Store(int32(Failed))
	}
	return out
}

// guard runs fn and turns a panic into an error carrying onPanic's message.
func guard(onPanic func(any) string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("recovered from panic during submit", "panic", r)
			err = &PanicError{Message: onPanic(r), Value: r}
		}
	}()
	return fn()
}

// PanicError is a remote call that panicked instead of returning.
type PanicError struct {
	Message string
	Value   any
}

func (e *PanicError) Error() string { return e.Message }

func (e *PanicError) Unwrap() error { return ErrRemotePanicked }

func panicMessage(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(r)
}

func fixedMessage(msg string) func(any) string {
	return func(any) string { return msg }
}
