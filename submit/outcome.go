package submit

import "github.com/lborres/flex/form"

// State is a step of the submission state machine.
type State int32

const (
	Idle State = iota
	Validating
	Blocked
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Blocked:
		return "blocked"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is how one submit attempt ended.
type Status int

const (
	// StatusIgnored means a submit was already in flight; nothing ran.
	StatusIgnored Status = iota
	StatusBlocked
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIgnored:
		return "ignored"
	case StatusBlocked:
		return "blocked"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of a submit. The caller decides whether to
// navigate to Next; see Follow.
type Outcome struct {
	Status Status
	Errors form.Errors
	Next   Screen
	Notice string // success message for the user, if any
}

// OK reports whether the attempt succeeded.
func (o Outcome) OK() bool { return o.Status == StatusSucceeded }

func failed(msg string) Outcome {
	return Outcome{Status: StatusFailed, Errors: form.Errors{form.KeySubmit: msg}}
}
