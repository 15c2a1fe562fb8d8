// Package form holds the screen-scoped state of the sign-up, log-in and
// profile-setup forms together with their validation rules.
package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lborres/flex/core"
)

// Error map keys.
const (
	KeyEmail    = "email"
	KeyPassword = "password"
	KeyAge      = "age"
	KeySubmit   = "submit" // whole-form and remote failures
)

// Errors maps a field name to the message shown next to it.
// An empty map means the form may be submitted.
type Errors map[string]string

// Has reports whether key carries a message.
func (e Errors) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Submit returns the whole-form message, if any.
func (e Errors) Submit() string {
	return e[KeySubmit]
}

// CredentialForm backs the sign-up and log-in screens.
type CredentialForm struct {
	Email    string
	Password string
	Errors   Errors
}

// ProfileForm backs the profile-setup screen.
//
// Age is kept as typed text and parsed on submit.
type ProfileForm struct {
	Name         string
	Age          string
	Bio          string
	GymLocation  string
	FitnessLevel core.FitnessLevel
	Goals        []core.Goal
	Errors       Errors
}

// SetFitnessLevel selects one of core.FitnessLevels.
func (f *ProfileForm) SetFitnessLevel(level core.FitnessLevel) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidLevel, level)
	}
	f.FitnessLevel = level
	return nil
}

// Toggle flips membership of goal in the form's goal set.
func (f *ProfileForm) Toggle(goal core.Goal) error {
	goals, err := ToggleGoal(f.Goals, goal)
	if err != nil {
		return err
	}
	f.Goals = goals
	return nil
}

// Input converts the form into the record sent to the remote service.
func (f ProfileForm) Input() (core.ProfileInput, error) {
	age, err := parseAge(f.Age)
	if err != nil {
		return core.ProfileInput{}, err
	}

	goals := make([]core.Goal, len(f.Goals))
	copy(goals, f.Goals)

	return core.ProfileInput{
		Name:         f.Name,
		Age:          age,
		Bio:          f.Bio,
		FitnessLevel: f.FitnessLevel,
		GymLocation:  f.GymLocation,
		Goals:        goals,
	}, nil
}

func parseAge(raw string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("failed to parse age %q: %w", raw, err)
	}
	return age, nil
}
