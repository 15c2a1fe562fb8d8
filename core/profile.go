package core

import "time"

// FitnessLevel is the self-assessed training level shown on a profile.
type FitnessLevel string

const (
	Beginner     FitnessLevel = "Beginner"
	Intermediate FitnessLevel = "Intermediate"
	Advanced     FitnessLevel = "Advanced"
	Elite        FitnessLevel = "Elite"
)

// FitnessLevels lists every level in display order.
var FitnessLevels = []FitnessLevel{Beginner, Intermediate, Advanced, Elite}

// Valid reports whether l is one of FitnessLevels.
func (l FitnessLevel) Valid() bool {
	for _, level := range FitnessLevels {
		if l == level {
			return true
		}
	}
	return false
}

// Goal is what a user wants out of a match.
type Goal string

const (
	GoalWorkouts   Goal = "Workouts"
	GoalFriendship Goal = "Friendship"
	GoalDating     Goal = "Dating"
)

// MatchingGoals lists every goal in display order.
var MatchingGoals = []Goal{GoalWorkouts, GoalFriendship, GoalDating}

// Valid reports whether g is one of MatchingGoals.
func (g Goal) Valid() bool {
	for _, goal := range MatchingGoals {
		if g == goal {
			return true
		}
	}
	return false
}

// Profile is the persisted profile row, keyed by the owning user's ID.
//
// Rows are always written and read whole.
type Profile struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Age          int          `json:"age"`
	Bio          string       `json:"bio"`
	FitnessLevel FitnessLevel `json:"fitness_level"`
	GymLocation  string       `json:"gym_location"`
	Goals        []Goal       `json:"goals"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ProfileInput is the body of a profile upsert. The owner comes from the session.
type ProfileInput struct {
	Name         string       `json:"name" validate:"required,max=100"`
	Age          int          `json:"age" validate:"gte=1,lte=120"`
	Bio          string       `json:"bio" validate:"max=500"`
	FitnessLevel FitnessLevel `json:"fitness_level" validate:"required,oneof=Beginner Intermediate Advanced Elite"`
	GymLocation  string       `json:"gym_location" validate:"max=200"`
	Goals        []Goal       `json:"goals" validate:"dive,oneof=Workouts Friendship Dating"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ToProfile builds the stored row for userID.
func (in ProfileInput) ToProfile(userID string) *Profile {
	goals := make([]Goal, len(in.Goals))
	copy(goals, in.Goals)

	return &Profile{
		ID:           userID,
		Name:         in.Name,
		Age:          in.Age,
		Bio:          in.Bio,
		FitnessLevel: in.FitnessLevel,
		GymLocation:  in.GymLocation,
		Goals:        goals,
		CreatedAt:    in.CreatedAt,
	}
}
