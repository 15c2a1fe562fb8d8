package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lborres/flex/core"
)

// UpsertProfile replaces the whole row for p.ID.
func (a *Adapter) UpsertProfile(ctx context.Context, p *core.Profile) error {
	q := `INSERT INTO public.profiles (id, name, age, bio, fitness_level, gym_location, goals, created_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	      ON CONFLICT (id) DO UPDATE SET
	          name = EXCLUDED.name,
	          age = EXCLUDED.age,
	          bio = EXCLUDED.bio,
	          fitness_level = EXCLUDED.fitness_level,
	          gym_location = EXCLUDED.gym_location,
	          goals = EXCLUDED.goals,
	          created_at = EXCLUDED.created_at`

	_, err := a.pool.Exec(ctx, q, p.ID, p.Name, p.Age, p.Bio, string(p.FitnessLevel), p.GymLocation, goalsToText(p.Goals), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (a *Adapter) GetProfile(ctx context.Context, userID string) (*core.Profile, error) {
	q := `SELECT id, name, age, bio, fitness_level, gym_location, goals, created_at
	      FROM public.profiles WHERE id = $1`

	p := &core.Profile{}
	var level string
	var goals []string
	err := a.pool.QueryRow(ctx, q, userID).Scan(&p.ID, &p.Name, &p.Age, &p.Bio, &level, &p.GymLocation, &goals, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrProfileNotFound
		}
		return nil, err
	}

	p.FitnessLevel = core.FitnessLevel(level)
	p.Goals = make([]core.Goal, len(goals))
	for i, g := range goals {
		p.Goals[i] = core.Goal(g)
	}
	return p, nil
}

func goalsToText(goals []core.Goal) []string {
	out := make([]string, len(goals))
	for i, g := range goals {
		out[i] = string(g)
	}
	return out
}
