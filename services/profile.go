package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3/log"

	"github.com/lborres/flex/core"
)

// ProfileService stores one profile row per user. Rows are cached by user ID.
type ProfileService struct {
	db       core.ProfileStorage
	cache    core.Cache[*core.Profile] // nil disables caching
	validate *Validator
}

var _ core.ProfileHandler = (*ProfileService)(nil)

func NewProfileService(db core.ProfileStorage, cache core.Cache[*core.Profile], validate *Validator) *ProfileService {
	return &ProfileService{db: db, cache: cache, validate: validate}
}

// UpsertProfile writes the whole row for userID, replacing any previous one.
func (s *ProfileService) UpsertProfile(ctx context.Context, userID string, input core.ProfileInput) (*core.Profile, error) {
	if userID == "" {
		return nil, core.ErrNotAuthenticated
	}
	if err := s.validate.Profile(input); err != nil {
		return nil, err
	}
	if input.CreatedAt.IsZero() {
		input.CreatedAt = time.Now().UTC()
	}

	profile := input.ToProfile(userID)
	if err := s.db.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Set(userID, profile)
	}

	log.Infow("profile saved", "user_id", userID)
	return profile, nil
}

// GetProfile returns userID's row. Only the owner may read it.
func (s *ProfileService) GetProfile(ctx context.Context, requesterID, userID string) (*core.Profile, error) {
	if requesterID == "" {
		return nil, core.ErrNotAuthenticated
	}
	if requesterID != userID {
		return nil, core.ErrProfileForbidden
	}

	if s.cache != nil {
		if p, err := s.cache.Get(userID); err == nil {
			return p, nil
		}
	}

	profile, err := s.db.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Set(userID, profile)
	}
	return profile, nil
}
