package domain

import (
	"context"
	"time"
)

// PlanRepository is the data-access port for plans, overrides and templates.
type PlanRepository interface {
	// GetLatestPlan retrieves the most recently created plan for a client.
	// Returns ErrPlanNotFound when the client has no plan at all.
	GetLatestPlan(ctx context.Context, clientID string) (*MealPlan, error)

	// GetOverride retrieves the per-client override for a plan, or
	// ErrOverrideNotFound when none exists.
	GetOverride(ctx context.Context, clientID, planID string) (*MealOverride, error)

	// SaveOverride creates or replaces the override for (client, plan).
	// Last write wins; there is no conflict detection.
	SaveOverride(ctx context.Context, override *MealOverride) error

	// GetTemplate retrieves a template by id, or ErrTemplateNotFound.
	GetTemplate(ctx context.Context, templateID string) (*MealTemplate, error)
}

// MealRepository is the data-access port for meal records.
type MealRepository interface {
	// GetByID retrieves a single meal, or ErrMealNotFound.
	GetByID(ctx context.Context, id string) (*Meal, error)

	// GetByIDs retrieves the meals for the given ids. Unknown ids are
	// silently skipped; the result may be shorter than the input.
	GetByIDs(ctx context.Context, ids []string) ([]*Meal, error)
}

// WorkoutRepository is the data-access port for training logs.
type WorkoutRepository interface {
	// ListSessions retrieves a client's workout sessions within [from, to].
	ListSessions(ctx context.Context, clientID string, from, to time.Time) ([]*WorkoutSession, error)

	// ListExerciseProgress retrieves the exercise entries logged under the
	// given sessions.
	ListExerciseProgress(ctx context.Context, sessionIDs []string) ([]*ExerciseProgressEntry, error)
}

// KeyValueStore is the generic persistence port backing the checked-state
// store and precomputed progress snapshots.
type KeyValueStore interface {
	// Get retrieves the raw value at key. A missing key returns (nil, nil).
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the raw value at key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}
