package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
)

// In-memory implementations of the data-access ports, used in handler tests
// and local development without a database.

type InMemoryPlanRepository struct {
	plans     map[string][]*domain.MealPlan
	overrides map[string]*domain.MealOverride
	templates map[string]*domain.MealTemplate

	mu sync.RWMutex
}

func NewInMemoryPlanRepository() *InMemoryPlanRepository {
	return &InMemoryPlanRepository{
		plans:     make(map[string][]*domain.MealPlan),
		overrides: make(map[string]*domain.MealOverride),
		templates: make(map[string]*domain.MealTemplate),
	}
}

func overrideKey(clientID, planID string) string {
	return clientID + ":" + planID
}

func (r *InMemoryPlanRepository) AddPlan(plan *domain.MealPlan) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plans[plan.ClientID] = append(r.plans[plan.ClientID], plan)
}

func (r *InMemoryPlanRepository) AddTemplate(template *domain.MealTemplate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.templates[template.ID] = template
}

func (r *InMemoryPlanRepository) GetLatestPlan(ctx context.Context, clientID string) (*domain.MealPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plans := r.plans[clientID]
	if len(plans) == 0 {
		return nil, domain.ErrPlanNotFound
	}

	sorted := make([]*domain.MealPlan, len(plans))
	copy(sorted, plans)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	return sorted[0], nil
}

func (r *InMemoryPlanRepository) GetOverride(ctx context.Context, clientID, planID string) (*domain.MealOverride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	override, ok := r.overrides[overrideKey(clientID, planID)]
	if !ok {
		return nil, domain.ErrOverrideNotFound
	}
	return override, nil
}

func (r *InMemoryPlanRepository) SaveOverride(ctx context.Context, override *domain.MealOverride) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Last write wins, mirroring the postgres upsert.
	override.UpdatedAt = time.Now().UTC()
	r.overrides[overrideKey(override.ClientID, override.PlanID)] = override
	return nil
}

func (r *InMemoryPlanRepository) GetTemplate(ctx context.Context, templateID string) (*domain.MealTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	template, ok := r.templates[templateID]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	return template, nil
}

type InMemoryMealRepository struct {
	store map[string]*domain.Meal

	mu sync.RWMutex
}

func NewInMemoryMealRepository() *InMemoryMealRepository {
	return &InMemoryMealRepository{store: make(map[string]*domain.Meal)}
}

func (r *InMemoryMealRepository) Add(meal *domain.Meal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[meal.ID] = meal
}

func (r *InMemoryMealRepository) GetByID(ctx context.Context, id string) (*domain.Meal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meal, ok := r.store[id]
	if !ok {
		return nil, domain.ErrMealNotFound
	}
	return meal, nil
}

func (r *InMemoryMealRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Meal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meals := []*domain.Meal{}
	for _, id := range ids {
		if meal, ok := r.store[id]; ok {
			meals = append(meals, meal)
		}
	}
	return meals, nil
}

type InMemoryWorkoutRepository struct {
	sessions []*domain.WorkoutSession
	entries  []*domain.ExerciseProgressEntry

	mu sync.RWMutex
}

func NewInMemoryWorkoutRepository() *InMemoryWorkoutRepository {
	return &InMemoryWorkoutRepository{}
}

func (r *InMemoryWorkoutRepository) AddSession(session *domain.WorkoutSession) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = append(r.sessions, session)
}

func (r *InMemoryWorkoutRepository) AddEntry(entry *domain.ExerciseProgressEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
}

func (r *InMemoryWorkoutRepository) ListSessions(ctx context.Context, clientID string, from, to time.Time) ([]*domain.WorkoutSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := []*domain.WorkoutSession{}
	for _, session := range r.sessions {
		if session.ClientID != clientID {
			continue
		}
		if session.Date.Before(from) || session.Date.After(to) {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (r *InMemoryWorkoutRepository) ListExerciseProgress(ctx context.Context, sessionIDs []string) ([]*domain.ExerciseProgressEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(sessionIDs))
	for _, id := range sessionIDs {
		wanted[id] = true
	}

	entries := []*domain.ExerciseProgressEntry{}
	for _, entry := range r.entries {
		if wanted[entry.SessionID] {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

type InMemoryKeyValueStore struct {
	store map[string][]byte

	mu sync.RWMutex
}

func NewInMemoryKeyValueStore() *InMemoryKeyValueStore {
	return &InMemoryKeyValueStore{store: make(map[string][]byte)}
}

func (s *InMemoryKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store[key], nil
}

func (s *InMemoryKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store[key] = value
	return nil
}
