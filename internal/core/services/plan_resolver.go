package services

import (
	"context"
	"errors"
	"log"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
)

// mealFetchChunkSize caps how many meal ids a single repository call carries.
const mealFetchChunkSize = 100

// PlanResolver resolves the effective meal structure for a client: override
// first, then the plan's own structure, then its template. A tier whose fetch
// fails or comes back empty is skipped, never fatal.
type PlanResolver struct {
	planRepo domain.PlanRepository
	mealRepo domain.MealRepository
}

func NewPlanResolver(planRepo domain.PlanRepository, mealRepo domain.MealRepository) *PlanResolver {
	return &PlanResolver{
		planRepo: planRepo,
		mealRepo: mealRepo,
	}
}

// structureTier is one step of the precedence chain. It returns the structure
// it owns, or nothing when its source is absent or unreachable.
type structureTier struct {
	name  string
	fetch func(ctx context.Context) (domain.WeekStructure, error)
}

// Resolve returns the effective plan for a client. The only failure surfaced
// to callers is domain.ErrNoPlanAssigned, when the client has no plan at all;
// every other data problem degrades to a smaller but valid result.
func (r *PlanResolver) Resolve(ctx context.Context, clientID string) (*domain.ResolvedPlan, error) {
	plan, err := r.planRepo.GetLatestPlan(ctx, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrPlanNotFound) {
			return nil, domain.ErrNoPlanAssigned
		}
		log.Printf("[RESOLVER] Plan fetch failed for client %s: %v", clientID, err)
		return nil, domain.ErrNoPlanAssigned
	}

	targets := domain.DefaultTargets()
	if plan.Targets != nil {
		targets = *plan.Targets
	}

	structure := r.resolveStructure(ctx, clientID, plan)
	days := structure.Normalize()

	mealsByID, err := r.fetchMeals(ctx, days.MealIDs())
	if err != nil {
		log.Printf("[RESOLVER] Meal fetch failed for client %s: %v", clientID, err)
		mealsByID = map[string]*domain.Meal{}
	}

	return &domain.ResolvedPlan{
		PlanID:    plan.ID,
		ClientID:  clientID,
		Targets:   targets,
		Days:      days,
		MealsByID: mealsByID,
	}, nil
}

func (r *PlanResolver) resolveStructure(ctx context.Context, clientID string, plan *domain.MealPlan) domain.WeekStructure {
	tiers := []structureTier{
		{
			name: "override",
			fetch: func(ctx context.Context) (domain.WeekStructure, error) {
				override, err := r.planRepo.GetOverride(ctx, clientID, plan.ID)
				if err != nil {
					return nil, err
				}
				return override.WeekStructure, nil
			},
		},
		{
			name: "plan",
			fetch: func(ctx context.Context) (domain.WeekStructure, error) {
				return plan.WeekStructure, nil
			},
		},
		{
			name: "template",
			fetch: func(ctx context.Context) (domain.WeekStructure, error) {
				if plan.TemplateID == "" {
					return nil, nil
				}
				template, err := r.planRepo.GetTemplate(ctx, plan.TemplateID)
				if err != nil {
					return nil, err
				}
				return template.WeekStructure, nil
			},
		},
	}

	for _, tier := range tiers {
		structure, err := tier.fetch(ctx)
		if err != nil {
			if !errors.Is(err, domain.ErrOverrideNotFound) && !errors.Is(err, domain.ErrTemplateNotFound) {
				log.Printf("[RESOLVER] Tier %q unavailable for client %s: %v", tier.name, clientID, err)
			}
			continue
		}
		if len(structure) > 0 {
			return structure
		}
	}

	return domain.WeekStructure{}
}

func (r *PlanResolver) fetchMeals(ctx context.Context, ids []string) (map[string]*domain.Meal, error) {
	mealsByID := make(map[string]*domain.Meal, len(ids))

	for start := 0; start < len(ids); start += mealFetchChunkSize {
		end := start + mealFetchChunkSize
		if end > len(ids) {
			end = len(ids)
		}

		meals, err := r.mealRepo.GetByIDs(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		for _, meal := range meals {
			mealsByID[meal.ID] = meal
		}
	}

	return mealsByID, nil
}
