package domain

import (
	"errors"
	"time"
)

var (
	ErrNoPlanAssigned   = errors.New("no meal plan assigned")
	ErrPlanNotFound     = errors.New("meal plan not found")
	ErrTemplateNotFound = errors.New("meal template not found")
	ErrOverrideNotFound = errors.New("meal override not found")
)

// Default nutrition targets applied when a plan carries none.
const (
	DefaultTargetKcal    = 2000
	DefaultTargetProtein = 150
	DefaultTargetCarbs   = 200
	DefaultTargetFat     = 67
)

// NutritionTargets are the daily goals attached to a plan.
type NutritionTargets struct {
	Kcal    int `json:"kcal"`
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// DefaultTargets returns the documented fallback targets.
func DefaultTargets() NutritionTargets {
	return NutritionTargets{
		Kcal:    DefaultTargetKcal,
		Protein: DefaultTargetProtein,
		Carbs:   DefaultTargetCarbs,
		Fat:     DefaultTargetFat,
	}
}

// MealTemplate is a reusable coach-authored structure a plan may originate from.
type MealTemplate struct {
	ID            string        `json:"id"`
	CoachID       string        `json:"coach_id"`
	Name          string        `json:"name"`
	WeekStructure WeekStructure `json:"week_structure"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// MealPlan is a nutrition program instance assigned to one client. When a
// coach reassigns, the most recently created plan wins; older plans are kept
// but never resolved.
type MealPlan struct {
	ID            string            `json:"id"`
	ClientID      string            `json:"client_id"`
	TemplateID    string            `json:"template_id,omitempty"`
	WeekStructure WeekStructure     `json:"week_structure,omitempty"`
	Targets       *NutritionTargets `json:"targets,omitempty"`
	StartDate     time.Time         `json:"start_date"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// MealOverride is a per-client customization of a plan's structure. When one
// exists for a (client, plan) pair it is authoritative: the plan's own
// structure and its template are never consulted.
//
// Concurrent edits from two coach sessions resolve by last write wins at the
// persistence layer. There is no version column and no merge.
type MealOverride struct {
	ClientID      string        `json:"client_id"`
	PlanID        string        `json:"plan_id"`
	WeekStructure WeekStructure `json:"week_structure"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ResolvedPlan is the effective plan for a client: targets, exactly PlanDays
// normalized days, and every referenced meal record keyed by id.
type ResolvedPlan struct {
	PlanID    string           `json:"plan_id"`
	ClientID  string           `json:"client_id"`
	Targets   NutritionTargets `json:"targets"`
	Days      WeekStructure    `json:"days"`
	MealsByID map[string]*Meal `json:"meals_by_id"`
}

// Day returns the day at index, or an empty rest day when the index is out of
// range.
func (p *ResolvedPlan) Day(index int) Day {
	if index < 0 || index >= len(p.Days) {
		return Day{Slots: []MealSlot{}}
	}
	return p.Days[index]
}
