package domain

import (
	"errors"
	"time"
)

var (
	ErrMealNotFound = errors.New("meal not found")
)

// PlanDays is the fixed length of every resolved week structure: four weeks.
const PlanDays = 28

// Macros holds rounded nutrition values for a meal or an aggregated day.
type Macros struct {
	Kcal    int `json:"kcal"`
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// Add returns the component-wise sum of two macro sets.
func (m Macros) Add(other Macros) Macros {
	return Macros{
		Kcal:    m.Kcal + other.Kcal,
		Protein: m.Protein + other.Protein,
		Carbs:   m.Carbs + other.Carbs,
		Fat:     m.Fat + other.Fat,
	}
}

// Meal is a coach-authored nutrition record, referenced by id from meal slots.
// Kcal is the reference calorie value portion scaling divides by; a zero Kcal
// meal is served as-is.
type Meal struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Kcal           float64   `json:"kcal" db:"kcal"`
	Protein        float64   `json:"protein" db:"protein"`
	Carbs          float64   `json:"carbs" db:"carbs"`
	Fat            float64   `json:"fat" db:"fat"`
	DefaultPortion string    `json:"default_portion" db:"default_portion"`
	Ingredients    string    `json:"ingredients,omitempty" db:"ingredients"`
	Instructions   string    `json:"instructions,omitempty" db:"instructions"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// MealSlot references a meal within a day. TargetKcal, when set, is the
// calorie value the slot should be scaled to hit.
type MealSlot struct {
	MealID     string   `json:"meal_id"`
	TargetKcal *float64 `json:"target_kcal,omitempty"`
}

// Day is one day's ordered list of meal slots. An empty slot list is a rest day.
type Day struct {
	Slots []MealSlot `json:"slots"`
}

// WeekStructure is an ordered list of days as authored by the coach. It may be
// shorter than PlanDays; Normalize pads it out.
type WeekStructure []Day

// Normalize returns a copy with exactly PlanDays entries: shorter structures
// are padded with empty rest days, longer ones are capped at PlanDays.
func (w WeekStructure) Normalize() WeekStructure {
	days := make(WeekStructure, 0, PlanDays)
	for i := 0; i < len(w) && i < PlanDays; i++ {
		slots := make([]MealSlot, len(w[i].Slots))
		copy(slots, w[i].Slots)
		days = append(days, Day{Slots: slots})
	}
	for len(days) < PlanDays {
		days = append(days, Day{Slots: []MealSlot{}})
	}
	return days
}

// MealIDs returns the distinct non-empty meal ids referenced across all days,
// in first-seen order.
func (w WeekStructure) MealIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, day := range w {
		for _, slot := range day.Slots {
			if slot.MealID == "" || seen[slot.MealID] {
				continue
			}
			seen[slot.MealID] = true
			ids = append(ids, slot.MealID)
		}
	}
	return ids
}
