package domain

import (
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("workout session not found")
)

// WorkoutSession is one logged training day for a client.
type WorkoutSession struct {
	ID              string    `json:"id" db:"id"`
	ClientID        string    `json:"client_id" db:"client_id"`
	Date            time.Time `json:"date" db:"date"`
	Completed       bool      `json:"completed" db:"completed"`
	DurationMinutes int       `json:"duration_minutes,omitempty" db:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// ExerciseSet is a single logged set within an exercise entry.
type ExerciseSet struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
}

// ExerciseProgressEntry holds the logged sets for one exercise within a
// session. Sets may be nil when the stored payload was malformed; such entries
// contribute zero volume rather than failing aggregation.
type ExerciseProgressEntry struct {
	ID           string        `json:"id"`
	SessionID    string        `json:"session_id"`
	ExerciseName string        `json:"exercise_name"`
	Sets         []ExerciseSet `json:"sets"`
	Notes        string        `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Volume is the sum of weight times reps across all sets.
func (e *ExerciseProgressEntry) Volume() float64 {
	var total float64
	for _, s := range e.Sets {
		total += s.Weight * float64(s.Reps)
	}
	return total
}

// MaxWeight is the heaviest weight across all sets, zero when none are logged.
func (e *ExerciseProgressEntry) MaxWeight() float64 {
	var max float64
	for _, s := range e.Sets {
		if s.Weight > max {
			max = s.Weight
		}
	}
	return max
}

// TotalReps is the sum of reps across all sets.
func (e *ExerciseProgressEntry) TotalReps() int {
	var total int
	for _, s := range e.Sets {
		total += s.Reps
	}
	return total
}
