package services

import (
	"context"
	"sort"
	"time"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
)

// Period selects the lookback window of a training series.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// LookbackDays maps a period to its window size. Unknown periods fall back to
// a week.
func (p Period) LookbackDays() int {
	switch p {
	case PeriodMonth:
		return 30
	case PeriodYear:
		return 365
	default:
		return 7
	}
}

// streakLookbackDays caps how far back the streak walk goes.
const streakLookbackDays = 30

// DayProgress holds a day's nutrition totals across all slots and across the
// checked slots only.
type DayProgress struct {
	Total   domain.Macros `json:"total"`
	Checked domain.Macros `json:"checked"`
}

// Bucket is one day of aggregated training data.
type Bucket struct {
	Date            time.Time `json:"date"`
	Volume          float64   `json:"volume"`
	ExerciseCount   int       `json:"exercise_count"`
	Sessions        int       `json:"sessions"`
	DurationMinutes int       `json:"duration_minutes"`
}

// ExercisePoint is one logged exercise in a single-exercise series.
type ExercisePoint struct {
	Date      time.Time `json:"date"`
	MaxWeight float64   `json:"max_weight"`
	TotalReps int       `json:"total_reps"`
	Volume    float64   `json:"volume"`
}

// WorkoutLog pairs a session with the exercise entries logged under it.
type WorkoutLog struct {
	Session   *domain.WorkoutSession          `json:"session"`
	Exercises []*domain.ExerciseProgressEntry `json:"exercises"`
}

// ProgressService aggregates nutrition completion and training logs into
// day, series and streak statistics.
type ProgressService struct {
	workoutRepo domain.WorkoutRepository
}

func NewProgressService(workoutRepo domain.WorkoutRepository) *ProgressService {
	return &ProgressService{workoutRepo: workoutRepo}
}

// ComputeDayProgress accumulates one day's macros: every slot feeds Total, and
// checked slots feed Checked from the identical scaled value, so Checked can
// never exceed Total. Slots whose meal is missing from the plan's lookup map
// contribute nothing.
func ComputeDayProgress(plan *domain.ResolvedPlan, checked domain.CheckedState, dayIndex int) DayProgress {
	var progress DayProgress
	if plan == nil {
		return progress
	}

	day := plan.Day(dayIndex)
	for slotIndex, slot := range day.Slots {
		meal, ok := plan.MealsByID[slot.MealID]
		if !ok {
			continue
		}

		var macros domain.Macros
		if slot.TargetKcal != nil {
			macros = Scale(meal, *slot.TargetKcal).Macros
		} else {
			macros = Scale(meal, meal.Kcal).Macros
		}

		progress.Total = progress.Total.Add(macros)
		if checked.IsChecked(dayIndex, slotIndex) {
			progress.Checked = progress.Checked.Add(macros)
		}
	}

	return progress
}

// FetchLogs loads a client's sessions within the period's window together with
// their exercise entries.
func (s *ProgressService) FetchLogs(ctx context.Context, clientID string, period Period, now time.Time) ([]WorkoutLog, error) {
	from := now.AddDate(0, 0, -period.LookbackDays())

	sessions, err := s.workoutRepo.ListSessions(ctx, clientID, from, now)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return []WorkoutLog{}, nil
	}

	sessionIDs := make([]string, 0, len(sessions))
	for _, session := range sessions {
		sessionIDs = append(sessionIDs, session.ID)
	}

	entries, err := s.workoutRepo.ListExerciseProgress(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	bySession := make(map[string][]*domain.ExerciseProgressEntry)
	for _, entry := range entries {
		bySession[entry.SessionID] = append(bySession[entry.SessionID], entry)
	}

	logs := make([]WorkoutLog, 0, len(sessions))
	for _, session := range sessions {
		logs = append(logs, WorkoutLog{
			Session:   session,
			Exercises: bySession[session.ID],
		})
	}

	return logs, nil
}

// PeriodSeries buckets the logs per calendar day: total volume across all sets
// of all exercises, distinct exercise count, session count and duration.
// Buckets come back sorted ascending by date; days without sessions produce no
// bucket.
func PeriodSeries(logs []WorkoutLog) []Bucket {
	byDay := make(map[string]*Bucket)
	exercisesByDay := make(map[string]map[string]bool)

	for _, wlog := range logs {
		dateKey := wlog.Session.Date.UTC().Format("2006-01-02")

		bucket, ok := byDay[dateKey]
		if !ok {
			day, _ := time.Parse("2006-01-02", dateKey)
			bucket = &Bucket{Date: day}
			byDay[dateKey] = bucket
			exercisesByDay[dateKey] = make(map[string]bool)
		}

		bucket.Sessions++
		bucket.DurationMinutes += wlog.Session.DurationMinutes

		for _, entry := range wlog.Exercises {
			bucket.Volume += entry.Volume()
			exercisesByDay[dateKey][entry.ExerciseName] = true
		}
	}

	buckets := make([]Bucket, 0, len(byDay))
	for dateKey, bucket := range byDay {
		bucket.ExerciseCount = len(exercisesByDay[dateKey])
		buckets = append(buckets, *bucket)
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date)
	})

	return buckets
}

// ExerciseSeries extracts per-entry points for a single exercise, sorted
// ascending by date.
func ExerciseSeries(logs []WorkoutLog, exerciseName string) []ExercisePoint {
	points := []ExercisePoint{}

	for _, wlog := range logs {
		for _, entry := range wlog.Exercises {
			if entry.ExerciseName != exerciseName {
				continue
			}
			points = append(points, ExercisePoint{
				Date:      wlog.Session.Date,
				MaxWeight: entry.MaxWeight(),
				TotalReps: entry.TotalReps(),
				Volume:    entry.Volume(),
			})
		}
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points
}

// CurrentStreak counts consecutive calendar days with a completed session,
// walking backward from today for at most streakLookbackDays.
//
// A missing record for today itself does not end the streak: the client may
// simply not have trained yet, so offset zero is skipped without counting.
// Any later gap ends the walk. This asymmetry is deliberate; keep it.
func CurrentStreak(sessions []*domain.WorkoutSession, today time.Time) int {
	completedByDay := make(map[string]bool)
	for _, session := range sessions {
		if session.Completed {
			completedByDay[session.Date.UTC().Format("2006-01-02")] = true
		}
	}

	streak := 0
	for offset := 0; offset < streakLookbackDays; offset++ {
		dateKey := today.UTC().AddDate(0, 0, -offset).Format("2006-01-02")
		if completedByDay[dateKey] {
			streak++
			continue
		}
		if offset == 0 {
			continue
		}
		break
	}

	return streak
}

// Streak fetches the recent sessions for a client and computes the current
// streak. Fetch failures degrade to zero rather than erroring.
func (s *ProgressService) Streak(ctx context.Context, clientID string, today time.Time) int {
	from := today.AddDate(0, 0, -streakLookbackDays)
	sessions, err := s.workoutRepo.ListSessions(ctx, clientID, from, today)
	if err != nil {
		return 0
	}
	return CurrentStreak(sessions, today)
}
