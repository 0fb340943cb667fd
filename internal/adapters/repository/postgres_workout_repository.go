package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
)

var _ domain.WorkoutRepository = (*PostgresWorkoutRepository)(nil)

type PostgresWorkoutRepository struct {
	db *sqlx.DB
}

func NewPostgresWorkoutRepository(db *sqlx.DB) *PostgresWorkoutRepository {
	return &PostgresWorkoutRepository{db: db}
}

func (r *PostgresWorkoutRepository) ListSessions(ctx context.Context, clientID string, from, to time.Time) ([]*domain.WorkoutSession, error) {
	sessions := []*domain.WorkoutSession{}

	query := `
        SELECT id, client_id, date, completed, duration_minutes, created_at
        FROM workout_sessions
        WHERE client_id = $1
          AND date >= $2
          AND date <= $3
        ORDER BY date DESC`

	err := r.db.SelectContext(ctx, &sessions, query, clientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("session query error: %w", err)
	}
	return sessions, nil
}

func (r *PostgresWorkoutRepository) ListExerciseProgress(ctx context.Context, sessionIDs []string) ([]*domain.ExerciseProgressEntry, error) {
	if len(sessionIDs) == 0 {
		return []*domain.ExerciseProgressEntry{}, nil
	}

	query := `
        SELECT id, session_id, exercise_name, sets, notes, created_at
        FROM exercise_progress
        WHERE session_id = ANY($1)
        ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(sessionIDs))
	if err != nil {
		return nil, fmt.Errorf("exercise progress query error: %w", err)
	}
	defer rows.Close()

	var entries []*domain.ExerciseProgressEntry

	for rows.Next() {
		var entry domain.ExerciseProgressEntry
		var setsJSON []byte

		if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.ExerciseName, &setsJSON, &entry.Notes, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("exercise progress scan error: %w", err)
		}

		// A malformed sets payload keeps the entry with nil sets so it
		// aggregates as zero instead of failing the whole read.
		if len(setsJSON) > 0 {
			if err := json.Unmarshal(setsJSON, &entry.Sets); err != nil {
				log.Printf("[WORKOUT] Malformed sets for entry %s: %v", entry.ID, err)
				entry.Sets = nil
			}
		}

		entries = append(entries, &entry)
	}

	return entries, nil
}
