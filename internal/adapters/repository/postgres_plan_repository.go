package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
)

var _ domain.PlanRepository = (*PostgresPlanRepository)(nil)

type PostgresPlanRepository struct {
	db *sqlx.DB
}

func NewPostgresPlanRepository(db *sqlx.DB) *PostgresPlanRepository {
	return &PostgresPlanRepository{db: db}
}

func (r *PostgresPlanRepository) GetLatestPlan(ctx context.Context, clientID string) (*domain.MealPlan, error) {
	query := `
        SELECT id, client_id, template_id, week_structure, targets, start_date, created_at, updated_at
        FROM meal_plans
        WHERE client_id = $1
        ORDER BY created_at DESC
        LIMIT 1`

	row := r.db.QueryRowContext(ctx, query, clientID)

	var plan domain.MealPlan
	var templateID sql.NullString
	var structureJSON, targetsJSON []byte

	err := row.Scan(
		&plan.ID, &plan.ClientID, &templateID, &structureJSON, &targetsJSON,
		&plan.StartDate, &plan.CreatedAt, &plan.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("plan scan error: %w", err)
	}

	plan.TemplateID = templateID.String

	if len(structureJSON) > 0 {
		if err := json.Unmarshal(structureJSON, &plan.WeekStructure); err != nil {
			return nil, fmt.Errorf("failed to unmarshal week structure: %w", err)
		}
	}
	if len(targetsJSON) > 0 {
		var targets domain.NutritionTargets
		if err := json.Unmarshal(targetsJSON, &targets); err != nil {
			return nil, fmt.Errorf("failed to unmarshal targets: %w", err)
		}
		plan.Targets = &targets
	}

	return &plan, nil
}

func (r *PostgresPlanRepository) CreatePlan(ctx context.Context, plan *domain.MealPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	structureJSON, err := json.Marshal(plan.WeekStructure)
	if err != nil {
		return fmt.Errorf("failed to marshal week structure: %w", err)
	}

	var targetsJSON []byte
	if plan.Targets != nil {
		if targetsJSON, err = json.Marshal(plan.Targets); err != nil {
			return fmt.Errorf("failed to marshal targets: %w", err)
		}
	}

	var templateID sql.NullString
	if plan.TemplateID != "" {
		templateID = sql.NullString{String: plan.TemplateID, Valid: true}
	}

	query := `
        INSERT INTO meal_plans (id, client_id, template_id, week_structure, targets, start_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		plan.ID, plan.ClientID, templateID, structureJSON, targetsJSON,
		plan.StartDate, plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}
	return nil
}

func (r *PostgresPlanRepository) GetOverride(ctx context.Context, clientID, planID string) (*domain.MealOverride, error) {
	query := `
        SELECT client_id, plan_id, week_structure, created_at, updated_at
        FROM meal_overrides
        WHERE client_id = $1 AND plan_id = $2`

	row := r.db.QueryRowContext(ctx, query, clientID, planID)

	var override domain.MealOverride
	var structureJSON []byte

	err := row.Scan(&override.ClientID, &override.PlanID, &structureJSON, &override.CreatedAt, &override.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOverrideNotFound
		}
		return nil, fmt.Errorf("override scan error: %w", err)
	}

	if len(structureJSON) > 0 {
		if err := json.Unmarshal(structureJSON, &override.WeekStructure); err != nil {
			return nil, fmt.Errorf("failed to unmarshal override structure: %w", err)
		}
	}

	return &override, nil
}

// SaveOverride upserts: a second coach session saving the same override simply
// wins. There is no version check.
func (r *PostgresPlanRepository) SaveOverride(ctx context.Context, override *domain.MealOverride) error {
	structureJSON, err := json.Marshal(override.WeekStructure)
	if err != nil {
		return fmt.Errorf("failed to marshal override structure: %w", err)
	}

	query := `
        INSERT INTO meal_overrides (client_id, plan_id, week_structure, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        ON CONFLICT (client_id, plan_id)
        DO UPDATE SET week_structure = EXCLUDED.week_structure, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, override.ClientID, override.PlanID, structureJSON); err != nil {
		return fmt.Errorf("failed to save override: %w", err)
	}
	return nil
}

func (r *PostgresPlanRepository) GetTemplate(ctx context.Context, templateID string) (*domain.MealTemplate, error) {
	query := `
        SELECT id, coach_id, name, week_structure, created_at, updated_at
        FROM meal_templates
        WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, templateID)

	var template domain.MealTemplate
	var structureJSON []byte

	err := row.Scan(&template.ID, &template.CoachID, &template.Name, &structureJSON, &template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("template scan error: %w", err)
	}

	if len(structureJSON) > 0 {
		if err := json.Unmarshal(structureJSON, &template.WeekStructure); err != nil {
			return nil, fmt.Errorf("failed to unmarshal template structure: %w", err)
		}
	}

	return &template, nil
}
