package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		dbUser = "macroflow_user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "secret"
	}
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "macroflow_db"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}
	return db
}

func cleanup(t *testing.T, db *sqlx.DB) {
	_, err := db.Exec("TRUNCATE TABLE meal_overrides, meal_plans, meal_templates, meals CASCADE")
	require.NoError(t, err, "Failed to clean up database for Plan Repository tests")
}

func TestPostgresPlanRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)

	ctx := context.Background()
	repo := NewPostgresPlanRepository(db)
	clientID := uuid.NewString()

	structure := domain.WeekStructure{
		{Slots: []domain.MealSlot{{MealID: uuid.NewString()}}},
	}

	t.Run("GetLatestPlan returns ErrPlanNotFound for unknown client", func(t *testing.T) {
		_, err := repo.GetLatestPlan(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrPlanNotFound)
	})

	t.Run("Most recently created plan wins", func(t *testing.T) {
		older := &domain.MealPlan{
			ClientID:      clientID,
			WeekStructure: structure,
			StartDate:     time.Now().UTC(),
		}
		require.NoError(t, repo.CreatePlan(ctx, older))

		// Ensure a distinct created_at.
		time.Sleep(10 * time.Millisecond)

		newer := &domain.MealPlan{
			ClientID:      clientID,
			WeekStructure: structure,
			Targets:       &domain.NutritionTargets{Kcal: 2500, Protein: 180, Carbs: 250, Fat: 80},
			StartDate:     time.Now().UTC(),
		}
		require.NoError(t, repo.CreatePlan(ctx, newer))

		got, err := repo.GetLatestPlan(ctx, clientID)
		require.NoError(t, err)
		assert.Equal(t, newer.ID, got.ID)
		require.NotNil(t, got.Targets)
		assert.Equal(t, 2500, got.Targets.Kcal)
		assert.Len(t, got.WeekStructure, 1)
	})

	t.Run("Override upsert is last write wins", func(t *testing.T) {
		plan, err := repo.GetLatestPlan(ctx, clientID)
		require.NoError(t, err)

		first := &domain.MealOverride{
			ClientID:      clientID,
			PlanID:        plan.ID,
			WeekStructure: domain.WeekStructure{{Slots: []domain.MealSlot{{MealID: "first"}}}},
		}
		require.NoError(t, repo.SaveOverride(ctx, first))

		second := &domain.MealOverride{
			ClientID:      clientID,
			PlanID:        plan.ID,
			WeekStructure: domain.WeekStructure{{Slots: []domain.MealSlot{{MealID: "second"}}}},
		}
		require.NoError(t, repo.SaveOverride(ctx, second))

		got, err := repo.GetOverride(ctx, clientID, plan.ID)
		require.NoError(t, err)
		assert.Equal(t, "second", got.WeekStructure[0].Slots[0].MealID)
	})

	t.Run("GetOverride returns ErrOverrideNotFound when absent", func(t *testing.T) {
		_, err := repo.GetOverride(ctx, uuid.NewString(), uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrOverrideNotFound)
	})

	t.Run("GetTemplate returns ErrTemplateNotFound when absent", func(t *testing.T) {
		_, err := repo.GetTemplate(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
	})
}

func TestPostgresMealRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)

	ctx := context.Background()
	repo := NewPostgresMealRepository(db)

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		id := uuid.NewString()
		ids = append(ids, id)
		_, err := db.ExecContext(ctx, `
            INSERT INTO meals (id, name, kcal, protein, carbs, fat, default_portion, ingredients, instructions, created_at, updated_at)
            VALUES ($1, $2, 500, 40, 50, 15, '250g chicken', '', '', NOW(), NOW())`,
			id, fmt.Sprintf("Meal %d", i))
		require.NoError(t, err)
	}

	t.Run("GetByIDs skips unknown ids", func(t *testing.T) {
		meals, err := repo.GetByIDs(ctx, append(ids, uuid.NewString()))
		require.NoError(t, err)
		assert.Len(t, meals, 3)
	})

	t.Run("GetByIDs with empty input returns empty slice", func(t *testing.T) {
		meals, err := repo.GetByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, meals)
	})

	t.Run("GetByID returns ErrMealNotFound for unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrMealNotFound)
	})
}
