package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
	"github.com/daanvos/macroflow-engine/internal/core/services"
)

func TestScale(t *testing.T) {
	meal := &domain.Meal{
		ID:             "m1",
		Name:           "Chicken & Rice",
		Kcal:           500,
		Protein:        40,
		Carbs:          50,
		Fat:            15,
		DefaultPortion: "250g chicken",
	}

	t.Run("Half target halves macros", func(t *testing.T) {
		scaled := services.Scale(meal, 250)

		assert.Equal(t, 0.5, scaled.Factor)
		assert.Equal(t, domain.Macros{Kcal: 250, Protein: 20, Carbs: 25, Fat: 8}, scaled.Macros)
		assert.Equal(t, "125g chicken", scaled.PortionText)
	})

	t.Run("Factor clamps at upper bound", func(t *testing.T) {
		scaled := services.Scale(meal, 5000)

		assert.Equal(t, 3.0, scaled.Factor)
		assert.Equal(t, 1500, scaled.Macros.Kcal)
	})

	t.Run("Factor clamps at lower bound", func(t *testing.T) {
		scaled := services.Scale(meal, 10)

		assert.Equal(t, 0.5, scaled.Factor)
		assert.Equal(t, 250, scaled.Macros.Kcal)
	})

	t.Run("Zero reference calories returns meal unscaled", func(t *testing.T) {
		freeMeal := &domain.Meal{
			ID:             "m2",
			Protein:        10,
			DefaultPortion: "een kom soep",
		}

		scaled := services.Scale(freeMeal, 400)

		assert.Equal(t, 1.0, scaled.Factor)
		assert.Equal(t, "een kom soep", scaled.PortionText)
		assert.Equal(t, domain.Macros{Protein: 10}, scaled.Macros)
	})

	t.Run("Nil meal degrades to zero portion", func(t *testing.T) {
		scaled := services.Scale(nil, 400)

		assert.Equal(t, 1.0, scaled.Factor)
		assert.Equal(t, domain.Macros{}, scaled.Macros)
	})
}

func TestScaleText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		factor float64
		want   string
	}{
		{
			name:   "Grams rescaled",
			text:   "250g chicken",
			factor: 0.5,
			want:   "125g chicken",
		},
		{
			name:   "Grams with space",
			text:   "100 g havermout",
			factor: 1.5,
			want:   "150 g havermout",
		},
		{
			name:   "Milliliters rescaled",
			text:   "300ml melk",
			factor: 2.0,
			want:   "600ml melk",
		},
		{
			name:   "Pieces below one become singular with a decimal",
			text:   "2 stuks ei",
			factor: 0.3,
			want:   "0.6 stuk ei",
		},
		{
			name:   "Pieces above one rounded and plural",
			text:   "1 stuk banaan",
			factor: 2.0,
			want:   "2 stuks banaan",
		},
		{
			name:   "English pieces",
			text:   "3 pieces of toast",
			factor: 0.5,
			want:   "2 pieces of toast",
		},
		{
			name:   "No pattern falls back to multiplier prefix",
			text:   "flesje water",
			factor: 2.0,
			want:   "2.0x flesje water",
		},
		{
			name:   "Grams win over pieces in priority order",
			text:   "2 stuks kipfilet van 200g",
			factor: 0.5,
			want:   "2 stuks kipfilet van 100g",
		},
		{
			name:   "Only first quantity rewritten",
			text:   "100g rijst met 200g kip",
			factor: 2.0,
			want:   "200g rijst met 200g kip",
		},
		{
			name:   "Decimal comma parsed",
			text:   "1,5 g zout",
			factor: 2.0,
			want:   "3 g zout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.ScaleText(tt.text, tt.factor))
		})
	}
}
