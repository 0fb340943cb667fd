package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
)

// Scale factor bounds. A slot asking for far more or less than the meal's
// reference calories is clamped instead of rejected.
const (
	MinScaleFactor = 0.5
	MaxScaleFactor = 3.0
)

// ScaledPortion is the result of scaling a meal towards a target calorie value.
type ScaledPortion struct {
	Factor      float64       `json:"factor"`
	PortionText string        `json:"portion_text"`
	Macros      domain.Macros `json:"macros"`
}

var (
	gramsPattern  = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*g\b`)
	mlPattern     = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*ml\b`)
	piecesPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(stuks|stuk|pieces|piece)\b`)
)

// Scale computes the bounded scale factor between a meal's reference calories
// and the slot's target, the correspondingly rounded macros, and a rewritten
// portion description. Meals without a reference calorie value are returned
// unscaled; there is no error path.
func Scale(meal *domain.Meal, targetKcal float64) ScaledPortion {
	if meal == nil {
		return ScaledPortion{Factor: 1}
	}

	if meal.Kcal == 0 {
		return ScaledPortion{
			Factor:      1,
			PortionText: meal.DefaultPortion,
			Macros:      roundMacros(meal, 1),
		}
	}

	factor := targetKcal / meal.Kcal
	if factor < MinScaleFactor {
		factor = MinScaleFactor
	}
	if factor > MaxScaleFactor {
		factor = MaxScaleFactor
	}

	return ScaledPortion{
		Factor:      factor,
		PortionText: ScaleText(meal.DefaultPortion, factor),
		Macros:      roundMacros(meal, factor),
	}
}

func roundMacros(meal *domain.Meal, factor float64) domain.Macros {
	return domain.Macros{
		Kcal:    int(math.Round(meal.Kcal * factor)),
		Protein: int(math.Round(meal.Protein * factor)),
		Carbs:   int(math.Round(meal.Carbs * factor)),
		Fat:     int(math.Round(meal.Fat * factor)),
	}
}

// ScaleText rewrites the first quantity found in a portion description. The
// patterns form a fixed priority list and only the first occurrence of the
// winning pattern is rescaled; a text with two quantities keeps its second one
// untouched. Texts without any recognizable quantity fall back to a plain
// multiplier prefix.
func ScaleText(text string, factor float64) string {
	if loc := gramsPattern.FindStringSubmatchIndex(text); loc != nil {
		amount := parseAmount(text[loc[2]:loc[3]])
		scaled := strconv.Itoa(int(math.Round(amount * factor)))
		return text[:loc[2]] + scaled + text[loc[3]:]
	}

	if loc := mlPattern.FindStringSubmatchIndex(text); loc != nil {
		amount := parseAmount(text[loc[2]:loc[3]])
		scaled := strconv.Itoa(int(math.Round(amount * factor)))
		return text[:loc[2]] + scaled + text[loc[3]:]
	}

	if loc := piecesPattern.FindStringSubmatchIndex(text); loc != nil {
		amount := parseAmount(text[loc[2]:loc[3]])
		unit := text[loc[4]:loc[5]]
		scaled := amount * factor

		var replacement string
		if scaled < 1 {
			replacement = strconv.FormatFloat(scaled, 'f', 1, 64) + " " + singularUnit(unit)
		} else {
			replacement = strconv.Itoa(int(math.Round(scaled))) + " " + pluralUnit(unit)
		}
		return text[:loc[2]] + replacement + text[loc[5]:]
	}

	return fmt.Sprintf("%.1fx %s", factor, text)
}

func parseAmount(raw string) float64 {
	normalized := strings.ReplaceAll(raw, ",", ".")
	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0
	}
	return amount
}

func singularUnit(unit string) string {
	switch unit {
	case "stuks":
		return "stuk"
	case "pieces":
		return "piece"
	}
	return unit
}

func pluralUnit(unit string) string {
	switch unit {
	case "stuk":
		return "stuks"
	case "piece":
		return "pieces"
	}
	return unit
}
