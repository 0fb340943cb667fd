package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
	"github.com/daanvos/macroflow-engine/internal/core/services"
)

type PlanHandler struct {
	resolver *services.PlanResolver
	checked  *services.CheckedStateService
}

func NewPlanHandler(resolver *services.PlanResolver, checked *services.CheckedStateService) *PlanHandler {
	return &PlanHandler{
		resolver: resolver,
		checked:  checked,
	}
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/clients/:clientId/plan", h.GetPlan)
}

type slotView struct {
	MealID  string        `json:"meal_id"`
	Name    string        `json:"name"`
	Portion string        `json:"portion"`
	Factor  float64       `json:"factor"`
	Macros  domain.Macros `json:"macros"`
	Checked bool          `json:"checked"`
	Missing bool          `json:"missing,omitempty"`
}

type dayView struct {
	Slots []slotView `json:"slots"`
}

type planResponse struct {
	PlanID   string                  `json:"plan_id"`
	ClientID string                  `json:"client_id"`
	Targets  domain.NutritionTargets `json:"targets"`
	Days     []dayView               `json:"days"`
}

// GetPlan returns the client's resolved plan: 28 normalized days with every
// slot's meal scaled to its kcal target, plus the checked flags.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	clientID := c.Param("clientId")

	plan, err := h.resolver.Resolve(c.Request.Context(), clientID)
	if err != nil {
		handleError(c, err)
		return
	}

	state := h.checked.Load(c.Request.Context(), clientID)

	days := make([]dayView, 0, len(plan.Days))
	for dayIndex, day := range plan.Days {
		slots := make([]slotView, 0, len(day.Slots))
		for slotIndex, slot := range day.Slots {
			view := slotView{
				MealID:  slot.MealID,
				Checked: state.IsChecked(dayIndex, slotIndex),
			}

			meal, ok := plan.MealsByID[slot.MealID]
			if !ok {
				view.Missing = true
				slots = append(slots, view)
				continue
			}

			target := meal.Kcal
			if slot.TargetKcal != nil {
				target = *slot.TargetKcal
			}
			scaled := services.Scale(meal, target)

			view.Name = meal.Name
			view.Portion = scaled.PortionText
			view.Factor = scaled.Factor
			view.Macros = scaled.Macros
			slots = append(slots, view)
		}
		days = append(days, dayView{Slots: slots})
	}

	c.JSON(http.StatusOK, planResponse{
		PlanID:   plan.PlanID,
		ClientID: plan.ClientID,
		Targets:  plan.Targets,
		Days:     days,
	})
}

// handleError maps domain errors to HTTP statuses. Shared by all handlers.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNoPlanAssigned):
		c.JSON(http.StatusNotFound, gin.H{"error": "no plan assigned"})
	case errors.Is(err, domain.ErrMealNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
