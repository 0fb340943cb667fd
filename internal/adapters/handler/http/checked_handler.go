package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
	"github.com/daanvos/macroflow-engine/internal/core/services"
)

type CheckedHandler struct {
	checked *services.CheckedStateService
}

func NewCheckedHandler(checked *services.CheckedStateService) *CheckedHandler {
	return &CheckedHandler{checked: checked}
}

func (h *CheckedHandler) RegisterRoutes(router *gin.RouterGroup) {
	clients := router.Group("/clients/:clientId/checked")
	{
		clients.GET("", h.GetState)
		clients.POST("/:day/:slot/toggle", h.Toggle)
	}
}

func (h *CheckedHandler) GetState(c *gin.Context) {
	clientID := c.Param("clientId")

	state := h.checked.Load(c.Request.Context(), clientID)

	c.JSON(http.StatusOK, gin.H{"checked": state})
}

func (h *CheckedHandler) Toggle(c *gin.Context) {
	clientID := c.Param("clientId")

	dayIndex, err := strconv.Atoi(c.Param("day"))
	if err != nil || dayIndex < 0 || dayIndex >= domain.PlanDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be an integer between 0 and 27"})
		return
	}

	slotIndex, err := strconv.Atoi(c.Param("slot"))
	if err != nil || slotIndex < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot must be a non-negative integer"})
		return
	}

	state, err := h.checked.Toggle(c.Request.Context(), clientID, dayIndex, slotIndex)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"checked": state})
}
