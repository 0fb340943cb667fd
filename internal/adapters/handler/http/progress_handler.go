package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
	"github.com/daanvos/macroflow-engine/internal/core/services"
)

type ProgressHandler struct {
	resolver *services.PlanResolver
	checked  *services.CheckedStateService
	progress *services.ProgressService
}

func NewProgressHandler(resolver *services.PlanResolver, checked *services.CheckedStateService, progress *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		resolver: resolver,
		checked:  checked,
		progress: progress,
	}
}

func (h *ProgressHandler) RegisterRoutes(router *gin.RouterGroup) {
	clients := router.Group("/clients/:clientId/progress")
	{
		clients.GET("/day/:day", h.GetDayProgress)
		clients.GET("/series", h.GetSeries)
		clients.GET("/streak", h.GetStreak)
	}
}

func (h *ProgressHandler) GetDayProgress(c *gin.Context) {
	clientID := c.Param("clientId")

	dayIndex, err := strconv.Atoi(c.Param("day"))
	if err != nil || dayIndex < 0 || dayIndex >= domain.PlanDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be an integer between 0 and 27"})
		return
	}

	plan, err := h.resolver.Resolve(c.Request.Context(), clientID)
	if err != nil {
		handleError(c, err)
		return
	}

	state := h.checked.Load(c.Request.Context(), clientID)
	progress := services.ComputeDayProgress(plan, state, dayIndex)

	c.JSON(http.StatusOK, progress)
}

func (h *ProgressHandler) GetSeries(c *gin.Context) {
	clientID := c.Param("clientId")

	period := services.Period(c.DefaultQuery("period", string(services.PeriodWeek)))
	switch period {
	case services.PeriodWeek, services.PeriodMonth, services.PeriodYear:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be one of week, month, year"})
		return
	}

	logs, err := h.progress.FetchLogs(c.Request.Context(), clientID, period, time.Now().UTC())
	if err != nil {
		handleError(c, err)
		return
	}

	if exercise := c.Query("exercise"); exercise != "" {
		c.JSON(http.StatusOK, gin.H{
			"exercise": exercise,
			"points":   services.ExerciseSeries(logs, exercise),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period":  period,
		"buckets": services.PeriodSeries(logs),
	})
}

func (h *ProgressHandler) GetStreak(c *gin.Context) {
	clientID := c.Param("clientId")

	streak := h.progress.Streak(c.Request.Context(), clientID, time.Now().UTC())

	c.JSON(http.StatusOK, gin.H{"streak": streak})
}
