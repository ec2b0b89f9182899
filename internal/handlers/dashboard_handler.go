package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lifeweeks/internal/services"
)

// DashboardHandler handles the dashboard summary request
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns a summary of the caller's data
// @Summary     Get dashboard
// @Description Get the caller's recent events, tags, and totals
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Dashboard summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Aggregation failed"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.dashboardService.Summary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"username": summary.User.Username,
			"email":    summary.User.Email,
		},
		"recent_events": summary.RecentEvents,
		"tags":          summary.Tags,
		"total_events":  summary.TotalEvents,
		"total_tags":    summary.TotalTags,
	})
}
