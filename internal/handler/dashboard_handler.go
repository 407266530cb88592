package handler

import (
	"net/http"

	"github.com/Ashutoshverma77/store-app-be/internal/middleware"
	"github.com/Ashutoshverma77/store-app-be/internal/service"
	"github.com/Ashutoshverma77/store-app-be/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/dashboard", middleware.RequireRole("admin", "manager"), h.GetStats)
}

// GetStats handles GET /dashboard
// @Summary      Dashboard statistics
// @Description  Activity counts, movement aggregates, top operators and stock valuation for a period
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Param        period  query     string  false  "day, week or month (default day)"
// @Success      200     {object}  response.Response{data=model.DashboardStats}
// @Failure      400     {object}  response.Response
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context(), c.DefaultQuery("period", "day"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
