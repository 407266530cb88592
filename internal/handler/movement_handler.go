package handler

import (
	"net/http"
	"strconv"

	"github.com/Ashutoshverma77/store-app-be/internal/middleware"
	"github.com/Ashutoshverma77/store-app-be/internal/service"
	"github.com/Ashutoshverma77/store-app-be/pkg/pagination"
	"github.com/Ashutoshverma77/store-app-be/pkg/response"

	"github.com/gin-gonic/gin"
)

type MovementHandler struct {
	movementService service.MovementService
}

func NewMovementHandler(movementService service.MovementService) *MovementHandler {
	return &MovementHandler{movementService: movementService}
}

func (h *MovementHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := middleware.RequireRole("admin", "manager", "staff")

	movements := router.Group("/api/movements")
	{
		movements.GET("", staff, h.List)
		movements.GET("/recent", staff, h.Recent)
		movements.GET("/scrap", staff, h.ListScrap)
		movements.GET("/item/:itemId", staff, h.HistoryByItem)
	}
}

func movementQuery(c *gin.Context) service.MovementQuery {
	params := pagination.Parse(c)
	return service.MovementQuery{
		ItemID:   c.Query("item_id"),
		PlaceID:  c.Query("place_id"),
		Type:     c.Query("type"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		Search:   c.Query("search"),
		Page:     params.Page,
		Limit:    params.Limit,
	}
}

// List handles GET /movements
// @Summary      List stock movements
// @Description  Retrieves the audit trail with optional item/place/type/date filters
// @Tags         movements
// @Security     BearerAuth
// @Produce      json
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Items per page (default 20)"
// @Param        item_id    query     string  false  "Filter by item"
// @Param        place_id   query     string  false  "Filter by place"
// @Param        type       query     string  false  "Filter by movement type"
// @Param        date_from  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        date_to    query     string  false  "End date (YYYY-MM-DD)"
// @Param        search     query     string  false  "Search ref number or note"
// @Success      200        {object}  response.Response{data=object}
// @Failure      400        {object}  response.Response
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *gin.Context) {
	q := movementQuery(c)
	movements, total, err := h.movementService.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"movements": movements,
		"total":     total,
		"page":      q.Page,
		"limit":     q.Limit,
	}))
}

// ListScrap handles GET /movements/scrap
// @Summary      List scrap movements
// @Description  The write-off report: SCRAP movements with the usual filters
// @Tags         movements
// @Security     BearerAuth
// @Produce      json
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Items per page (default 20)"
// @Param        item_id    query     string  false  "Filter by item"
// @Param        place_id   query     string  false  "Filter by place"
// @Param        date_from  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        date_to    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200        {object}  response.Response{data=object}
// @Failure      400        {object}  response.Response
// @Router       /api/movements/scrap [get]
func (h *MovementHandler) ListScrap(c *gin.Context) {
	q := movementQuery(c)
	movements, total, err := h.movementService.ListScrap(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"movements": movements,
		"total":     total,
		"page":      q.Page,
		"limit":     q.Limit,
	}))
}

// HistoryByItem handles GET /movements/item/:itemId
// @Summary      Item movement history
// @Description  Recent movements of one item, newest first
// @Tags         movements
// @Security     BearerAuth
// @Produce      json
// @Param        itemId  path      string  true   "Item ID"
// @Param        limit   query     int     false  "Max rows (default 100)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      400     {object}  response.Response
// @Router       /api/movements/item/{itemId} [get]
func (h *MovementHandler) HistoryByItem(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	movements, err := h.movementService.HistoryByItem(c.Request.Context(), c.Param("itemId"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, movements))
}

// Recent handles GET /movements/recent
// @Summary      Recent activity
// @Description  The latest movements across the whole store
// @Tags         movements
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query     int  false  "Max rows (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/movements/recent [get]
func (h *MovementHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	movements, err := h.movementService.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, movements))
}
