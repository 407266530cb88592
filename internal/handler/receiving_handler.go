package handler

import (
	"net/http"
	"strings"

	"github.com/Ashutoshverma77/store-app-be/internal/middleware"
	"github.com/Ashutoshverma77/store-app-be/internal/model"
	"github.com/Ashutoshverma77/store-app-be/internal/service"
	"github.com/Ashutoshverma77/store-app-be/pkg/pagination"
	"github.com/Ashutoshverma77/store-app-be/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReceivingHandler struct {
	receivingService service.ReceivingService
}

func NewReceivingHandler(receivingService service.ReceivingService) *ReceivingHandler {
	return &ReceivingHandler{receivingService: receivingService}
}

func (h *ReceivingHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := middleware.RequireRole("admin", "manager", "staff")
	managers := middleware.RequireRole("admin", "manager")

	receivings := router.Group("/api/receivings")
	{
		receivings.GET("", staff, h.List)
		receivings.GET("/:id", staff, h.Get)
		receivings.POST("", staff, h.Create)
		receivings.PUT("/:id", staff, h.Update)
		receivings.POST("/:id/approve", managers, h.Approve)
		receivings.POST("/:id/deliver", staff, h.Deliver)
		receivings.POST("/:id/close", managers, h.Close)
		receivings.POST("/:id/reject", managers, h.Reject)
	}
}

func parseStatuses(raw string) []model.DocStatus {
	if raw == "" {
		return nil
	}
	var statuses []model.DocStatus
	for _, part := range strings.Split(raw, ",") {
		st := model.DocStatus(strings.ToUpper(strings.TrimSpace(part)))
		if st.Valid() {
			statuses = append(statuses, st)
		}
	}
	return statuses
}

// List handles GET /receivings
// @Summary      List receivings
// @Description  Retrieves a paginated list of receiving documents
// @Tags         receivings
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Param        search  query     string  false  "Search by number or source"
// @Param        status  query     string  false  "Comma-separated status filter"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/receivings [get]
func (h *ReceivingHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	filter := service.ReceivingListFilter{
		Page:     params.Page,
		Limit:    params.Limit,
		Search:   c.Query("search"),
		Statuses: parseStatuses(c.Query("status")),
	}

	receivings, total, err := h.receivingService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"receivings": receivings,
		"total":      total,
		"page":       params.Page,
		"limit":      params.Limit,
	}))
}

// Get handles GET /receivings/:id
// @Summary      Get receiving
// @Description  Fetch one receiving document with its lines
// @Tags         receivings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Receiving ID"
// @Success      200  {object}  response.Response{data=model.Receiving}
// @Failure      404  {object}  response.Response
// @Router       /api/receivings/{id} [get]
func (h *ReceivingHandler) Get(c *gin.Context) {
	rec, err := h.receivingService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rec))
}

// Create handles POST /receivings
// @Summary      Create receiving
// @Description  Creates a receiving draft from requested lines
// @Tags         receivings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateReceivingRequest  true  "Receiving draft"
// @Success      201      {object}  response.Response{data=model.Receiving}
// @Failure      400      {object}  response.Response
// @Router       /api/receivings [post]
func (h *ReceivingHandler) Create(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.CreateReceivingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rec, err := h.receivingService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rec))
}

// Update handles PUT /receivings/:id
// @Summary      Update receiving draft
// @Description  Replaces the lines of a DRAFT receiving
// @Tags         receivings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Receiving ID"
// @Param        payload  body      service.UpdateReceivingRequest  true  "Updated draft"
// @Success      200      {object}  response.Response{data=response.WorkflowResult}
// @Failure      409      {object}  response.Response
// @Router       /api/receivings/{id} [put]
func (h *ReceivingHandler) Update(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.UpdateReceivingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.receivingService.UpdateDraft(c.Request.Context(), userID, c.Param("id"), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Workflow(http.StatusOK, "receiving updated"))
}

// Approve handles POST /receivings/:id/approve
// @Summary      Approve receiving
// @Description  Sets approved quantities per line and moves the document to APPROVED
// @Tags         receivings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Receiving ID"
// @Param        payload  body      service.ApproveReceivingRequest  true  "Approved quantities"
// @Success      200      {object}  response.Response{data=response.WorkflowResult}
// @Failure      409      {object}  response.Response
// @Router       /api/receivings/{id}/approve [post]
func (h *ReceivingHandler) Approve(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.ApproveReceivingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.receivingService.Approve(c.Request.Context(), userID, c.Param("id"), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Workflow(http.StatusOK, "receiving approved"))
}

// Deliver handles POST /receivings/:id/deliver
// @Summary      Deliver to place
// @Description  Records a delivery (and optional scrap) of one line into a place
// @Tags         receivings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Receiving ID"
// @Param        payload  body      service.DeliverRequest  true  "Delivery"
// @Success      200      {object}  response.Response{data=response.WorkflowResult}
// @Failure      409      {object}  response.Response
// @Router       /api/receivings/{id}/deliver [post]
func (h *ReceivingHandler) Deliver(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.DeliverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.receivingService.DeliverToPlace(c.Request.Context(), userID, c.Param("id"), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Workflow(http.StatusOK, "delivery recorded"))
}

// Close handles POST /receivings/:id/close
// @Summary      Close receiving
// @Description  Closes an APPROVED receiving, abandoning undelivered remainders
// @Tags         receivings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Receiving ID"
// @Success      200  {object}  response.Response{data=response.WorkflowResult}
// @Failure      409  {object}  response.Response
// @Router       /api/receivings/{id}/close [post]
func (h *ReceivingHandler) Close(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	if err := h.receivingService.Close(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Workflow(http.StatusOK, "receiving closed"))
}

// Reject handles POST /receivings/:id/reject
// @Summary      Reject receiving
// @Description  Cancels a receiving that has not moved any stock yet
// @Tags         receivings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Receiving ID"
// @Success      200  {object}  response.Response{data=response.WorkflowResult}
// @Failure      409  {object}  response.Response
// @Router       /api/receivings/{id}/reject [post]
func (h *ReceivingHandler) Reject(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	if err := h.receivingService.Reject(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Workflow(http.StatusOK, "receiving rejected"))
}
