package handler

import (
	"net/http"

	"github.com/Ashutoshverma77/store-app-be/internal/middleware"
	"github.com/Ashutoshverma77/store-app-be/internal/service"
	"github.com/Ashutoshverma77/store-app-be/pkg/pagination"
	"github.com/Ashutoshverma77/store-app-be/pkg/response"

	"github.com/gin-gonic/gin"
)

type IssueHandler struct {
	issueService service.IssueService
}

func NewIssueHandler(issueService service.IssueService) *IssueHandler {
	return &IssueHandler{issueService: issueService}
}

func (h *IssueHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := middleware.RequireRole("admin", "manager", "staff")
	managers := middleware.RequireRole("admin", "manager")

	issues := router.Group("/api/issues")
	{
		issues.GET("", staff, h.List)
		issues.GET("/:id", staff, h.Get)
		issues.GET("/by-item/:itemId", staff, h.ListApprovedByItem)
		issues.POST("", staff, h.Create)
		issues.PUT("/:id", staff, h.Update)
		issues.POST("/:id/approve", managers, h.Approve)
		issues.POST("/:id/issue", staff, h.IssueFromPlace)
		issues.POST("/:id/return", staff, h.Return)
		issues.POST("/:id/close", managers, h.Close)
		issues.POST("/:id/reject", managers, h.Reject)
	}
}

// List handles GET /issues
// @Summary      List issues
// @Description  Retrieves a paginated list of issue documents
// @Tags         issues
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Param        search  query     string  false  "Search by number or reason"
// @Param        status  query     string  false  "Comma-separated status filter"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/issues [get]
func (h *IssueHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	filter := service.IssueListFilter{
		Page:     params.Page,
		Limit:    params.Limit,
		Search:   c.Query("search"),
		Statuses: parseStatuses(c.Query("status")),
	}

	issues, total, err := h.issueService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"issues": issues,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// Get handles GET /issues/:id
// @Summary      Get issue
// @Description  Fetch one issue document with its lines
// @Tags         issues
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Issue ID"
// @Success      200  {object}  response.Response{data=model.Issue}
// @Failure      404  {object}  response.Response
// @Router       /api/issues/{id} [get]
func (h *IssueHandler) Get(c *gin.Context) {
	iss, err := h.issueService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, iss))
}

// ListApprovedByItem handles GET /issues/by-item/:itemId
// @Summary      List approved issues carrying an item
// @Description  Returns APPROVED issues with an open line for the item, for distribution pickers
// @Tags         issues
// @Security     BearerAuth
// @Produce      json
// @Param        itemId  path      string  true  "Item ID"
// @Success      200     {object}  response.Response{data=object}
// @Failure      400     {object}  response.Response
// @Router       /api/issues/by-item/{itemId} [get]
func (h *IssueHandler) ListApprovedByItem(c *gin.Context) {
	issues, err := h.issueService.ListApprovedByItem(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, issues))
}

// Create handles POST /issues
// @Summary      Create issue
// @Description  Creates an issue draft and reserves stock for every line
// @Tags         issues
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateIssueRequest  true  "Issue draft"
// @Success      201      {object}  response.Response{data=model.Issue}
// @Failure      409      {object}  response.Response
// @Router       /api/issues [post]
func (h *IssueHandler) Create(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	iss, err := h.issueService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, iss))
}

// Update handles PUT /issues/:id
// @Summary      Update issue draft
// @Description  Replaces the lines of a DRAFT issue, re-sizing its reservation
// @Tags         issues
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Issue ID"
// @Param        payload  body      service.UpdateIssueRequest  true  "Updated draft"
// @Success      200      {object}  response.Response{data=response.WorkflowResult}
// @Failure      409      {object}  response.Response
// @Router       /api/issues/{id} [put]
func (h *IssueHandler) Update(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.issueService.UpdateDraft(c.Request.Context(), userID, c.Param("id"), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Workflow(http.StatusOK, "issue updated"))
}

// Approve handles POST /issues/:id/approve
// @Summary      Approve issue
// @Description  Sets approved quantities per line and moves the document to APPROVED
// @Tags         issues
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Issue ID"
// @Param        payload  body      service.ApproveIssueRequest  true  "Approved quantities"
// @Success      200      {object}  response.Response{data=response.WorkflowResult}
// @Failure      409      {object}  response.Response
// @Router       /api/issues/{id}/approve [post]
func (h *IssueHandler) Approve(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.ApproveIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.issueService.Approve(c.Request.Context(), userID, c.Param("id"), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Workflow(http.StatusOK, "issue approved"))
}

// IssueFromPlace handles POST /issues/:id/issue
// @Summary      Issue from place
// @Description  Distributes part of an approved line out of a place
// @Tags         issues
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Issue ID"
// @Param        payload  body      service.IssueFromPlaceRequest  true  "Distribution"
// @Success      200      {object}  response.Response{data=response.WorkflowResult}
// @Failure      409      {object}  response.Response
// @Router       /api/issues/{id}/issue [post]
func (h *IssueHandler) IssueFromPlace(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.IssueFromPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.issueService.IssueFromPlace(c.Request.Context(), userID, c.Param("id"), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Workflow(http.StatusOK, "stock issued"))
}

// Return handles POST /issues/:id/return
// @Summary      Return issued stock
// @Description  Puts previously issued stock back into a place
// @Tags         issues
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Issue ID"
// @Param        payload  body      service.ReturnRequest  true  "Return"
// @Success      200      {object}  response.Response{data=response.WorkflowResult}
// @Failure      409      {object}  response.Response
// @Router       /api/issues/{id}/return [post]
func (h *IssueHandler) Return(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.issueService.Return(c.Request.Context(), userID, c.Param("id"), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Workflow(http.StatusOK, "stock returned"))
}

// Close handles POST /issues/:id/close
// @Summary      Close issue
// @Description  Closes an APPROVED issue and releases its remaining reservation
// @Tags         issues
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Issue ID"
// @Success      200  {object}  response.Response{data=response.WorkflowResult}
// @Failure      409  {object}  response.Response
// @Router       /api/issues/{id}/close [post]
func (h *IssueHandler) Close(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	if err := h.issueService.Close(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Workflow(http.StatusOK, "issue closed"))
}

// Reject handles POST /issues/:id/reject
// @Summary      Reject issue
// @Description  Cancels an issue that has not distributed stock and releases its reservation
// @Tags         issues
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Issue ID"
// @Success      200  {object}  response.Response{data=response.WorkflowResult}
// @Failure      409  {object}  response.Response
// @Router       /api/issues/{id}/reject [post]
func (h *IssueHandler) Reject(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	if err := h.issueService.Reject(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Workflow(http.StatusOK, "issue rejected"))
}
