package handler

import (
	"net/http"

	"github.com/Ashutoshverma77/store-app-be/internal/middleware"
	"github.com/Ashutoshverma77/store-app-be/internal/service"
	"github.com/Ashutoshverma77/store-app-be/pkg/pagination"
	"github.com/Ashutoshverma77/store-app-be/pkg/response"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	itemService  service.ItemService
	placeService service.PlaceService
}

func NewItemHandler(itemService service.ItemService, placeService service.PlaceService) *ItemHandler {
	return &ItemHandler{itemService: itemService, placeService: placeService}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := middleware.RequireRole("admin", "manager", "staff")
	managers := middleware.RequireRole("admin", "manager")

	items := router.Group("/api/items")
	{
		items.GET("", staff, h.List)
		items.GET("/:id", staff, h.Get)
		items.GET("/:id/places", staff, h.StockByPlace)
		items.POST("", managers, h.Create)
		items.PUT("/:id", managers, h.Update)
		items.DELETE("/:id", managers, h.Delete)
		items.POST("/:id/scrap", managers, h.ScrapFromPlace)
	}
}

// List handles GET /items
// @Summary      List items
// @Description  Retrieves a paginated list of items with their stock counters
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Param        search  query     string  false  "Search by name or category"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/items [get]
func (h *ItemHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	items, total, err := h.itemService.List(c.Request.Context(), params.Page, params.Limit, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// Get handles GET /items/:id
// @Summary      Get item
// @Description  Fetch one item with its stock counters
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=model.StoreItem}
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [get]
func (h *ItemHandler) Get(c *gin.Context) {
	item, err := h.itemService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// StockByPlace handles GET /items/:id/places
// @Summary      Item stock per place
// @Description  Lists every place holding this item with the per-place counters
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /api/items/{id}/places [get]
func (h *ItemHandler) StockByPlace(c *gin.Context) {
	views, err := h.placeService.StockOfItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, views))
}

// Create handles POST /items
// @Summary      Create item
// @Description  Creates a new store item with zeroed counters
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateItemRequest  true  "Item"
// @Success      201      {object}  response.Response{data=model.StoreItem}
// @Failure      400      {object}  response.Response
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// Update handles PUT /items/:id
// @Summary      Update item
// @Description  Updates item master data; counters are untouched
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Item ID"
// @Param        payload  body      service.UpdateItemRequest  true  "Item"
// @Success      200      {object}  response.Response{data=model.StoreItem}
// @Failure      404      {object}  response.Response
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// Delete handles DELETE /items/:id
// @Summary      Delete item
// @Description  Soft deletes an item that no longer tracks any stock
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=response.WorkflowResult}
// @Failure      409  {object}  response.Response
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Workflow(http.StatusOK, "item deleted"))
}

// ScrapFromPlace handles POST /items/:id/scrap
// @Summary      Scrap from place
// @Description  Writes off usable stock held at a place
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Item ID"
// @Param        payload  body      service.ScrapFromPlaceRequest  true  "Scrap"
// @Success      200      {object}  response.Response{data=response.WorkflowResult}
// @Failure      409      {object}  response.Response
// @Router       /api/items/{id}/scrap [post]
func (h *ItemHandler) ScrapFromPlace(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.ScrapFromPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.itemService.ScrapFromPlace(c.Request.Context(), userID, c.Param("id"), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Workflow(http.StatusOK, "stock scrapped"))
}
