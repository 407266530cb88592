package handler

import (
	"net/http"

	"github.com/Ashutoshverma77/store-app-be/internal/middleware"
	"github.com/Ashutoshverma77/store-app-be/internal/service"
	"github.com/Ashutoshverma77/store-app-be/pkg/pagination"
	"github.com/Ashutoshverma77/store-app-be/pkg/response"

	"github.com/gin-gonic/gin"
)

type PlaceHandler struct {
	placeService service.PlaceService
}

func NewPlaceHandler(placeService service.PlaceService) *PlaceHandler {
	return &PlaceHandler{placeService: placeService}
}

func (h *PlaceHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := middleware.RequireRole("admin", "manager", "staff")
	managers := middleware.RequireRole("admin", "manager")

	api := router.Group("/api")
	places := api.Group("/places")
	{
		places.GET("", staff, h.List)
		places.GET("/:id", staff, h.Get)
		places.GET("/:id/stock", staff, h.Stock)
		places.POST("", managers, h.Create)
		places.PUT("/:id", managers, h.Update)
		places.DELETE("/:id", managers, h.Delete)
	}
	api.GET("/stock", staff, h.StockAll)
}

// List handles GET /places
// @Summary      List places
// @Description  Retrieves a paginated list of storage places
// @Tags         places
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Param        search  query     string  false  "Search by name or code"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/places [get]
func (h *PlaceHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	places, total, err := h.placeService.List(c.Request.Context(), params.Page, params.Limit, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"places": places,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// Get handles GET /places/:id
// @Summary      Get place
// @Description  Fetch one storage place
// @Tags         places
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Place ID"
// @Success      200  {object}  response.Response{data=model.StorePlace}
// @Failure      404  {object}  response.Response
// @Router       /api/places/{id} [get]
func (h *PlaceHandler) Get(c *gin.Context) {
	place, err := h.placeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, place))
}

// Stock handles GET /places/:id/stock
// @Summary      Stock at place
// @Description  Lists every item held at this place with the per-place counters
// @Tags         places
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Place ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /api/places/{id}/stock [get]
func (h *PlaceHandler) Stock(c *gin.Context) {
	views, err := h.placeService.StockAtPlace(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, views))
}

// StockAll handles GET /stock
// @Summary      Full stock listing
// @Description  Lists every (item, place) stock record with resolved names
// @Tags         places
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/stock [get]
func (h *PlaceHandler) StockAll(c *gin.Context) {
	views, err := h.placeService.StockAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, views))
}

// Create handles POST /places
// @Summary      Create place
// @Description  Creates a new storage place
// @Tags         places
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePlaceRequest  true  "Place"
// @Success      201      {object}  response.Response{data=model.StorePlace}
// @Failure      400      {object}  response.Response
// @Router       /api/places [post]
func (h *PlaceHandler) Create(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.CreatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	place, err := h.placeService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, place))
}

// Update handles PUT /places/:id
// @Summary      Update place
// @Description  Updates a storage place's master data
// @Tags         places
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Place ID"
// @Param        payload  body      service.UpdatePlaceRequest  true  "Place"
// @Success      200      {object}  response.Response{data=model.StorePlace}
// @Failure      404      {object}  response.Response
// @Router       /api/places/{id} [put]
func (h *PlaceHandler) Update(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.UpdatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	place, err := h.placeService.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, place))
}

// Delete handles DELETE /places/:id
// @Summary      Delete place
// @Description  Soft deletes a place that holds no live stock
// @Tags         places
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Place ID"
// @Success      200  {object}  response.Response{data=response.WorkflowResult}
// @Failure      409  {object}  response.Response
// @Router       /api/places/{id} [delete]
func (h *PlaceHandler) Delete(c *gin.Context) {
	userID, ok := operatorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	if err := h.placeService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Workflow(http.StatusOK, "place deleted"))
}
