package handler_test

import (
	"testing"

	"github.com/Ashutoshverma77/store-app-be/internal/handler"

	"github.com/gin-gonic/gin"
)

// Registering routes needs no live services, so nil dependencies are fine
// here; no request is ever dispatched.
func TestRegisterRoutes_MountsUnderAPIPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("")

	handler.NewItemHandler(nil, nil).RegisterRoutes(api)
	handler.NewPlaceHandler(nil).RegisterRoutes(api)
	handler.NewReceivingHandler(nil).RegisterRoutes(api)
	handler.NewIssueHandler(nil).RegisterRoutes(api)
	handler.NewMovementHandler(nil).RegisterRoutes(api)
	handler.NewDashboardHandler(nil).RegisterRoutes(api)
	handler.NewUserHandler(nil).RegisterRoutes(api)

	registered := make(map[string]bool)
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	want := []string{
		"GET /api/items",
		"POST /api/items",
		"GET /api/places",
		"GET /api/stock",
		"POST /api/receivings",
		"POST /api/receivings/:id/approve",
		"POST /api/issues",
		"POST /api/issues/:id/close",
		"GET /api/movements",
		"GET /api/dashboard",
		// Auth routes stay at the root, outside the /api group.
		"POST /login",
		"POST /refresh",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("route %s not registered", route)
		}
	}
}
