package main

import (
	"log"
	"os"
	"strings"

	_ "github.com/Ashutoshverma77/store-app-be/api/swagger" // swagger docs
	"github.com/Ashutoshverma77/store-app-be/internal/database"
	"github.com/Ashutoshverma77/store-app-be/internal/handler"
	"github.com/Ashutoshverma77/store-app-be/internal/middleware"
	"github.com/Ashutoshverma77/store-app-be/internal/repository"
	"github.com/Ashutoshverma77/store-app-be/internal/service"
	"github.com/Ashutoshverma77/store-app-be/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Store Inventory API
// @version         1.0
// @description     Warehouse inventory backend: receiving and issue document workflows over stock counters with a full movement log.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	itemRepo := repository.NewItemRepository(db)
	placeRepo := repository.NewPlaceRepository(db)
	placeQuantityRepo := repository.NewPlaceQuantityRepository(db)
	receivingRepo := repository.NewReceivingRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	userService := service.NewUserService(userRepo, refreshTokenRepo)
	itemService := service.NewItemService(itemRepo, placeQuantityRepo, placeRepo, movementRepo, userRepo, txManager, wsHub)
	placeService := service.NewPlaceService(placeRepo, placeQuantityRepo, userRepo, wsHub)
	receivingService := service.NewReceivingService(receivingRepo, itemRepo, placeRepo, placeQuantityRepo, movementRepo, userRepo, txManager, wsHub)
	issueService := service.NewIssueService(issueRepo, itemRepo, placeRepo, placeQuantityRepo, movementRepo, userRepo, txManager, wsHub)
	movementService := service.NewMovementService(movementRepo)
	dashboardService := service.NewDashboardService(dashboardRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	itemHandler := handler.NewItemHandler(itemService, placeService)
	placeHandler := handler.NewPlaceHandler(placeService)
	receivingHandler := handler.NewReceivingHandler(receivingService)
	issueHandler := handler.NewIssueHandler(issueService)
	movementHandler := handler.NewMovementHandler(movementService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = corsOrigins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	api := router.Group("")
	userHandler.RegisterRoutes(api)
	itemHandler.RegisterRoutes(api)
	placeHandler.RegisterRoutes(api)
	receivingHandler.RegisterRoutes(api)
	issueHandler.RegisterRoutes(api)
	movementHandler.RegisterRoutes(api)
	dashboardHandler.RegisterRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// corsOrigins reads CORS_ORIGINS as a comma separated list, defaulting to the local dev frontend.
func corsOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
