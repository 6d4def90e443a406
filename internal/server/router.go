// Package server wires handlers, middleware and operational endpoints into
// a gin engine.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "weddingbudget/internal/docs" // Import swagger docs
	"weddingbudget/internal/handlers"
	"weddingbudget/internal/metrics"
	"weddingbudget/internal/middleware"
	"weddingbudget/internal/services"
)

// Dependencies are the services and collectors the router serves.
type Dependencies struct {
	UserService   services.UserServicer
	BudgetService services.BudgetServicer
	AuditService  services.AuditServicer
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	MetricsAPIKey string
}

// NewRouter builds the HTTP routes.
func NewRouter(deps Dependencies) *gin.Engine {
	authHandler := handlers.NewAuthHandler(deps.UserService, deps.AuditService)
	budgetHandler := handlers.NewBudgetHandler(deps.BudgetService, deps.AuditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	if deps.Metrics != nil {
		router.Use(middleware.RequestMetrics(deps.Metrics))
	}
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Gatherer != nil {
		router.GET("/metrics",
			middleware.APIKeyMiddleware(deps.MetricsAPIKey),
			gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})),
		)
	}

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	budget := v1.Group("/budget")
	budget.GET("/options", budgetHandler.GetOptions)
	budget.POST("/steps/:step", budgetHandler.ValidateStep)
	// Anonymous calculations are not stored
	budget.POST("/calculate", middleware.OptionalAuthMiddleware(), budgetHandler.Calculate)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	calculations := protected.Group("/budget")
	calculations.GET("/calculations", budgetHandler.ListCalculations)
	calculations.GET("/calculations/:id", budgetHandler.GetCalculation)
	calculations.DELETE("/calculations/:id", budgetHandler.DeleteCalculation)

	return router
}
