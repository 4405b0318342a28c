package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/legacy-vault-api/internal/config"
	"github.com/legacy-vault-api/internal/models"
	"github.com/legacy-vault-api/internal/service"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	authHandler := NewAuthHandler(services, log)
	vaultHandler := NewVaultHandler(services, log)
	dependentHandler := NewDependentHandler(services, log)
	accessHandler := NewAccessHandler(services, log)
	userHandler := NewUserHandler(services, log)

	authRequired := authMiddleware(services, cfg, log)

	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", healthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/activity", authRequired, authHandler.Heartbeat)
			auth.GET("/me", authRequired, authHandler.Me)
		}

		vault := api.Group("/vault", authRequired, authorize(models.RoleOwner))
		{
			vault.GET("", vaultHandler.ListEntries)
			vault.POST("", vaultHandler.CreateEntry)
			vault.GET("/export", vaultHandler.ExportEntries)
			vault.GET("/stats/summary", vaultHandler.StatsSummary)
			vault.GET("/category/:category", vaultHandler.ListEntriesByCategory)
			vault.GET("/:id", vaultHandler.GetEntry)
			vault.PUT("/:id", vaultHandler.UpdateEntry)
			vault.DELETE("/:id", vaultHandler.DeleteEntry)
		}

		dependents := api.Group("/dependents", authRequired)
		{
			dependents.GET("", authorize(models.RoleOwner), dependentHandler.ListForOwner)
			dependents.POST("", authorize(models.RoleOwner), dependentHandler.Add)
			dependents.GET("/owners", authorize(models.RoleDependent), dependentHandler.ListOwners)
			dependents.PUT("/:id", authorize(models.RoleOwner), dependentHandler.UpdatePermissions)
			dependents.DELETE("/:id", authorize(models.RoleOwner), dependentHandler.Remove)
		}

		access := api.Group("/access", authRequired)
		{
			access.POST("/request", authorize(models.RoleDependent), accessHandler.Submit)
			access.GET("/my-requests", authorize(models.RoleDependent), accessHandler.MyRequests)
			access.GET("/pending", authorize(models.RoleAdmin), accessHandler.ListPending)
			access.GET("/all", authorize(models.RoleAdmin), accessHandler.ListAll)
			access.POST("/:id/approve", authorize(models.RoleAdmin), accessHandler.Approve)
			access.POST("/:id/reject", authorize(models.RoleAdmin), accessHandler.Reject)
			access.GET("/vault/:ownerId", authorize(models.RoleDependent), accessHandler.ViewVault)
			access.GET("/logs", authorize(models.RoleOwner), accessHandler.AuditLogs)
		}

		users := api.Group("/users", authRequired)
		{
			users.GET("", authorize(models.RoleAdmin), userHandler.List)
			users.GET("/stats", authorize(models.RoleAdmin), userHandler.Stats)
			users.PUT("/settings", authorize(models.RoleOwner), userHandler.UpdateSettings)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "legacy-vault-api",
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
