package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tilerun/territory-backend-go/internal/config"
	"github.com/tilerun/territory-backend-go/internal/database"
	"github.com/tilerun/territory-backend-go/internal/handler"
	"github.com/tilerun/territory-backend-go/internal/middleware"
	"github.com/tilerun/territory-backend-go/internal/repository"
	"github.com/tilerun/territory-backend-go/internal/service"
)

// SetupRouter wires repositories, services, and handlers onto a gin engine
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	db := database.GetDB()
	ownershipRepo := repository.NewOwnershipRepository(db)
	traceRepo := repository.NewTraceRepository(db)

	claimService := service.NewClaimService(ownershipRepo, traceRepo)
	territoryService := service.NewTerritoryService(ownershipRepo)

	activityHandler := handler.NewActivityHandler(claimService)
	territoryHandler := handler.NewTerritoryHandler(territoryService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Territory Backend API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		activities := api.Group("/activities")
		activities.Use(middleware.Auth(cfg.JWTSecret))
		activities.Use(middleware.RateLimit(cfg.SubmitRateLimit, cfg.SubmitRateWindow))
		{
			activities.POST("", activityHandler.Submit)
			activities.POST("/validate", activityHandler.Validate)
		}

		territory := api.Group("/territory")
		territory.Use(middleware.Auth(cfg.JWTSecret))
		{
			territory.GET("", territoryHandler.GetTiles)
			territory.GET("/summary", territoryHandler.GetSummary)
		}
	}

	return r
}
