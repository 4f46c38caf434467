package router

import (
	"github.com/gin-gonic/gin"
	"github.com/surdiana/userhub/config"
	"github.com/surdiana/userhub/internal/handler"
	"github.com/surdiana/userhub/internal/middleware"
)

type Router struct {
	authHandler   *handler.AuthHandler
	userHandler   *handler.UserHandler
	healthHandler *handler.HealthHandler

	rateLimiter *middleware.RateLimiter
	cfg         *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	health *handler.HealthHandler,
	rateLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		userHandler:   user,
		healthHandler: health,
		rateLimiter:   rateLimiter,
		cfg:           cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if !r.cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS())

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)
		api.StaticFile("/openapi.yaml", "docs/openapi.yaml")

		v1 := api.Group("/v1")
		{
			r.userRoutes(v1)
		}
	}

	return router
}
