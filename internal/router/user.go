package router

import (
	"github.com/gin-gonic/gin"
	"github.com/surdiana/userhub/internal/middleware"
)

func (r *Router) userRoutes(version *gin.RouterGroup) {
	// Registration is the only rate-limited endpoint
	version.POST("/user",
		middleware.RateLimit(r.rateLimiter, r.cfg.RateLimit.Request),
		r.authHandler.Register,
	)

	// Login issues the bearer token
	version.POST("/token", r.authHandler.Login)

	// Everything below requires a bearer token
	user := version.Group("/user")
	user.Use(middleware.BearerToken())
	{
		user.GET("", r.userHandler.Profile)
		user.PUT("", r.userHandler.UpdateProfile)
		user.PUT("/:id", r.userHandler.SetUserType)
	}
}
