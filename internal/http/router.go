package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/voluntra/voluntra-auth/internal/config"
	"github.com/voluntra/voluntra-auth/internal/http/handler"
	"github.com/voluntra/voluntra-auth/internal/http/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, authHandler *handler.AuthHandler, authMiddleware *middleware.Auth) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(nil))
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	authGroup := r.Group("/auth")
	{
		register := authGroup.Group("/register")
		{
			register.POST("/volunteer", authHandler.RegisterVolunteer)
			register.POST("/organization", authHandler.RegisterOrganization)
		}

		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", authMiddleware.ValidateJWT, authHandler.Me)
		authGroup.PUT("/password", authMiddleware.ValidateJWT, authHandler.ChangePassword)
	}

	r.GET("/accounts/:id", authHandler.Lookup)

	return r
}
