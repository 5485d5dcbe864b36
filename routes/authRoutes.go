package routes

import (
	"civicsync-triage/middlewares"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, d Deps) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", d.Auth.RegisterUser)
		auth.POST("/login", d.Auth.LoginUser)
		auth.GET("/me", middlewares.AuthMiddleware(d.JWTSecret), d.Auth.GetMe)
		auth.POST("/logout", d.Auth.LogoutUser)
	}
}
