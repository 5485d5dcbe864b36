package routes

import (
	"civicsync-triage/middlewares"
	"civicsync-triage/models"

	"github.com/gin-gonic/gin"
)

// UserRoutes sets up the admin triage and account management routes
func UserRoutes(r *gin.Engine, d Deps) {
	admin := r.Group("/api/admin",
		middlewares.AuthMiddleware(d.JWTSecret),
		middlewares.RequireTriage(),
	)
	{
		admin.GET("/issues", d.Issues.GetAllIssues)
		admin.PATCH("/issues/:id", d.Issues.UpdateIssue)
		admin.POST("/admins", middlewares.RequireRole(models.RoleSuperAdmin), d.Auth.CreateAdmin)
	}
}
