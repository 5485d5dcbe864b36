package routes

import (
	"civicsync-triage/middlewares"
	"civicsync-triage/models"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the citizen, public and per-issue routes
func IssueRoutes(r *gin.Engine, d Deps) {
	requireAuth := middlewares.AuthMiddleware(d.JWTSecret)

	citizen := r.Group("/api/citizen")
	{
		citizen.GET("/public/issues", d.Issues.GetPublicIssues)

		create := []gin.HandlerFunc{requireAuth, middlewares.RequireRole(models.RoleCitizen)}
		if d.IssueLimiter != nil {
			create = append(create, d.IssueLimiter)
		}
		citizen.POST("/issues", append(create, d.Issues.CreateIssue)...)
		citizen.GET("/issues", requireAuth, d.Issues.GetMyIssues)
	}

	issue := r.Group("/api/issues/:id")
	{
		issue.GET("", middlewares.OptionalAuth(d.JWTSecret), d.Issues.GetIssue)
		issue.POST("/vote", requireAuth, d.Issues.VoteOnIssue)
		issue.GET("/comments", d.Issues.GetComments)
		issue.POST("/comments", requireAuth, d.Issues.AddComment)
	}
}
