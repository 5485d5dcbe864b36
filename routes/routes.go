package routes

import (
	"net/http"

	"civicsync-triage/controllers"

	"github.com/gin-gonic/gin"
)

// Deps are the handlers and middleware the route groups are built from.
type Deps struct {
	Auth      *controllers.AuthController
	Issues    *controllers.IssueController
	JWTSecret string
	// IssueLimiter guards issue creation. Nil means unlimited.
	IssueLimiter gin.HandlerFunc
}

// Register mounts every route group on r.
func Register(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	AuthRoutes(r, d)
	IssueRoutes(r, d)
	UserRoutes(r, d)
}
