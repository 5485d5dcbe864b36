package controllers

import (
	"civicsync-triage/models"

	"github.com/gin-gonic/gin"
)

// CreateAdmin lets a super admin add another administrator.
func (ac *AuthController) CreateAdmin(c *gin.Context) {
	ac.register(c, ac.auth.CreateAdmin)
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":        user.ID.Hex(),
		"name":      user.Name,
		"email":     user.Email,
		"phone":     user.Phone,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	}
}
