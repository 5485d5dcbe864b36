package controllers

import (
	"context"
	"net/http"
	"time"

	"civicsync-triage/middlewares"
	"civicsync-triage/models"
	"civicsync-triage/services"
	authUtils "civicsync-triage/utils"

	"github.com/gin-gonic/gin"
)

// CookieSettings controls the auth cookie written on login.
type CookieSettings struct {
	Domain     string
	Production bool
}

// AuthController serves account endpoints.
type AuthController struct {
	auth     *services.AuthService
	secret   string
	tokenTTL time.Duration
	cookie   CookieSettings
}

func NewAuthController(auth *services.AuthService, secret string, tokenTTL time.Duration, cookie CookieSettings) *AuthController {
	return &AuthController{auth: auth, secret: secret, tokenTTL: tokenTTL, cookie: cookie}
}

type registerInput struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterUser handles citizen registration
func (ac *AuthController) RegisterUser(c *gin.Context) {
	ac.register(c, ac.auth.Register)
}

func (ac *AuthController) register(c *gin.Context, create func(context.Context, services.RegisterInput) (*models.User, error)) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := create(ctx, services.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
	})
	if err != nil {
		respondError(c, err, "Something went wrong")
		return
	}
	c.JSON(http.StatusCreated, userResponse(user))
}

// LoginUser handles user login
func (ac *AuthController) LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := ac.auth.Login(ctx, input.Email, input.Password)
	if err != nil {
		respondError(c, err, "Something went wrong")
		return
	}

	token, err := authUtils.GenerateToken(ac.secret, authUtils.Claims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
	}, ac.tokenTTL)
	if err != nil {
		respondError(c, err, "Something went wrong")
		return
	}

	// Cross-origin cookies in production must not pin a domain.
	domain := ac.cookie.Domain
	if ac.cookie.Production {
		domain = ""
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AuthCookie,
		Value:    token,
		MaxAge:   int(ac.tokenTTL.Seconds()),
		Path:     "/",
		Domain:   domain,
		Secure:   ac.cookie.Production,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	resp := userResponse(user)
	resp["token"] = token
	c.JSON(http.StatusOK, resp)
}

// GetMe retrieves the authenticated user's information
func (ac *AuthController) GetMe(c *gin.Context) {
	identity, ok := middlewares.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := ac.auth.Me(ctx, identity.UserID)
	if err != nil {
		respondError(c, err, "Something went wrong")
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// LogoutUser clears the auth cookie
func (ac *AuthController) LogoutUser(c *gin.Context) {
	c.SetCookie(middlewares.AuthCookie, "", -1, "/", ac.cookie.Domain, ac.cookie.Production, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
