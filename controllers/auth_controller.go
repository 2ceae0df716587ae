package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cardtavern/storefront/common/errors"
	"github.com/cardtavern/storefront/services"
)

// AuthController handles HTTP requests for registration and login.
type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{authService: svc}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register handles POST /auth/register
func (ac *AuthController) Register(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	user, token, err := ac.authService.Register(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login handles POST /auth/login
func (ac *AuthController) Login(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	user, token, err := ac.authService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}
