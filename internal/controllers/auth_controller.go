package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"slice-url/internal/models"
	"slice-url/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
	logger      *slog.Logger
}

func NewAuthController(authService service.AuthService, logger *slog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles POST /auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	user, err := ac.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}

	respond(c, http.StatusCreated, "User registered successfully", gin.H{"user": user})
}

// ConfirmAccount handles GET /auth/confirm-account?username=&token=
func (ac *AuthController) ConfirmAccount(c *gin.Context) {
	err := ac.authService.ConfirmAccount(c.Request.Context(), c.Query("username"), c.Query("token"))
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}

	respond(c, http.StatusOK, "Account confirmed successfully", nil)
}

// Login handles POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	response, err := ac.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}

	respond(c, http.StatusOK, "Login successful", gin.H{"user": response})
}

// SocialAuth handles POST /auth/social
func (ac *AuthController) SocialAuth(c *gin.Context) {
	var req models.SocialAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	response, err := ac.authService.SocialAuth(c.Request.Context(), req.AccessToken)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}

	respond(c, http.StatusOK, fmt.Sprintf("Login successful using %s", response.AuthType), gin.H{"user": response})
}

// ChangePassword handles PUT /auth/change-password
func (ac *AuthController) ChangePassword(c *gin.Context) {
	userID, ok := callerID(c, ac.logger)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	if err := ac.authService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		respondError(c, ac.logger, err)
		return
	}

	respond(c, http.StatusOK, "Password updated successfully", nil)
}

// UpdateAccount handles PATCH /users/update-account
func (ac *AuthController) UpdateAccount(c *gin.Context) {
	userID, ok := callerID(c, ac.logger)
	if !ok {
		return
	}

	var req models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	user, err := ac.authService.UpdateAccount(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}

	respond(c, http.StatusOK, "Account updated successfully", gin.H{"user": user})
}

// GetUser handles GET /users/:userId
func (ac *AuthController) GetUser(c *gin.Context) {
	userID, ok := callerID(c, ac.logger)
	if !ok {
		return
	}

	user, err := ac.authService.GetUser(c.Request.Context(), userID, c.Param("userId"))
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}

	respond(c, http.StatusOK, "User retrieved successfully", gin.H{"user": user})
}
