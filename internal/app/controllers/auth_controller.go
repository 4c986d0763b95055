package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/unimanage/internal/app/models/dto"
	"github.com/yigit/unimanage/internal/app/services"
	"github.com/yigit/unimanage/internal/middleware"
	"github.com/yigit/unimanage/internal/pkg/auth"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// SignIn handles user login
// @Summary Sign in
// @Description Authenticates a profile and returns an access token and a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Signed in"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/signin [post]
func (c *AuthController) SignIn(ctx *gin.Context) {
	var req dto.SignInRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Debug().Msg("Invalid sign in payload")
		return
	}

	resp, err := c.authService.SignIn(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, resp)
}

// SignOut revokes every refresh token of a profile
// @Summary Sign out
// @Description Revokes all refresh tokens of the profile. Allowed for the owner and admins.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Signed out"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /auth/signout/{id} [get]
func (c *AuthController) SignOut(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.authService.SignOut(ctx.Request.Context(), middleware.CurrentProfile(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("Profile with ID %d signed out", id)})
}

// Refresh rotates a refresh token
// @Summary Refresh tokens
// @Description Exchanges the refresh token sent as Bearer credentials for a new token pair. The presented token is revoked; presenting it again revokes every token of the profile.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Param id query int true "Profile ID the refresh token was issued to"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "New token pair"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid id"
// @Failure 401 {object} dto.ErrorResponse "Invalid, expired or revoked refresh token"
// @Router /auth/refresh [get]
func (c *AuthController) Refresh(ctx *gin.Context) {
	id, ok := middleware.ParseIDQuery(ctx, "id")
	if !ok {
		return
	}

	refreshToken, err := auth.ExtractBearerToken(ctx.GetHeader("Authorization"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	tokens, err := c.authService.Refresh(ctx.Request.Context(), id, refreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, tokens)
}
