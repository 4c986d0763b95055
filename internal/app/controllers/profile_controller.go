package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	authz "github.com/yigit/unimanage/internal/app/auth"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/app/models/dto"
	"github.com/yigit/unimanage/internal/app/services"
	"github.com/yigit/unimanage/internal/middleware"
)

// ProfileController handles profile endpoints
type ProfileController struct {
	profileService services.ProfileService
	ownership      OwnershipChecker
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService, ownership OwnershipChecker) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		ownership:      ownership,
	}
}

// Create registers a new profile
// @Summary Create a profile
// @Description Registers a new profile. The role defaults to GUEST; other roles require Manage on Profile.
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body dto.CreateProfileRequest true "Profile information"
// @Success 201 {object} dto.APIResponse{data=models.Profile} "Profile created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Role requires Manage on Profile"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profiles [post]
func (c *ProfileController) Create(ctx *gin.Context) {
	var req dto.CreateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	// signup is public, any role above GUEST needs Manage on Profile
	if role, ok := models.ParseRole(req.Role); ok && role != models.DefaultRole {
		if err := authz.CanChangeRole(middleware.CurrentAbility(ctx)); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	profile, err := c.profileService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, profile)
}

// FindAll lists profiles
// @Summary List profiles
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param email query string false "Exact email match"
// @Success 200 {object} dto.APIResponse{data=[]models.Profile} "Profiles"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /profiles [get]
func (c *ProfileController) FindAll(ctx *gin.Context) {
	var filter dto.ProfileFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	profiles, err := c.profileService.FindAll(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, profiles)
}

// FindOne returns a single profile. Only the owner, faculty and admins may read it.
// @Summary Get a profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Success 200 {object} dto.APIResponse{data=models.Profile} "Profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid profile ID"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /profiles/{id} [get]
func (c *ProfileController) FindOne(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.ownership.CheckOwnership(ctx.Request.Context(), middleware.CurrentProfile(ctx), authz.SubjectProfile, authz.ActionRead, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	profile, err := c.profileService.FindOne(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, profile)
}

// Update patches a profile. Changing the role needs Manage on Profile.
// @Summary Update a profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Profile} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /profiles/{id} [patch]
func (c *ProfileController) Update(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.ownership.CheckOwnership(ctx.Request.Context(), middleware.CurrentProfile(ctx), authz.SubjectProfile, authz.ActionUpdate, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if req.Role != nil {
		if err := authz.CanChangeRole(middleware.CurrentAbility(ctx)); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	profile, err := c.profileService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, profile)
}

// Remove deletes a profile and, by cascade, its student and lecturer records
// @Summary Delete a profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Profile deleted"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /profiles/{id} [delete]
func (c *ProfileController) Remove(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.profileService.Remove(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("Profile with ID %d deleted", id)})
}
