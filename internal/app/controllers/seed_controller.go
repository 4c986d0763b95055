package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unimanage/internal/middleware"
	"github.com/yigit/unimanage/internal/seed"
)

// DataSeeder replaces the database contents with generated data
type DataSeeder interface {
	Seed(ctx context.Context) (*seed.Summary, error)
}

// SeedController exposes seeding over HTTP
type SeedController struct {
	seeder DataSeeder
}

// NewSeedController creates a new SeedController
func NewSeedController(seeder DataSeeder) *SeedController {
	return &SeedController{seeder: seeder}
}

// Seed wipes every table and loads generated departments, courses, lecturers and students
// @Summary Seed the database
// @Description Deletes all data, including the caller's profile, and loads generated data plus the configured admin
// @Tags seed
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.APIResponse{data=seed.Summary} "Database seeded"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /seed [post]
func (c *SeedController) Seed(ctx *gin.Context) {
	summary, err := c.seeder.Seed(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, summary)
}
