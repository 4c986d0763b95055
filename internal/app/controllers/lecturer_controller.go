package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unimanage/internal/app/models/dto"
	"github.com/yigit/unimanage/internal/app/services"
	"github.com/yigit/unimanage/internal/middleware"
)

// LecturerController handles lecturer endpoints
type LecturerController struct {
	lecturerService services.LecturerService
}

// NewLecturerController creates a new LecturerController
func NewLecturerController(lecturerService services.LecturerService) *LecturerController {
	return &LecturerController{lecturerService: lecturerService}
}

// Create registers a lecturer record for an existing profile
// @Summary Create a lecturer
// @Tags lecturers
// @Accept json
// @Produce json
// @Param request body dto.CreateLecturerRequest true "Lecturer information"
// @Success 201 {object} dto.APIResponse{data=models.Lecturer} "Lecturer created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Failure 409 {object} dto.ErrorResponse "Employee ID or profile already used"
// @Router /lecturer [post]
func (c *LecturerController) Create(ctx *gin.Context) {
	var req dto.CreateLecturerRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lecturer, err := c.lecturerService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, lecturer)
}

// FindAll lists lecturers
// @Summary List lecturers
// @Tags lecturers
// @Produce json
// @Security BearerAuth
// @Param name query string false "Substring of first or last name"
// @Success 200 {object} dto.APIResponse{data=[]models.Lecturer} "Lecturers"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /lecturer [get]
func (c *LecturerController) FindAll(ctx *gin.Context) {
	var filter dto.NameFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	lecturers, err := c.lecturerService.FindAll(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, lecturers)
}

// FindOne returns a lecturer
// @Summary Get a lecturer
// @Tags lecturers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecturer ID"
// @Success 200 {object} dto.APIResponse{data=models.Lecturer} "Lecturer"
// @Failure 404 {object} dto.ErrorResponse "Lecturer not found"
// @Router /lecturer/{id} [get]
func (c *LecturerController) FindOne(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	lecturer, err := c.lecturerService.FindOne(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, lecturer)
}

// Update patches a lecturer
// @Summary Update a lecturer
// @Tags lecturers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecturer ID"
// @Param request body dto.UpdateLecturerRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Lecturer} "Updated lecturer"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Lecturer not found"
// @Failure 409 {object} dto.ErrorResponse "Employee ID already used"
// @Router /lecturer/{id} [patch]
func (c *LecturerController) Update(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLecturerRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lecturer, err := c.lecturerService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, lecturer)
}

// Remove deletes a lecturer
// @Summary Delete a lecturer
// @Tags lecturers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecturer ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Lecturer deleted"
// @Failure 404 {object} dto.ErrorResponse "Lecturer not found"
// @Router /lecturer/{id} [delete]
func (c *LecturerController) Remove(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.lecturerService.Remove(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("Lecturer with ID %d deleted", id)})
}

// GetCourses lists the courses a lecturer teaches
// @Summary List a lecturer's courses
// @Tags lecturers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecturer ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses"
// @Failure 404 {object} dto.ErrorResponse "Lecturer not found"
// @Router /lecturer/{id}/courses [get]
func (c *LecturerController) GetCourses(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	courses, err := c.lecturerService.GetCourses(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, courses)
}

// AssignCourse assigns a course to the lecturer
// @Summary Assign a course to a lecturer
// @Tags lecturers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecturer ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Lecturer} "Lecturer with courses"
// @Failure 404 {object} dto.ErrorResponse "Lecturer or course not found"
// @Router /lecturer/{id}/courses/{courseId} [post]
func (c *LecturerController) AssignCourse(ctx *gin.Context) {
	id, courseID, ok := parseOwnerAndCourse(ctx)
	if !ok {
		return
	}

	lecturer, err := c.lecturerService.AssignCourse(ctx.Request.Context(), id, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, lecturer)
}

// UnassignCourse removes a course from the lecturer
// @Summary Unassign a course from a lecturer
// @Tags lecturers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecturer ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Lecturer} "Lecturer with remaining courses"
// @Failure 404 {object} dto.ErrorResponse "Lecturer not found or course not assigned"
// @Router /lecturer/{id}/courses/{courseId} [delete]
func (c *LecturerController) UnassignCourse(ctx *gin.Context) {
	id, courseID, ok := parseOwnerAndCourse(ctx)
	if !ok {
		return
	}

	lecturer, err := c.lecturerService.UnassignCourse(ctx.Request.Context(), id, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, lecturer)
}

// ReplaceCourses replaces the lecturer's course set
// @Summary Replace a lecturer's courses
// @Tags lecturers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecturer ID"
// @Param request body []int64 true "Course IDs"
// @Success 200 {object} dto.APIResponse{data=models.Lecturer} "Lecturer with courses"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Lecturer or some courses not found"
// @Router /lecturer/{id}/courses [patch]
func (c *LecturerController) ReplaceCourses(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	courseIDs, ok := bindCourseIDs(ctx)
	if !ok {
		return
	}

	lecturer, err := c.lecturerService.ReplaceCourses(ctx.Request.Context(), id, courseIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, lecturer)
}
