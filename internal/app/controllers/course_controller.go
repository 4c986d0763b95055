package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unimanage/internal/app/models/dto"
	"github.com/yigit/unimanage/internal/app/services"
	"github.com/yigit/unimanage/internal/middleware"
)

// CourseController handles course endpoints
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// Create adds a course
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, course)
}

// FindAll lists courses
// @Summary List courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring of title or description"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses"
// @Router /courses [get]
func (c *CourseController) FindAll(ctx *gin.Context) {
	var filter dto.CourseFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	courses, err := c.courseService.FindAll(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, courses)
}

// FindOne returns a course
// @Summary Get a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) FindOne(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.FindOne(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, course)
}

// Update patches a course
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Updated course"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course or department not found"
// @Router /courses/{id} [patch]
func (c *CourseController) Update(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, course)
}

// Remove deletes a course
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Course deleted"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) Remove(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.Remove(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("Course with ID %d deleted", id)})
}

// GetEnrolledStudents lists the students of a course
// @Summary List enrolled students
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/students [get]
func (c *CourseController) GetEnrolledStudents(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	students, err := c.courseService.GetEnrolledStudents(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, students)
}

// EnrollStudent adds a student to the course
// @Summary Enroll a student
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course with students"
// @Failure 404 {object} dto.ErrorResponse "Course or student not found"
// @Router /courses/{id}/students/{studentId} [post]
func (c *CourseController) EnrollStudent(ctx *gin.Context) {
	id, studentID, ok := parseCourseAndStudent(ctx)
	if !ok {
		return
	}

	course, err := c.courseService.EnrollStudent(ctx.Request.Context(), id, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, course)
}

// UnenrollStudent removes a student from the course
// @Summary Unenroll a student
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course with remaining students"
// @Failure 404 {object} dto.ErrorResponse "Course or student not found, or not enrolled"
// @Router /courses/{id}/students/{studentId} [delete]
func (c *CourseController) UnenrollStudent(ctx *gin.Context) {
	id, studentID, ok := parseCourseAndStudent(ctx)
	if !ok {
		return
	}

	course, err := c.courseService.UnenrollStudent(ctx.Request.Context(), id, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, course)
}

func parseCourseAndStudent(ctx *gin.Context) (int64, int64, bool) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return 0, 0, false
	}
	studentID, ok := middleware.ParseIDParam(ctx, "studentId")
	if !ok {
		return 0, 0, false
	}
	return id, studentID, true
}
