package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	authz "github.com/yigit/unimanage/internal/app/auth"
	"github.com/yigit/unimanage/internal/app/models/dto"
	"github.com/yigit/unimanage/internal/app/services"
	"github.com/yigit/unimanage/internal/middleware"
)

// StudentController handles student endpoints
type StudentController struct {
	studentService services.StudentService
	ownership      OwnershipChecker
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, ownership OwnershipChecker) *StudentController {
	return &StudentController{
		studentService: studentService,
		ownership:      ownership,
	}
}

// ownedStudentID parses :id and checks the requester may perform action on it
func (c *StudentController) ownedStudentID(ctx *gin.Context, action authz.Action) (int64, bool) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return 0, false
	}
	if err := c.ownership.CheckOwnership(ctx.Request.Context(), middleware.CurrentProfile(ctx), authz.SubjectStudent, action, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return 0, false
	}
	return id, true
}

// Create registers a student record for an existing profile
// @Summary Create a student
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Profile or department not found"
// @Failure 409 {object} dto.ErrorResponse "Profile already has a student record"
// @Router /students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, student)
}

// FindAll lists students
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param name query string false "Substring of first or last name"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /students [get]
func (c *StudentController) FindAll(ctx *gin.Context) {
	var filter dto.NameFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	students, err := c.studentService.FindAll(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, students)
}

// FindOne returns a student
// @Summary Get a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) FindOne(ctx *gin.Context) {
	id, ok := c.ownedStudentID(ctx, authz.ActionRead)
	if !ok {
		return
	}

	student, err := c.studentService.FindOne(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, student)
}

// Update patches a student
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Updated student"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [patch]
func (c *StudentController) Update(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	id, ok := c.ownedStudentID(ctx, authz.ActionUpdate)
	if !ok {
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, student)
}

// Remove deletes a student
// @Summary Delete a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Student deleted"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) Remove(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.Remove(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("Student with ID %d deleted", id)})
}

// GetCourses lists the courses a student is enrolled in
// @Summary List a student's courses
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/courses [get]
func (c *StudentController) GetCourses(ctx *gin.Context) {
	id, ok := c.ownedStudentID(ctx, authz.ActionRead)
	if !ok {
		return
	}

	courses, err := c.studentService.GetCourses(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, courses)
}

// AssignCourse enrolls the student in a course. Enrolling twice is a no-op.
// @Summary Assign a course to a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student with courses"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Router /students/{id}/courses/{courseId} [post]
func (c *StudentController) AssignCourse(ctx *gin.Context) {
	id, ok := c.ownedStudentID(ctx, authz.ActionUpdate)
	if !ok {
		return
	}
	courseID, ok := middleware.ParseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	student, err := c.studentService.AssignCourse(ctx.Request.Context(), id, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, student)
}

// UnassignCourse removes a course from the student
// @Summary Unassign a course from a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student with remaining courses"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found or course not assigned"
// @Router /students/{id}/courses/{courseId} [delete]
func (c *StudentController) UnassignCourse(ctx *gin.Context) {
	id, ok := c.ownedStudentID(ctx, authz.ActionUpdate)
	if !ok {
		return
	}
	courseID, ok := middleware.ParseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	student, err := c.studentService.UnassignCourse(ctx.Request.Context(), id, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, student)
}

// ReplaceCourses replaces the student's course set with the ids in the body
// @Summary Replace a student's courses
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body []int64 true "Course IDs"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student with courses"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student or some courses not found"
// @Router /students/{id}/courses [patch]
func (c *StudentController) ReplaceCourses(ctx *gin.Context) {
	id, ok := c.ownedStudentID(ctx, authz.ActionUpdate)
	if !ok {
		return
	}
	courseIDs, ok := bindCourseIDs(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.ReplaceCourses(ctx.Request.Context(), id, courseIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, student)
}
