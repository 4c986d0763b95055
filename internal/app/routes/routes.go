package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	authz "github.com/yigit/unimanage/internal/app/auth"
	"github.com/yigit/unimanage/internal/app/controllers"
	"github.com/yigit/unimanage/internal/middleware"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth       *controllers.AuthController
	Profile    *controllers.ProfileController
	Student    *controllers.StudentController
	Lecturer   *controllers.LecturerController
	Course     *controllers.CourseController
	Department *controllers.DepartmentController
	Seed       *controllers.SeedController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	handlers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	guard *middleware.PolicyGuard,
) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	// --- Public routes ---
	v1.POST("/profiles", handlers.Profile.Create)
	v1.POST("/students", handlers.Student.Create)
	v1.POST("/lecturer", handlers.Lecturer.Create)

	auth := v1.Group("/auth")
	{
		auth.POST("/signin", handlers.Auth.SignIn)
		// authenticated by the refresh token itself
		auth.GET("/refresh", handlers.Auth.Refresh)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/signout/:id", handlers.Auth.SignOut)

	read := func(subject authz.Subject) gin.HandlerFunc {
		return guard.CheckPolicies(authz.ReadPolicy(subject))
	}
	create := func(subject authz.Subject) gin.HandlerFunc {
		return guard.CheckPolicies(authz.CreatePolicy(subject))
	}
	update := func(subject authz.Subject) gin.HandlerFunc {
		return guard.CheckPolicies(authz.UpdatePolicy(subject))
	}
	remove := func(subject authz.Subject) gin.HandlerFunc {
		return guard.CheckPolicies(authz.DeletePolicy(subject))
	}

	profiles := authenticated.Group("/profiles")
	{
		profiles.GET("", read(authz.SubjectProfile), handlers.Profile.FindAll)
		profiles.GET("/:id", read(authz.SubjectProfile), handlers.Profile.FindOne)
		profiles.PATCH("/:id", update(authz.SubjectProfile), handlers.Profile.Update)
		profiles.DELETE("/:id", remove(authz.SubjectProfile), handlers.Profile.Remove)
	}

	students := authenticated.Group("/students")
	{
		students.GET("", read(authz.SubjectStudent), handlers.Student.FindAll)
		students.GET("/:id", read(authz.SubjectStudent), handlers.Student.FindOne)
		students.PATCH("/:id", update(authz.SubjectStudent), handlers.Student.Update)
		students.DELETE("/:id", remove(authz.SubjectStudent), handlers.Student.Remove)
		students.GET("/:id/courses", read(authz.SubjectStudent), handlers.Student.GetCourses)
		students.PATCH("/:id/courses", update(authz.SubjectStudent), handlers.Student.ReplaceCourses)
		students.POST("/:id/courses/:courseId", update(authz.SubjectStudent), handlers.Student.AssignCourse)
		students.DELETE("/:id/courses/:courseId", update(authz.SubjectStudent), handlers.Student.UnassignCourse)
	}

	lecturers := authenticated.Group("/lecturer")
	{
		lecturers.GET("", read(authz.SubjectLecturer), handlers.Lecturer.FindAll)
		lecturers.GET("/:id", read(authz.SubjectLecturer), handlers.Lecturer.FindOne)
		lecturers.PATCH("/:id", update(authz.SubjectLecturer), handlers.Lecturer.Update)
		lecturers.DELETE("/:id", remove(authz.SubjectLecturer), handlers.Lecturer.Remove)
		lecturers.GET("/:id/courses", read(authz.SubjectLecturer), handlers.Lecturer.GetCourses)
		lecturers.PATCH("/:id/courses", update(authz.SubjectLecturer), handlers.Lecturer.ReplaceCourses)
		lecturers.POST("/:id/courses/:courseId", update(authz.SubjectLecturer), handlers.Lecturer.AssignCourse)
		lecturers.DELETE("/:id/courses/:courseId", update(authz.SubjectLecturer), handlers.Lecturer.UnassignCourse)
	}

	courses := authenticated.Group("/courses")
	{
		courses.POST("", create(authz.SubjectCourse), handlers.Course.Create)
		courses.GET("", read(authz.SubjectCourse), handlers.Course.FindAll)
		courses.GET("/:id", read(authz.SubjectCourse), handlers.Course.FindOne)
		courses.PATCH("/:id", update(authz.SubjectCourse), handlers.Course.Update)
		courses.DELETE("/:id", remove(authz.SubjectCourse), handlers.Course.Remove)
		courses.GET("/:id/students", read(authz.SubjectCourse), handlers.Course.GetEnrolledStudents)
		courses.POST("/:id/students/:studentId", update(authz.SubjectCourse), handlers.Course.EnrollStudent)
		courses.DELETE("/:id/students/:studentId", update(authz.SubjectCourse), handlers.Course.UnenrollStudent)
	}

	departments := authenticated.Group("/departments")
	{
		departments.POST("", create(authz.SubjectDepartment), handlers.Department.Create)
		departments.GET("", read(authz.SubjectDepartment), handlers.Department.FindAll)
		departments.GET("/:id", read(authz.SubjectDepartment), handlers.Department.FindOne)
		departments.PATCH("/:id", update(authz.SubjectDepartment), handlers.Department.Update)
		departments.DELETE("/:id", remove(authz.SubjectDepartment), handlers.Department.Remove)
	}

	authenticated.POST("/seed", guard.CheckPolicies(authz.ManagePolicy(authz.SubjectAll)), handlers.Seed.Seed)
}
