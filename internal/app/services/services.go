package services

import (
	"github.com/rs/zerolog"
	authz "github.com/yigit/unimanage/internal/app/auth"
	"github.com/yigit/unimanage/internal/app/repositories"
	"github.com/yigit/unimanage/internal/pkg/auth"
	"github.com/yigit/unimanage/internal/pkg/logger"
	"github.com/yigit/unimanage/internal/pkg/metrics"
)

// Services holds every application service
type Services struct {
	ProfileService    ProfileService
	StudentService    StudentService
	LecturerService   LecturerService
	CourseService     CourseService
	DepartmentService DepartmentService
	AuthService       AuthService
}

// NewServices wires the services onto repos. m may be nil.
func NewServices(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	abilities *authz.AbilityFactory,
	m *metrics.Metrics,
) *Services {
	return &Services{
		ProfileService: NewProfileService(repos.ProfileRepository, component("profile")),
		StudentService: NewStudentService(
			repos.StudentRepository, repos.ProfileRepository, repos.DepartmentRepository, repos.CourseRepository,
			component("student"),
		),
		LecturerService: NewLecturerService(
			repos.LecturerRepository, repos.ProfileRepository, repos.CourseRepository,
			component("lecturer"),
		),
		CourseService: NewCourseService(
			repos.CourseRepository, repos.DepartmentRepository, repos.StudentRepository,
			component("course"),
		),
		DepartmentService: NewDepartmentService(repos.DepartmentRepository, component("department")),
		AuthService: NewAuthService(
			repos.ProfileRepository, repos.TokenRepository, jwtService, abilities, m,
			component("auth"),
		),
	}
}

func component(name string) zerolog.Logger {
	return logger.WithComponent(name + "-service")
}
