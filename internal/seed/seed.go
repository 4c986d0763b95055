package seed

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/app/repositories"
	"github.com/yigit/unimanage/internal/db"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
	"github.com/yigit/unimanage/internal/pkg/auth"
)

const (
	departmentCount = 8
	courseCount     = 15
	lecturerCount   = 10
	studentCount    = 20

	defaultUserPassword = "ChangeMe123!"
)

var departmentNames = []string{
	"Computer Science",
	"Mathematics",
	"Physics",
	"Chemistry",
	"Biology",
	"Economics",
	"History",
	"Philosophy",
}

var courseTopics = []string{
	"Algorithms", "Databases", "Operating Systems", "Linear Algebra", "Calculus",
	"Quantum Mechanics", "Organic Chemistry", "Genetics", "Microeconomics",
	"Modern History", "Ethics", "Compilers", "Statistics", "Thermodynamics",
	"Computer Networks",
}

// Config controls the accounts the seeder creates
type Config struct {
	AdminEmail    string
	AdminPassword string
	// UserPassword is shared by every generated faculty and student profile
	UserPassword string
	// RandomSeed makes the generated data reproducible; 0 picks a random one
	RandomSeed uint64
}

// Summary reports what a seed run created
type Summary struct {
	Departments int   `json:"departments" example:"8"`
	Courses     int   `json:"courses" example:"15"`
	Lecturers   int   `json:"lecturers" example:"10"`
	Students    int   `json:"students" example:"20"`
	AdminID     int64 `json:"adminId" example:"31"`
}

// Seeder wipes the domain tables and fills them with generated data
type Seeder struct {
	db     db.Beginner
	config Config
	logger zerolog.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(database db.Beginner, config Config, logger zerolog.Logger) *Seeder {
	return &Seeder{
		db:     database,
		config: config,
		logger: logger,
	}
}

// Seed replaces all data in one transaction. Either everything is replaced or nothing changes.
func (s *Seeder) Seed(ctx context.Context) (*Summary, error) {
	if s.config.AdminEmail == "" || s.config.AdminPassword == "" {
		return nil, apperrors.NewValidationError("seed admin email and password must be configured")
	}

	userPassword := s.config.UserPassword
	if userPassword == "" {
		userPassword = defaultUserPassword
	}

	// one hash for every generated profile, bcrypt is slow
	userHash, err := auth.HashPassword(userPassword)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to hash seed password", err)
	}
	adminHash, err := auth.HashPassword(s.config.AdminPassword)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to hash admin password", err)
	}

	started := time.Now()
	summary := &Summary{}
	err = db.WithTransaction(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		run := &seedRun{
			repos:    repositories.NewRepositories(tx),
			faker:    gofakeit.New(s.config.RandomSeed),
			userHash: userHash,
			summary:  summary,
		}
		return run.populate(ctx, s.config.AdminEmail, adminHash)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Seeding failed, transaction rolled back")
		return nil, apperrors.NewStorageError("failed to seed database", err)
	}

	s.logger.Info().
		Int("departments", summary.Departments).
		Int("courses", summary.Courses).
		Int("lecturers", summary.Lecturers).
		Int("students", summary.Students).
		Dur("took", time.Since(started)).
		Msg("Database seeded")
	return summary, nil
}

type seedRun struct {
	repos    *repositories.Repositories
	faker    *gofakeit.Faker
	userHash string
	summary  *Summary
}

func (r *seedRun) populate(ctx context.Context, adminEmail, adminHash string) error {
	if err := r.repos.ClearAll(ctx); err != nil {
		return err
	}

	departmentIDs, err := r.createDepartments(ctx)
	if err != nil {
		return err
	}
	courseIDs, err := r.createCourses(ctx, departmentIDs)
	if err != nil {
		return err
	}
	if err := r.createLecturers(ctx, courseIDs); err != nil {
		return err
	}
	if err := r.createStudents(ctx, departmentIDs, courseIDs); err != nil {
		return err
	}

	admin := &models.Profile{
		FirstName: "System",
		LastName:  "Administrator",
		Email:     strings.ToLower(strings.TrimSpace(adminEmail)),
		Password:  adminHash,
		Role:      models.RoleAdmin,
	}
	if err := r.repos.ProfileRepository.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	r.summary.AdminID = admin.ID
	return nil
}

func (r *seedRun) createDepartments(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0, departmentCount)
	for _, name := range departmentNames[:departmentCount] {
		department := &models.Department{
			Name:             name,
			Description:      r.faker.Sentence(12),
			HeadOfDepartment: "Dr. " + r.faker.FirstName() + " " + r.faker.LastName(),
		}
		if err := r.repos.DepartmentRepository.Create(ctx, department); err != nil {
			return nil, fmt.Errorf("create department %q: %w", name, err)
		}
		ids = append(ids, department.ID)
	}
	r.summary.Departments = len(ids)
	return ids, nil
}

func (r *seedRun) createCourses(ctx context.Context, departmentIDs []int64) ([]int64, error) {
	termStart := time.Date(time.Now().Year(), time.September, 1, 0, 0, 0, 0, time.UTC)

	ids := make([]int64, 0, courseCount)
	for i := 0; i < courseCount; i++ {
		weeks := r.faker.Number(8, 16)
		start := termStart.AddDate(0, 0, 7*r.faker.Number(0, 4))
		departmentID := departmentIDs[i%len(departmentIDs)]

		course := &models.Course{
			Title:        courseTopics[i%len(courseTopics)],
			Description:  r.faker.Sentence(15),
			Credits:      r.faker.Number(2, 8),
			Duration:     fmt.Sprintf("%d weeks", weeks),
			StartDate:    start,
			EndDate:      start.AddDate(0, 0, 7*weeks),
			DepartmentID: &departmentID,
		}
		if err := r.repos.CourseRepository.Create(ctx, course); err != nil {
			return nil, fmt.Errorf("create course %q: %w", course.Title, err)
		}
		ids = append(ids, course.ID)
	}
	r.summary.Courses = len(ids)
	return ids, nil
}

func (r *seedRun) createProfile(ctx context.Context, role models.Role, n int) (*models.Profile, error) {
	first, last := r.faker.FirstName(), r.faker.LastName()
	profile := &models.Profile{
		FirstName: first,
		LastName:  last,
		// the counter keeps generated emails unique
		Email:    fmt.Sprintf("%s.%s.%s%d@unimanage.local", strings.ToLower(first), strings.ToLower(last), strings.ToLower(string(role)), n),
		Password: r.userHash,
		Role:     role,
	}
	if err := r.repos.ProfileRepository.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create %s profile: %w", strings.ToLower(string(role)), err)
	}
	return profile, nil
}

func (r *seedRun) createLecturers(ctx context.Context, courseIDs []int64) error {
	for i := 1; i <= lecturerCount; i++ {
		profile, err := r.createProfile(ctx, models.RoleFaculty, i)
		if err != nil {
			return err
		}

		office := fmt.Sprintf("%s-%d", r.faker.RandomString([]string{"A", "B", "C", "D"}), r.faker.Number(100, 450))
		phone := r.faker.Phone()
		bio := r.faker.Sentence(20)
		lecturer := &models.Lecturer{
			ProfileID:      profile.ID,
			EmployeeID:     fmt.Sprintf("EMP-%04d", i),
			Specialization: courseTopics[r.faker.Number(0, len(courseTopics)-1)],
			Bio:            &bio,
			OfficeLocation: &office,
			PhoneNumber:    &phone,
		}
		if err := r.repos.LecturerRepository.Create(ctx, lecturer); err != nil {
			return fmt.Errorf("create lecturer: %w", err)
		}

		courses := pickIDs(r.faker, courseIDs, r.faker.Number(2, 5))
		if err := r.repos.LecturerRepository.ReplaceCourses(ctx, lecturer.ID, courses); err != nil {
			return fmt.Errorf("assign lecturer courses: %w", err)
		}
	}
	r.summary.Lecturers = lecturerCount
	return nil
}

func (r *seedRun) createStudents(ctx context.Context, departmentIDs, courseIDs []int64) error {
	for i := 1; i <= studentCount; i++ {
		profile, err := r.createProfile(ctx, models.RoleStudent, i)
		if err != nil {
			return err
		}

		departmentID := departmentIDs[r.faker.Number(0, len(departmentIDs)-1)]
		program := departmentNames[r.faker.Number(0, len(departmentNames)-1)]
		gpa := math.Round(r.faker.Float64Range(2.0, 4.0)*100) / 100
		enrolled := time.Date(time.Now().Year()-r.faker.Number(0, 3), time.September, 1, 0, 0, 0, 0, time.UTC)

		student := &models.Student{
			ProfileID:      profile.ID,
			EnrollmentDate: enrolled,
			DegreeProgram:  &program,
			GPA:            &gpa,
			DepartmentID:   &departmentID,
		}
		if err := r.repos.StudentRepository.Create(ctx, student); err != nil {
			return fmt.Errorf("create student: %w", err)
		}

		courses := pickIDs(r.faker, courseIDs, r.faker.Number(3, 6))
		if err := r.repos.StudentRepository.ReplaceCourses(ctx, student.ID, courses); err != nil {
			return fmt.Errorf("assign student courses: %w", err)
		}
	}
	r.summary.Students = studentCount
	return nil
}

// pickIDs returns n distinct ids chosen at random
func pickIDs(faker *gofakeit.Faker, ids []int64, n int) []int64 {
	if n > len(ids) {
		n = len(ids)
	}
	shuffled := append([]int64(nil), ids...)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := faker.Number(0, i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:n]
}
