package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/app/models/dto"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
	"github.com/yigit/unimanage/internal/pkg/helpers"
)

// StudentService defines student operations and enrolment management
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
	FindAll(ctx context.Context, filter dto.NameFilter) ([]*models.Student, error)
	FindOne(ctx context.Context, id int64) (*models.Student, error)
	Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error)
	Remove(ctx context.Context, id int64) error

	GetCourses(ctx context.Context, id int64) ([]*models.Course, error)
	AssignCourse(ctx context.Context, id, courseID int64) (*models.Student, error)
	UnassignCourse(ctx context.Context, id, courseID int64) (*models.Student, error)
	ReplaceCourses(ctx context.Context, id int64, courseIDs []int64) (*models.Student, error)
}

type studentServiceImpl struct {
	students    StudentStore
	profiles    ProfileStore
	departments DepartmentStore
	relations   courseRelations
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	students StudentStore,
	profiles ProfileStore,
	departments DepartmentStore,
	courses CourseStore,
	logger zerolog.Logger,
) StudentService {
	return &studentServiceImpl{
		students:    students,
		profiles:    profiles,
		departments: departments,
		relations: courseRelations{
			owner:   "Student",
			links:   students,
			courses: courses,
			logger:  logger,
		},
		logger: logger,
	}
}

// ensureExists returns a not-found error naming entity and id when exists reports false
func ensureExists(ctx context.Context, log zerolog.Logger, entity string, id int64, exists func(context.Context, int64) (bool, error)) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return storeError(log, err, "failed to check %s with id %d", entity, id)
	}
	if !ok {
		return notFound(entity, id)
	}
	return nil
}

// parseDateField parses a YYYY-MM-DD request field into a validation error on failure
func parseDateField(field, value string) (time.Time, error) {
	t, err := helpers.ParseDate(value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(field + " must be a date in the format " + helpers.DateLayout)
	}
	return t, nil
}

func (s *studentServiceImpl) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	if err := ensureExists(ctx, s.logger, "Profile", req.ProfileID, s.profiles.Exists); err != nil {
		return nil, err
	}
	if req.DepartmentID != nil {
		if err := ensureExists(ctx, s.logger, "Department", *req.DepartmentID, s.departments.Exists); err != nil {
			return nil, err
		}
	}

	enrolled, err := parseDateField("enrollmentDate", req.EnrollmentDate)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		ProfileID:      req.ProfileID,
		EnrollmentDate: enrolled,
		DegreeProgram:  req.DegreeProgram,
		GPA:            req.GPA,
		DepartmentID:   req.DepartmentID,
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, storeError(s.logger, err, "failed to create student for profile with id %d", req.ProfileID)
	}

	s.logger.Info().Int64("studentID", student.ID).Int64("profileID", student.ProfileID).Msg("Student created")
	return s.FindOne(ctx, student.ID)
}

func (s *studentServiceImpl) FindAll(ctx context.Context, filter dto.NameFilter) ([]*models.Student, error) {
	students, err := s.students.List(ctx, filter.Name)
	if err != nil {
		return nil, storeError(s.logger, err, "failed to list students")
	}
	return students, nil
}

func (s *studentServiceImpl) FindOne(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(s.logger, err, "Student", id)
	}
	return student, nil
}

func (s *studentServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	fields := make(map[string]interface{})
	if req.EnrollmentDate != nil {
		enrolled, err := parseDateField("enrollmentDate", *req.EnrollmentDate)
		if err != nil {
			return nil, err
		}
		fields["enrollment_date"] = enrolled
	}
	if req.DegreeProgram != nil {
		fields["degree_program"] = *req.DegreeProgram
	}
	if req.GPA != nil {
		fields["gpa"] = *req.GPA
	}
	if req.DepartmentID != nil {
		if err := ensureExists(ctx, s.logger, "Department", *req.DepartmentID, s.departments.Exists); err != nil {
			return nil, err
		}
		fields["department_id"] = *req.DepartmentID
	}

	student, err := s.students.Update(ctx, id, fields)
	if err != nil {
		return nil, lookupError(s.logger, err, "Student", id)
	}
	return student, nil
}

func (s *studentServiceImpl) Remove(ctx context.Context, id int64) error {
	if err := s.students.Delete(ctx, id); err != nil {
		return lookupError(s.logger, err, "Student", id)
	}
	s.logger.Info().Int64("studentID", id).Msg("Student removed")
	return nil
}

func (s *studentServiceImpl) GetCourses(ctx context.Context, id int64) ([]*models.Course, error) {
	if err := ensureExists(ctx, s.logger, "Student", id, s.students.Exists); err != nil {
		return nil, err
	}
	return s.relations.list(ctx, id)
}

// withCourses loads the student and attaches courses
func (s *studentServiceImpl) withCourses(ctx context.Context, id int64, courses []*models.Course) (*models.Student, error) {
	student, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	student.Courses = courses
	return student, nil
}

func (s *studentServiceImpl) AssignCourse(ctx context.Context, id, courseID int64) (*models.Student, error) {
	if err := ensureExists(ctx, s.logger, "Student", id, s.students.Exists); err != nil {
		return nil, err
	}
	courses, err := s.relations.assign(ctx, id, courseID)
	if err != nil {
		return nil, err
	}
	return s.withCourses(ctx, id, courses)
}

func (s *studentServiceImpl) UnassignCourse(ctx context.Context, id, courseID int64) (*models.Student, error) {
	if err := ensureExists(ctx, s.logger, "Student", id, s.students.Exists); err != nil {
		return nil, err
	}
	courses, err := s.relations.unassign(ctx, id, courseID)
	if err != nil {
		return nil, err
	}
	return s.withCourses(ctx, id, courses)
}

func (s *studentServiceImpl) ReplaceCourses(ctx context.Context, id int64, courseIDs []int64) (*models.Student, error) {
	if err := ensureExists(ctx, s.logger, "Student", id, s.students.Exists); err != nil {
		return nil, err
	}
	courses, err := s.relations.replace(ctx, id, courseIDs)
	if err != nil {
		return nil, err
	}
	return s.withCourses(ctx, id, courses)
}
