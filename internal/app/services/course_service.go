package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/app/models/dto"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
)

// CourseService defines course operations and enrolment from the course side
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error)
	FindAll(ctx context.Context, filter dto.CourseFilter) ([]*models.Course, error)
	FindOne(ctx context.Context, id int64) (*models.Course, error)
	Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error)
	Remove(ctx context.Context, id int64) error

	GetEnrolledStudents(ctx context.Context, id int64) ([]*models.Student, error)
	EnrollStudent(ctx context.Context, id, studentID int64) (*models.Course, error)
	UnenrollStudent(ctx context.Context, id, studentID int64) (*models.Course, error)
}

type courseServiceImpl struct {
	courses     CourseStore
	departments DepartmentStore
	students    StudentStore
	logger      zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courses CourseStore, departments DepartmentStore, students StudentStore, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{
		courses:     courses,
		departments: departments,
		students:    students,
		logger:      logger,
	}
}

func checkCourseDates(start, end time.Time) error {
	if end.Before(start) {
		return apperrors.NewValidationError("endDate must not be before startDate")
	}
	return nil
}

func (s *courseServiceImpl) Create(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	if req.DepartmentID != nil {
		if err := ensureExists(ctx, s.logger, "Department", *req.DepartmentID, s.departments.Exists); err != nil {
			return nil, err
		}
	}

	start, err := parseDateField("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDateField("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := checkCourseDates(start, end); err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Credits:      req.Credits,
		Duration:     strings.TrimSpace(req.Duration),
		StartDate:    start,
		EndDate:      end,
		DepartmentID: req.DepartmentID,
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, storeError(s.logger, err, "failed to create course")
	}

	s.logger.Info().Int64("courseID", course.ID).Msg("Course created")
	return course, nil
}

func (s *courseServiceImpl) FindAll(ctx context.Context, filter dto.CourseFilter) ([]*models.Course, error) {
	courses, err := s.courses.List(ctx, filter.Search)
	if err != nil {
		return nil, storeError(s.logger, err, "failed to list courses")
	}
	return courses, nil
}

func (s *courseServiceImpl) FindOne(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(s.logger, err, "Course", id)
	}
	return course, nil
}

func (s *courseServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	fields := make(map[string]interface{})
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Credits != nil {
		fields["credits"] = *req.Credits
	}
	if req.Duration != nil {
		fields["duration"] = strings.TrimSpace(*req.Duration)
	}
	if req.DepartmentID != nil {
		if err := ensureExists(ctx, s.logger, "Department", *req.DepartmentID, s.departments.Exists); err != nil {
			return nil, err
		}
		fields["department_id"] = *req.DepartmentID
	}

	if req.StartDate != nil || req.EndDate != nil {
		current, err := s.FindOne(ctx, id)
		if err != nil {
			return nil, err
		}
		start, end := current.StartDate, current.EndDate
		if req.StartDate != nil {
			if start, err = parseDateField("startDate", *req.StartDate); err != nil {
				return nil, err
			}
			fields["start_date"] = start
		}
		if req.EndDate != nil {
			if end, err = parseDateField("endDate", *req.EndDate); err != nil {
				return nil, err
			}
			fields["end_date"] = end
		}
		if err := checkCourseDates(start, end); err != nil {
			return nil, err
		}
	}

	course, err := s.courses.Update(ctx, id, fields)
	if err != nil {
		return nil, lookupError(s.logger, err, "Course", id)
	}
	return course, nil
}

func (s *courseServiceImpl) Remove(ctx context.Context, id int64) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return lookupError(s.logger, err, "Course", id)
	}
	s.logger.Info().Int64("courseID", id).Msg("Course removed")
	return nil
}

func (s *courseServiceImpl) GetEnrolledStudents(ctx context.Context, id int64) ([]*models.Student, error) {
	if err := ensureExists(ctx, s.logger, "Course", id, s.courses.Exists); err != nil {
		return nil, err
	}

	students, err := s.students.ListByCourse(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, err, "failed to list students of course with id %d", id)
	}
	return students, nil
}

func (s *courseServiceImpl) withStudents(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	students, err := s.students.ListByCourse(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, err, "failed to list students of course with id %d", id)
	}
	course.Students = students
	return course, nil
}

// EnrollStudent adds studentID to the course. Enrolling twice is a no-op.
func (s *courseServiceImpl) EnrollStudent(ctx context.Context, id, studentID int64) (*models.Course, error) {
	if err := ensureExists(ctx, s.logger, "Course", id, s.courses.Exists); err != nil {
		return nil, err
	}
	if err := ensureExists(ctx, s.logger, "Student", studentID, s.students.Exists); err != nil {
		return nil, err
	}

	if err := s.students.AddCourse(ctx, studentID, id); err != nil {
		return nil, storeError(s.logger, err, "failed to enroll student %d in course with id %d", studentID, id)
	}

	return s.withStudents(ctx, id)
}

func (s *courseServiceImpl) UnenrollStudent(ctx context.Context, id, studentID int64) (*models.Course, error) {
	if err := ensureExists(ctx, s.logger, "Course", id, s.courses.Exists); err != nil {
		return nil, err
	}
	if err := ensureExists(ctx, s.logger, "Student", studentID, s.students.Exists); err != nil {
		return nil, err
	}

	if err := s.students.RemoveCourse(ctx, studentID, id); err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError(
				fmt.Sprintf("Student with ID %d is not enrolled in course with ID %d", studentID, id))
		}
		return nil, storeError(s.logger, err, "failed to unenroll student %d from course with id %d", studentID, id)
	}

	return s.withStudents(ctx, id)
}
