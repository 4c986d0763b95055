package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/app/models/dto"
)

// LecturerService defines lecturer operations and course assignment management
type LecturerService interface {
	Create(ctx context.Context, req *dto.CreateLecturerRequest) (*models.Lecturer, error)
	FindAll(ctx context.Context, filter dto.NameFilter) ([]*models.Lecturer, error)
	FindOne(ctx context.Context, id int64) (*models.Lecturer, error)
	Update(ctx context.Context, id int64, req *dto.UpdateLecturerRequest) (*models.Lecturer, error)
	Remove(ctx context.Context, id int64) error

	GetCourses(ctx context.Context, id int64) ([]*models.Course, error)
	AssignCourse(ctx context.Context, id, courseID int64) (*models.Lecturer, error)
	UnassignCourse(ctx context.Context, id, courseID int64) (*models.Lecturer, error)
	ReplaceCourses(ctx context.Context, id int64, courseIDs []int64) (*models.Lecturer, error)
}

type lecturerServiceImpl struct {
	lecturers LecturerStore
	profiles  ProfileStore
	relations courseRelations
	logger    zerolog.Logger
}

// NewLecturerService creates a new LecturerService
func NewLecturerService(lecturers LecturerStore, profiles ProfileStore, courses CourseStore, logger zerolog.Logger) LecturerService {
	return &lecturerServiceImpl{
		lecturers: lecturers,
		profiles:  profiles,
		relations: courseRelations{
			owner:   "Lecturer",
			links:   lecturers,
			courses: courses,
			logger:  logger,
		},
		logger: logger,
	}
}

func (s *lecturerServiceImpl) Create(ctx context.Context, req *dto.CreateLecturerRequest) (*models.Lecturer, error) {
	if err := ensureExists(ctx, s.logger, "Profile", req.ProfileID, s.profiles.Exists); err != nil {
		return nil, err
	}

	lecturer := &models.Lecturer{
		ProfileID:      req.ProfileID,
		EmployeeID:     strings.TrimSpace(req.EmployeeID),
		Specialization: strings.TrimSpace(req.Specialization),
		Bio:            req.Bio,
		OfficeLocation: req.OfficeLocation,
		PhoneNumber:    req.PhoneNumber,
	}

	if err := s.lecturers.Create(ctx, lecturer); err != nil {
		return nil, storeError(s.logger, err, "failed to create lecturer for profile with id %d", req.ProfileID)
	}

	s.logger.Info().Int64("lecturerID", lecturer.ID).Int64("profileID", lecturer.ProfileID).Msg("Lecturer created")
	return s.FindOne(ctx, lecturer.ID)
}

func (s *lecturerServiceImpl) FindAll(ctx context.Context, filter dto.NameFilter) ([]*models.Lecturer, error) {
	lecturers, err := s.lecturers.List(ctx, filter.Name)
	if err != nil {
		return nil, storeError(s.logger, err, "failed to list lecturers")
	}
	return lecturers, nil
}

func (s *lecturerServiceImpl) FindOne(ctx context.Context, id int64) (*models.Lecturer, error) {
	lecturer, err := s.lecturers.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(s.logger, err, "Lecturer", id)
	}
	return lecturer, nil
}

func (s *lecturerServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateLecturerRequest) (*models.Lecturer, error) {
	fields := make(map[string]interface{})
	if req.EmployeeID != nil {
		fields["employee_id"] = strings.TrimSpace(*req.EmployeeID)
	}
	if req.Specialization != nil {
		fields["specialization"] = strings.TrimSpace(*req.Specialization)
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.OfficeLocation != nil {
		fields["office_location"] = *req.OfficeLocation
	}
	if req.PhoneNumber != nil {
		fields["phone_number"] = *req.PhoneNumber
	}

	lecturer, err := s.lecturers.Update(ctx, id, fields)
	if err != nil {
		return nil, lookupError(s.logger, err, "Lecturer", id)
	}
	return lecturer, nil
}

func (s *lecturerServiceImpl) Remove(ctx context.Context, id int64) error {
	if err := s.lecturers.Delete(ctx, id); err != nil {
		return lookupError(s.logger, err, "Lecturer", id)
	}
	s.logger.Info().Int64("lecturerID", id).Msg("Lecturer removed")
	return nil
}

func (s *lecturerServiceImpl) GetCourses(ctx context.Context, id int64) ([]*models.Course, error) {
	if err := ensureExists(ctx, s.logger, "Lecturer", id, s.lecturers.Exists); err != nil {
		return nil, err
	}
	return s.relations.list(ctx, id)
}

func (s *lecturerServiceImpl) withCourses(ctx context.Context, id int64, courses []*models.Course) (*models.Lecturer, error) {
	lecturer, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	lecturer.Courses = courses
	return lecturer, nil
}

func (s *lecturerServiceImpl) AssignCourse(ctx context.Context, id, courseID int64) (*models.Lecturer, error) {
	if err := ensureExists(ctx, s.logger, "Lecturer", id, s.lecturers.Exists); err != nil {
		return nil, err
	}
	courses, err := s.relations.assign(ctx, id, courseID)
	if err != nil {
		return nil, err
	}
	return s.withCourses(ctx, id, courses)
}

func (s *lecturerServiceImpl) UnassignCourse(ctx context.Context, id, courseID int64) (*models.Lecturer, error) {
	if err := ensureExists(ctx, s.logger, "Lecturer", id, s.lecturers.Exists); err != nil {
		return nil, err
	}
	courses, err := s.relations.unassign(ctx, id, courseID)
	if err != nil {
		return nil, err
	}
	return s.withCourses(ctx, id, courses)
}

func (s *lecturerServiceImpl) ReplaceCourses(ctx context.Context, id int64, courseIDs []int64) (*models.Lecturer, error) {
	if err := ensureExists(ctx, s.logger, "Lecturer", id, s.lecturers.Exists); err != nil {
		return nil, err
	}
	courses, err := s.relations.replace(ctx, id, courseIDs)
	if err != nil {
		return nil, err
	}
	return s.withCourses(ctx, id, courses)
}
