package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
	"github.com/yigit/unimanage/internal/pkg/helpers"
)

// courseRelations implements the course set operations shared by students
// and lecturers. The owner is assumed to exist; callers check it first.
type courseRelations struct {
	owner   string
	links   CourseLinkStore
	courses CourseStore
	logger  zerolog.Logger
}

func (r courseRelations) list(ctx context.Context, ownerID int64) ([]*models.Course, error) {
	courses, err := r.links.ListCourses(ctx, ownerID)
	if err != nil {
		return nil, storeError(r.logger, err, "failed to list courses of %s with id %d", r.owner, ownerID)
	}
	return courses, nil
}

func (r courseRelations) ensureCourse(ctx context.Context, courseID int64) error {
	exists, err := r.courses.Exists(ctx, courseID)
	if err != nil {
		return storeError(r.logger, err, "failed to check course with id %d", courseID)
	}
	if !exists {
		return notFound("Course", courseID)
	}
	return nil
}

// assign links courseID to the owner. An existing link is left alone.
func (r courseRelations) assign(ctx context.Context, ownerID, courseID int64) ([]*models.Course, error) {
	if err := r.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}

	current, err := r.list(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if containsCourse(current, courseID) {
		return current, nil
	}

	if err := r.links.AddCourse(ctx, ownerID, courseID); err != nil {
		return nil, storeError(r.logger, err, "failed to assign course %d to %s with id %d", courseID, r.owner, ownerID)
	}

	return r.list(ctx, ownerID)
}

// unassign removes courseID from the owner's course set
func (r courseRelations) unassign(ctx context.Context, ownerID, courseID int64) ([]*models.Course, error) {
	current, err := r.list(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if len(current) == 0 {
		return nil, apperrors.NewResourceNotFoundError(
			fmt.Sprintf("%s with ID %d is not assigned to any courses", r.owner, ownerID))
	}
	if !containsCourse(current, courseID) {
		return nil, apperrors.NewResourceNotFoundError(
			fmt.Sprintf("%s with ID %d is not assigned to course with ID %d", r.owner, ownerID, courseID))
	}

	if err := r.links.RemoveCourse(ctx, ownerID, courseID); err != nil {
		return nil, storeError(r.logger, err, "failed to unassign course %d from %s with id %d", courseID, r.owner, ownerID)
	}

	remaining := make([]*models.Course, 0, len(current)-1)
	for _, course := range current {
		if course.ID != courseID {
			remaining = append(remaining, course)
		}
	}
	return remaining, nil
}

// replace makes courseIDs the owner's complete course set. Every id must
// exist, otherwise nothing is written.
func (r courseRelations) replace(ctx context.Context, ownerID int64, courseIDs []int64) ([]*models.Course, error) {
	ids := helpers.UniqueIDs(courseIDs)

	found, err := r.courses.FindExistingIDs(ctx, ids)
	if err != nil {
		return nil, storeError(r.logger, err, "failed to resolve courses for %s with id %d", r.owner, ownerID)
	}

	if missing := helpers.MissingIDs(ids, found); len(missing) > 0 {
		return nil, apperrors.NewResourceNotFoundError(
			fmt.Sprintf("Courses with IDs %s not found", helpers.JoinIDs(missing)))
	}

	if err := r.links.ReplaceCourses(ctx, ownerID, ids); err != nil {
		return nil, storeError(r.logger, err, "failed to replace courses of %s with id %d", r.owner, ownerID)
	}

	return r.list(ctx, ownerID)
}

func containsCourse(courses []*models.Course, courseID int64) bool {
	for _, course := range courses {
		if course.ID == courseID {
			return true
		}
	}
	return false
}
