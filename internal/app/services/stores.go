package services

import (
	"context"
	"time"

	"github.com/yigit/unimanage/internal/app/models"
)

// The store interfaces below are the repository methods each service needs.
// *repositories.XRepository satisfies them; tests use in-memory fakes.

// ProfileStore persists profiles
type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id int64) (*models.Profile, error)
	GetCredentialsByEmail(ctx context.Context, email string) (*models.Profile, error)
	List(ctx context.Context, email string) ([]*models.Profile, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Profile, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// CourseLinkStore manages the course set of one kind of owner
type CourseLinkStore interface {
	ListCourses(ctx context.Context, ownerID int64) ([]*models.Course, error)
	AddCourse(ctx context.Context, ownerID, courseID int64) error
	RemoveCourse(ctx context.Context, ownerID, courseID int64) error
	ReplaceCourses(ctx context.Context, ownerID int64, courseIDs []int64) error
}

// StudentStore persists students and their enrolments
type StudentStore interface {
	CourseLinkStore
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context, name string) ([]*models.Student, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Student, error)
}

// LecturerStore persists lecturers and their course assignments
type LecturerStore interface {
	CourseLinkStore
	Create(ctx context.Context, lecturer *models.Lecturer) error
	GetByID(ctx context.Context, id int64) (*models.Lecturer, error)
	List(ctx context.Context, name string) ([]*models.Lecturer, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Lecturer, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// CourseStore persists courses
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, search string) ([]*models.Course, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	FindExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// DepartmentStore persists departments
type DepartmentStore interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	List(ctx context.Context, name string) ([]*models.Department, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Department, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// TokenStore persists refresh token hashes
type TokenStore interface {
	CreateToken(ctx context.Context, tokenHash string, profileID int64, expiresAt time.Time) error
	GetByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeToken(ctx context.Context, id int64) error
	RevokeAllProfileTokens(ctx context.Context, profileID int64) (int64, error)
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}
