package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string     { return &s }
func int64Ptr(i int64) *int64     { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestProfileRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO profiles").
		WithArgs("Ada", "Lovelace", "ada@uni.edu", "hash", models.RoleGuest).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	profile := &models.Profile{FirstName: "Ada", LastName: "Lovelace", Email: "ada@uni.edu", Password: "hash", Role: models.RoleGuest}
	require.NoError(t, repo.Create(context.Background(), profile))

	assert.Equal(t, int64(7), profile.ID)
	assert.Equal(t, now, profile.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_CreateDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)

	mock.ExpectQuery("INSERT INTO profiles").
		WithArgs("Ada", "Lovelace", "ada@uni.edu", "hash", models.RoleGuest).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: profileEmailConstraint})

	err := repo.Create(context.Background(), &models.Profile{FirstName: "Ada", LastName: "Lovelace", Email: "ada@uni.edu", Password: "hash", Role: models.RoleGuest})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, "Profile with email ada@uni.edu already exists", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_GetByID(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE id").
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(profileColumns).
			AddRow(int64(3), "Grace", "Hopper", "grace@uni.edu", models.RoleFaculty, now, now))

	profile, err := repo.GetByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "Grace", profile.FirstName)
	assert.Equal(t, models.RoleFaculty, profile.Role)
	assert.Empty(t, profile.Password)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_GetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM profiles").WithArgs(int64(999)).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileRepository_ListByEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE email").
		WithArgs("ada@uni.edu").
		WillReturnRows(pgxmock.NewRows(profileColumns).
			AddRow(int64(1), "Ada", "Lovelace", "ada@uni.edu", models.RoleStudent, now, now))

	profiles, err := repo.List(context.Background(), "ada@uni.edu")

	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, int64(1), profiles[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_UpdateWithoutFieldsReads(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM profiles").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(profileColumns).
			AddRow(int64(1), "Ada", "Lovelace", "ada@uni.edu", models.RoleGuest, now, now))

	profile, err := repo.Update(context.Background(), 1, map[string]interface{}{})

	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_UpdateNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)

	mock.ExpectQuery("UPDATE profiles SET").
		WithArgs("Augusta", int64(42)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Update(context.Background(), 42, map[string]interface{}{"first_name": "Augusta"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewDepartmentRepository(mock)

	mock.ExpectExec("DELETE FROM departments WHERE id").
		WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExists(t *testing.T) {
	mock := newMock(t)
	repo := NewCourseRepository(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), 5)

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var studentRowColumns = []string{
	"id", "profile_id", "enrollment_date", "degree_program", "gpa", "department_id",
	"created_at", "updated_at", "first_name", "last_name", "email", "role",
}

func TestStudentRepository_GetByID(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)
	now := time.Now()
	enrolled := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM students s JOIN profiles p").
		WithArgs(int64(10)).
		WillReturnRows(pgxmock.NewRows(studentRowColumns).AddRow(
			int64(10), int64(100), enrolled, strPtr("Physics"), floatPtr(3.2), int64Ptr(2),
			now, now, "Marie", "Curie", "marie@uni.edu", models.RoleStudent,
		))

	student, err := repo.GetByID(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, int64(100), student.ProfileID)
	assert.Equal(t, enrolled, student.EnrollmentDate)
	require.NotNil(t, student.GPA)
	assert.InDelta(t, 3.2, *student.GPA, 0.001)
	require.NotNil(t, student.Profile)
	assert.Equal(t, int64(100), student.Profile.ID)
	assert.Equal(t, "Curie", student.Profile.LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_ListByName(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery("FROM students s JOIN profiles p (.+) ILIKE (.+) OR (.+) ILIKE").
		WithArgs("%mar%", "%mar%").
		WillReturnRows(pgxmock.NewRows(studentRowColumns))

	students, err := repo.List(context.Background(), " mar ")

	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_GetProfileID(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery("SELECT profile_id FROM students").
		WithArgs(int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"profile_id"}).AddRow(int64(100)))
	mock.ExpectQuery("SELECT profile_id FROM students").
		WithArgs(int64(11)).
		WillReturnError(pgx.ErrNoRows)

	profileID, err := repo.GetProfileID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(100), profileID)

	_, err = repo.GetProfileID(context.Background(), 11)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_UpdateNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	mock.ExpectExec("UPDATE students SET").
		WithArgs("Maths", int64(77)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := repo.Update(context.Background(), 77, map[string]interface{}{"degree_program": "Maths"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseLinks_AddCourseIgnoresDuplicates(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	mock.ExpectExec("INSERT INTO student_courses (.+) ON CONFLICT DO NOTHING").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	require.NoError(t, repo.AddCourse(context.Background(), 1, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseLinks_RemoveCourseMissingLink(t *testing.T) {
	mock := newMock(t)
	repo := NewLecturerRepository(mock)

	mock.ExpectExec("DELETE FROM lecturer_courses WHERE").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.RemoveCourse(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseLinks_ListCourses(t *testing.T) {
	mock := newMock(t)
	repo := NewLecturerRepository(mock)
	now := time.Now()

	mock.ExpectQuery("FROM courses c JOIN lecturer_courses l ON").
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "title", "description", "credits", "duration", "start_date", "end_date", "department_id", "created_at", "updated_at",
		}).
			AddRow(int64(1), "Compilers", "Parsing", 4, "16 weeks", now, now, int64Ptr(1), now, now).
			AddRow(int64(2), "Databases", "SQL", 3, "12 weeks", now, now, int64Ptr(1), now, now))

	courses, err := repo.ListCourses(context.Background(), 4)

	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Databases", courses[1].Title)
	assert.Equal(t, 3, courses[1].Credits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseLinks_ReplaceCourses(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM student_courses WHERE student_id").
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec("INSERT INTO student_courses").
		WithArgs(int64(1), int64(2), int64(1), int64(3)).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceCourses(context.Background(), 1, []int64{2, 3}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseLinks_ReplaceCoursesEmptyClears(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM student_courses").WithArgs(int64(1)).WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceCourses(context.Background(), 1, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseLinks_ReplaceCoursesRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM student_courses").WithArgs(int64(1)).WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("INSERT INTO student_courses").WithArgs(int64(1), int64(5)).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.ReplaceCourses(context.Background(), 1, []int64{5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error inserting courses")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_FindExistingIDs(t *testing.T) {
	mock := newMock(t)
	repo := NewCourseRepository(mock)

	mock.ExpectQuery("SELECT id FROM courses WHERE id IN").
		WithArgs(int64(1), int64(999)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	found, err := repo.FindExistingIDs(context.Background(), []int64{1, 999})

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_FindExistingIDsEmpty(t *testing.T) {
	mock := newMock(t)
	repo := NewCourseRepository(mock)

	found, err := repo.FindExistingIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLecturerRepository_CreateDuplicateEmployeeID(t *testing.T) {
	mock := newMock(t)
	repo := NewLecturerRepository(mock)

	mock.ExpectQuery("INSERT INTO lecturers").
		WithArgs(int64(1), "EMP-1", "AI", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: lecturerEmployeeConstraint})

	err := repo.Create(context.Background(), &models.Lecturer{ProfileID: 1, EmployeeID: "EMP-1", Specialization: "AI"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, "Lecturer with employee ID EMP-1 already exists", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_GetByHashNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewTokenRepository(mock)

	mock.ExpectQuery("FROM refresh_tokens WHERE token_hash").
		WithArgs("abc").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByHash(context.Background(), "abc")
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestTokenRepository_GetByHashReturnsRevoked(t *testing.T) {
	mock := newMock(t)
	repo := NewTokenRepository(mock)
	expires := time.Now().Add(time.Hour)
	created := time.Now()

	mock.ExpectQuery("FROM refresh_tokens WHERE token_hash").
		WithArgs("abc").
		WillReturnRows(pgxmock.NewRows([]string{"id", "token_hash", "profile_id", "expires_at", "revoked", "created_at"}).
			AddRow(int64(3), "abc", int64(1), expires, true, created))

	token, err := repo.GetByHash(context.Background(), "abc")

	require.NoError(t, err)
	assert.True(t, token.Revoked)
	assert.Equal(t, int64(1), token.ProfileID)
}

func TestTokenRepository_RevokeTokenTwice(t *testing.T) {
	mock := newMock(t)
	repo := NewTokenRepository(mock)

	mock.ExpectExec("UPDATE refresh_tokens SET revoked").
		WithArgs(true, int64(3), false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked").
		WithArgs(true, int64(3), false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.RevokeToken(context.Background(), 3))
	assert.ErrorIs(t, repo.RevokeToken(context.Background(), 3), apperrors.ErrTokenRevoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_RevokeAllAndCleanup(t *testing.T) {
	mock := newMock(t)
	repo := NewTokenRepository(mock)

	mock.ExpectExec("UPDATE refresh_tokens SET revoked").
		WithArgs(true, int64(1), false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 4))
	mock.ExpectExec("DELETE FROM refresh_tokens WHERE expires_at").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	revoked, err := repo.RevokeAllProfileTokens(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), revoked)

	deleted, err := repo.CleanupExpiredTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositories_ClearAll(t *testing.T) {
	mock := newMock(t)
	repos := NewRepositories(mock)

	for _, table := range clearOrder {
		mock.ExpectExec("DELETE FROM " + table).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	}

	require.NoError(t, repos.ClearAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositories_ClearAllStopsOnError(t *testing.T) {
	mock := newMock(t)
	repos := NewRepositories(mock)

	mock.ExpectExec("DELETE FROM student_courses").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM lecturer_courses").WillReturnError(errors.New("locked"))

	err := repos.ClearAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lecturer_courses")
}
