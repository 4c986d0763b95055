package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
	"github.com/yigit/unimanage/internal/pkg/dberrors"
	"github.com/yigit/unimanage/internal/pkg/helpers"
	"github.com/yigit/unimanage/internal/pkg/logger"
)

const studentProfileConstraint = "students_profile_id_key"

// StudentRepository handles database operations for students and their course enrolments
type StudentRepository struct {
	courseLinks
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{
		courseLinks: newCourseLinks(db, "student_courses", "student_id"),
		db:          db,
		sb:          squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.profile_id", "s.enrollment_date", "s.degree_program", "s.gpa", "s.department_id",
		"s.created_at", "s.updated_at",
		"p.first_name", "p.last_name", "p.email", "p.role",
	).
		From("students s").
		Join("profiles p ON p.id = s.profile_id")
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	p := &models.Profile{}
	err := row.Scan(
		&s.ID, &s.ProfileID, &s.EnrollmentDate, &s.DegreeProgram, &s.GPA, &s.DepartmentID,
		&s.CreatedAt, &s.UpdatedAt,
		&p.FirstName, &p.LastName, &p.Email, &p.Role,
	)
	if err != nil {
		return nil, err
	}
	p.ID = s.ProfileID
	s.Profile = p
	return &s, nil
}

func studentConflict(err error, profileID int64) error {
	if dberrors.IsDuplicateConstraintError(err, studentProfileConstraint) {
		return apperrors.NewConflictError(fmt.Sprintf("Profile with ID %d already has a student record", profileID))
	}
	if dberrors.IsForeignKeyViolation(err) {
		return apperrors.NewResourceNotFoundError("Referenced profile or department not found")
	}
	return nil
}

// Create inserts student and fills in its generated fields
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("profile_id", "enrollment_date", "degree_program", "gpa", "department_id").
		Values(student.ProfileID, student.EnrollmentDate, student.DegreeProgram, student.GPA, student.DepartmentID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if conflict := studentConflict(err, student.ProfileID); conflict != nil {
			return conflict
		}
		logger.Error().Err(err).Int64("profileID", student.ProfileID).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student together with its profile
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.selectStudents().Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error retrieving student")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// List returns students, filtered by a case-insensitive match on first or last name
func (r *StudentRepository) List(ctx context.Context, name string) ([]*models.Student, error) {
	query := r.selectStudents().OrderBy("s.id")
	if name != "" {
		pattern := helpers.ContainsPattern(name)
		query = query.Where(squirrel.Or{
			squirrel.ILike{"p.first_name": pattern},
			squirrel.ILike{"p.last_name": pattern},
		})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	return students, nil
}

// Update applies fields (column -> value) and returns the updated student
func (r *StudentRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Student, error) {
	if len(fields) > 0 {
		sql, args, err := r.sb.Update("students").
			SetMap(fields).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building update student SQL")
			return nil, fmt.Errorf("failed to build update student query: %w", err)
		}

		cmdTag, err := r.db.Exec(ctx, sql, args...)
		if err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return nil, apperrors.NewResourceNotFoundError("Referenced department not found")
			}
			logger.Error().Err(err).Int64("studentID", id).Msg("Error executing update student query")
			return nil, fmt.Errorf("error updating student: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return nil, ErrNotFound
		}
	}

	return r.GetByID(ctx, id)
}

// Delete removes a student and its enrolments
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "students", id)
}

// Exists reports whether a student with id exists
func (r *StudentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.db, r.sb, "students", id)
}

// GetProfileID returns the profile that owns the student
func (r *StudentRepository) GetProfileID(ctx context.Context, studentID int64) (int64, error) {
	sql, args, err := r.sb.Select("profile_id").
		From("students").
		Where(squirrel.Eq{"id": studentID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student owner SQL")
		return 0, fmt.Errorf("failed to build get student owner query: %w", err)
	}

	var profileID int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&profileID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error retrieving student owner")
		return 0, fmt.Errorf("error retrieving student owner: %w", err)
	}

	return profileID, nil
}

// ListByCourse returns the students enrolled in courseID
func (r *StudentRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	sql, args, err := r.selectStudents().
		Join("student_courses sc ON sc.student_id = s.id").
		Where(squirrel.Eq{"sc.course_id": courseID}).
		OrderBy("s.id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list enrolled students SQL")
		return nil, fmt.Errorf("failed to build list enrolled students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing list enrolled students query")
		return nil, fmt.Errorf("error listing enrolled students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrolled students: %w", err)
	}

	return students, nil
}
