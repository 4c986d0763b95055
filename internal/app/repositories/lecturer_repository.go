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

const (
	lecturerProfileConstraint  = "lecturers_profile_id_key"
	lecturerEmployeeConstraint = "lecturers_employee_id_key"
)

// LecturerRepository handles database operations for lecturers and their course assignments
type LecturerRepository struct {
	courseLinks
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewLecturerRepository creates a new LecturerRepository
func NewLecturerRepository(db DBTX) *LecturerRepository {
	return &LecturerRepository{
		courseLinks: newCourseLinks(db, "lecturer_courses", "lecturer_id"),
		db:          db,
		sb:          squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *LecturerRepository) selectLecturers() squirrel.SelectBuilder {
	return r.sb.Select(
		"l.id", "l.profile_id", "l.employee_id", "l.specialization", "l.bio", "l.office_location", "l.phone_number",
		"l.created_at", "l.updated_at",
		"p.first_name", "p.last_name", "p.email", "p.role",
	).
		From("lecturers l").
		Join("profiles p ON p.id = l.profile_id")
}

func scanLecturer(row pgx.Row) (*models.Lecturer, error) {
	var l models.Lecturer
	p := &models.Profile{}
	err := row.Scan(
		&l.ID, &l.ProfileID, &l.EmployeeID, &l.Specialization, &l.Bio, &l.OfficeLocation, &l.PhoneNumber,
		&l.CreatedAt, &l.UpdatedAt,
		&p.FirstName, &p.LastName, &p.Email, &p.Role,
	)
	if err != nil {
		return nil, err
	}
	p.ID = l.ProfileID
	l.Profile = p
	return &l, nil
}

func lecturerConflict(err error, lecturer *models.Lecturer, employeeID string) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, lecturerEmployeeConstraint):
		return apperrors.NewConflictError(fmt.Sprintf("Lecturer with employee ID %s already exists", employeeID))
	case lecturer != nil && dberrors.IsDuplicateConstraintError(err, lecturerProfileConstraint):
		return apperrors.NewConflictError(fmt.Sprintf("Profile with ID %d already has a lecturer record", lecturer.ProfileID))
	case dberrors.IsForeignKeyViolation(err):
		return apperrors.NewResourceNotFoundError("Referenced profile not found")
	}
	return nil
}

// Create inserts lecturer and fills in its generated fields
func (r *LecturerRepository) Create(ctx context.Context, lecturer *models.Lecturer) error {
	sql, args, err := r.sb.Insert("lecturers").
		Columns("profile_id", "employee_id", "specialization", "bio", "office_location", "phone_number").
		Values(lecturer.ProfileID, lecturer.EmployeeID, lecturer.Specialization, lecturer.Bio, lecturer.OfficeLocation, lecturer.PhoneNumber).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create lecturer SQL")
		return fmt.Errorf("failed to build create lecturer query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&lecturer.ID, &lecturer.CreatedAt, &lecturer.UpdatedAt)
	if err != nil {
		if conflict := lecturerConflict(err, lecturer, lecturer.EmployeeID); conflict != nil {
			return conflict
		}
		logger.Error().Err(err).Int64("profileID", lecturer.ProfileID).Msg("Error executing create lecturer query")
		return fmt.Errorf("error creating lecturer: %w", err)
	}

	return nil
}

// GetByID retrieves a lecturer together with its profile
func (r *LecturerRepository) GetByID(ctx context.Context, id int64) (*models.Lecturer, error) {
	sql, args, err := r.selectLecturers().Where(squirrel.Eq{"l.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get lecturer SQL")
		return nil, fmt.Errorf("failed to build get lecturer query: %w", err)
	}

	lecturer, err := scanLecturer(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("lecturerID", id).Msg("Error retrieving lecturer")
		return nil, fmt.Errorf("error retrieving lecturer: %w", err)
	}

	return lecturer, nil
}

// List returns lecturers, filtered by a case-insensitive match on first or last name
func (r *LecturerRepository) List(ctx context.Context, name string) ([]*models.Lecturer, error) {
	query := r.selectLecturers().OrderBy("l.id")
	if name != "" {
		pattern := helpers.ContainsPattern(name)
		query = query.Where(squirrel.Or{
			squirrel.ILike{"p.first_name": pattern},
			squirrel.ILike{"p.last_name": pattern},
		})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list lecturers SQL")
		return nil, fmt.Errorf("failed to build list lecturers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list lecturers query")
		return nil, fmt.Errorf("error listing lecturers: %w", err)
	}
	defer rows.Close()

	lecturers := make([]*models.Lecturer, 0)
	for rows.Next() {
		lecturer, err := scanLecturer(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning lecturer row")
			return nil, fmt.Errorf("error scanning lecturer: %w", err)
		}
		lecturers = append(lecturers, lecturer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lecturers: %w", err)
	}

	return lecturers, nil
}

// Update applies fields (column -> value) and returns the updated lecturer
func (r *LecturerRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Lecturer, error) {
	if len(fields) > 0 {
		sql, args, err := r.sb.Update("lecturers").
			SetMap(fields).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building update lecturer SQL")
			return nil, fmt.Errorf("failed to build update lecturer query: %w", err)
		}

		cmdTag, err := r.db.Exec(ctx, sql, args...)
		if err != nil {
			employeeID, _ := fields["employee_id"].(string)
			if conflict := lecturerConflict(err, nil, employeeID); conflict != nil {
				return nil, conflict
			}
			logger.Error().Err(err).Int64("lecturerID", id).Msg("Error executing update lecturer query")
			return nil, fmt.Errorf("error updating lecturer: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return nil, ErrNotFound
		}
	}

	return r.GetByID(ctx, id)
}

// Delete removes a lecturer and its course assignments
func (r *LecturerRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "lecturers", id)
}

// Exists reports whether a lecturer with id exists
func (r *LecturerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.db, r.sb, "lecturers", id)
}
