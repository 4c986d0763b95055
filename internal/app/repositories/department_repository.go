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

const departmentNameConstraint = "departments_name_key"

var departmentColumns = []string{"id", "name", "description", "head_of_department", "created_at", "updated_at"}

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db DBTX) *DepartmentRepository {
	return &DepartmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanDepartment(row pgx.Row) (*models.Department, error) {
	var d models.Department
	if err := row.Scan(&d.ID, &d.Name, &d.Description, &d.HeadOfDepartment, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func duplicateDepartment(err error, name string) error {
	if dberrors.IsDuplicateConstraintError(err, departmentNameConstraint) {
		return apperrors.NewConflictError(fmt.Sprintf("Department with name %s already exists", name))
	}
	return nil
}

// Create creates a new department
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	sql, args, err := r.sb.Insert("departments").
		Columns("name", "description", "head_of_department").
		Values(department.Name, department.Description, department.HeadOfDepartment).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create department SQL")
		return fmt.Errorf("failed to build create department query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&department.ID, &department.CreatedAt, &department.UpdatedAt)
	if err != nil {
		if conflict := duplicateDepartment(err, department.Name); conflict != nil {
			return conflict
		}
		logger.Error().Err(err).Str("name", department.Name).Msg("Error executing create department query")
		return fmt.Errorf("error creating department: %w", err)
	}

	return nil
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	sql, args, err := r.sb.Select(departmentColumns...).
		From("departments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get department SQL")
		return nil, fmt.Errorf("failed to build get department query: %w", err)
	}

	department, err := scanDepartment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("departmentID", id).Msg("Error retrieving department")
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}

	return department, nil
}

// List retrieves departments whose name contains name
func (r *DepartmentRepository) List(ctx context.Context, name string) ([]*models.Department, error) {
	query := r.sb.Select(departmentColumns...).From("departments").OrderBy("id")
	if name != "" {
		query = query.Where(squirrel.ILike{"name": helpers.ContainsPattern(name)})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list departments SQL")
		return nil, fmt.Errorf("failed to build list departments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list departments query")
		return nil, fmt.Errorf("error listing departments: %w", err)
	}
	defer rows.Close()

	departments := make([]*models.Department, 0)
	for rows.Next() {
		department, err := scanDepartment(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning department row")
			return nil, fmt.Errorf("error scanning department: %w", err)
		}
		departments = append(departments, department)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating departments: %w", err)
	}

	return departments, nil
}

// Update applies fields (column -> value) and returns the updated department
func (r *DepartmentRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Department, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	sql, args, err := r.sb.Update("departments").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, name, description, head_of_department, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update department SQL")
		return nil, fmt.Errorf("failed to build update department query: %w", err)
	}

	department, err := scanDepartment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if name, ok := fields["name"].(string); ok {
			if conflict := duplicateDepartment(err, name); conflict != nil {
				return nil, conflict
			}
		}
		logger.Error().Err(err).Int64("departmentID", id).Msg("Error executing update department query")
		return nil, fmt.Errorf("error updating department: %w", err)
	}

	return department, nil
}

// Delete deletes a department by ID. Students and courses keep existing with a NULL department.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "departments", id)
}

// Exists reports whether a department with id exists
func (r *DepartmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.db, r.sb, "departments", id)
}
