package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/db"
	"github.com/yigit/unimanage/internal/pkg/logger"
)

var courseColumns = []string{
	"c.id", "c.title", "c.description", "c.credits", "c.duration",
	"c.start_date", "c.end_date", "c.department_id", "c.created_at", "c.updated_at",
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Credits, &c.Duration,
		&c.StartDate, &c.EndDate, &c.DepartmentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// courseLinks manages one many-to-many join table between an owner
// (student or lecturer) and courses.
type courseLinks struct {
	db          DBTX
	sb          squirrel.StatementBuilderType
	table       string
	ownerColumn string
}

func newCourseLinks(dbtx DBTX, table, ownerColumn string) courseLinks {
	return courseLinks{
		db:          dbtx,
		sb:          squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		table:       table,
		ownerColumn: ownerColumn,
	}
}

// ListCourses returns the courses linked to ownerID ordered by id
func (l courseLinks) ListCourses(ctx context.Context, ownerID int64) ([]*models.Course, error) {
	sql, args, err := l.sb.Select(courseColumns...).
		From("courses c").
		Join(l.table + " l ON l.course_id = c.id").
		Where(squirrel.Eq{"l." + l.ownerColumn: ownerID}).
		OrderBy("c.id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", l.table).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := l.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", l.table).Int64("ownerID", ownerID).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}

// AddCourse links courseID to ownerID. Linking twice is a no-op.
func (l courseLinks) AddCourse(ctx context.Context, ownerID, courseID int64) error {
	sql, args, err := l.sb.Insert(l.table).
		Columns(l.ownerColumn, "course_id").
		Values(ownerID, courseID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", l.table).Msg("Error building add course SQL")
		return fmt.Errorf("failed to build add course query: %w", err)
	}

	if _, err := l.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("table", l.table).Int64("ownerID", ownerID).Int64("courseID", courseID).Msg("Error executing add course query")
		return fmt.Errorf("error adding course: %w", err)
	}

	return nil
}

// RemoveCourse unlinks courseID from ownerID and returns ErrNotFound when no link existed
func (l courseLinks) RemoveCourse(ctx context.Context, ownerID, courseID int64) error {
	sql, args, err := l.sb.Delete(l.table).
		Where(squirrel.Eq{l.ownerColumn: ownerID, "course_id": courseID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", l.table).Msg("Error building remove course SQL")
		return fmt.Errorf("failed to build remove course query: %w", err)
	}

	cmdTag, err := l.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", l.table).Int64("ownerID", ownerID).Int64("courseID", courseID).Msg("Error executing remove course query")
		return fmt.Errorf("error removing course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ReplaceCourses makes courseIDs the complete course set of ownerID in one transaction
func (l courseLinks) ReplaceCourses(ctx context.Context, ownerID int64, courseIDs []int64) error {
	deleteSQL, deleteArgs, err := l.sb.Delete(l.table).
		Where(squirrel.Eq{l.ownerColumn: ownerID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", l.table).Msg("Error building clear courses SQL")
		return fmt.Errorf("failed to build clear courses query: %w", err)
	}

	var insertSQL string
	var insertArgs []interface{}
	if len(courseIDs) > 0 {
		insert := l.sb.Insert(l.table).Columns(l.ownerColumn, "course_id")
		for _, courseID := range courseIDs {
			insert = insert.Values(ownerID, courseID)
		}
		insertSQL, insertArgs, err = insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
		if err != nil {
			logger.Error().Err(err).Str("table", l.table).Msg("Error building insert courses SQL")
			return fmt.Errorf("failed to build insert courses query: %w", err)
		}
	}

	return db.WithTransaction(ctx, l.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteSQL, deleteArgs...); err != nil {
			logger.Error().Err(err).Str("table", l.table).Int64("ownerID", ownerID).Msg("Error clearing courses")
			return fmt.Errorf("error clearing courses: %w", err)
		}

		if insertSQL == "" {
			return nil
		}

		if _, err := tx.Exec(ctx, insertSQL, insertArgs...); err != nil {
			logger.Error().Err(err).Str("table", l.table).Int64("ownerID", ownerID).Msg("Error inserting courses")
			return fmt.Errorf("error inserting courses: %w", err)
		}
		return nil
	})
}
