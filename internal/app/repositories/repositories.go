package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
	"github.com/yigit/unimanage/internal/pkg/logger"
)

// ErrNotFound is returned when a lookup or a write matched no row
var ErrNotFound = apperrors.ErrResourceNotFound

// DBTX is the subset of pgx shared by *pgxpool.Pool, pgx.Tx and pgxmock,
// so repositories can run against a pool or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	ProfileRepository    *ProfileRepository
	StudentRepository    *StudentRepository
	LecturerRepository   *LecturerRepository
	CourseRepository     *CourseRepository
	DepartmentRepository *DepartmentRepository
	TokenRepository      *TokenRepository

	db DBTX
	sb squirrel.StatementBuilderType
}

// NewRepositories initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		ProfileRepository:    NewProfileRepository(db),
		StudentRepository:    NewStudentRepository(db),
		LecturerRepository:   NewLecturerRepository(db),
		CourseRepository:     NewCourseRepository(db),
		DepartmentRepository: NewDepartmentRepository(db),
		TokenRepository:      NewTokenRepository(db),
		db:                   db,
		sb:                   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// clearOrder lists every table children first so deletes never trip a foreign key
var clearOrder = []string{
	"student_courses",
	"lecturer_courses",
	"students",
	"lecturers",
	"refresh_tokens",
	"profiles",
	"courses",
	"departments",
}

// ClearAll deletes every row of every domain table. Callers run it inside a
// transaction together with whatever repopulates the tables.
func (r *Repositories) ClearAll(ctx context.Context) error {
	for _, table := range clearOrder {
		sql, args, err := r.sb.Delete(table).ToSql()
		if err != nil {
			logger.Error().Err(err).Str("table", table).Msg("Error building clear table SQL")
			return fmt.Errorf("failed to build clear query for %s: %w", table, err)
		}

		if _, err := r.db.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Str("table", table).Msg("Error clearing table")
			return fmt.Errorf("error clearing %s: %w", table, err)
		}
	}
	return nil
}
