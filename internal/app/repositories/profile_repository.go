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
	"github.com/yigit/unimanage/internal/pkg/logger"
)

const profileEmailConstraint = "profiles_email_key"

var profileColumns = []string{"id", "first_name", "last_name", "email", "role", "created_at", "updated_at"}

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func duplicateEmail(err error, email string) error {
	if dberrors.IsDuplicateConstraintError(err, profileEmailConstraint) {
		return apperrors.NewConflictError(fmt.Sprintf("Profile with email %s already exists", email))
	}
	return nil
}

// Create inserts profile and fills in its generated fields. Password must already be hashed.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	sql, args, err := r.sb.Insert("profiles").
		Columns("first_name", "last_name", "email", "password", "role").
		Values(profile.FirstName, profile.LastName, profile.Email, profile.Password, profile.Role).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create profile SQL")
		return fmt.Errorf("failed to build create profile query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if conflict := duplicateEmail(err, profile.Email); conflict != nil {
			return conflict
		}
		logger.Error().Err(err).Str("email", profile.Email).Msg("Error executing create profile query")
		return fmt.Errorf("error creating profile: %w", err)
	}

	return nil
}

// GetByID retrieves a profile without its password hash
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get profile SQL")
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("profileID", id).Msg("Error retrieving profile")
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}

	return profile, nil
}

// GetCredentialsByEmail retrieves a profile including its password hash
func (r *ProfileRepository) GetCredentialsByEmail(ctx context.Context, email string) (*models.Profile, error) {
	sql, args, err := r.sb.Select("id", "first_name", "last_name", "email", "password", "role", "created_at", "updated_at").
		From("profiles").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get credentials SQL")
		return nil, fmt.Errorf("failed to build get credentials query: %w", err)
	}

	var p models.Profile
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Password, &p.Role, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error retrieving profile credentials")
		return nil, fmt.Errorf("error retrieving profile credentials: %w", err)
	}

	return &p, nil
}

// List returns every profile, or only the one matching email when it is set
func (r *ProfileRepository) List(ctx context.Context, email string) ([]*models.Profile, error) {
	query := r.sb.Select(profileColumns...).From("profiles").OrderBy("id")
	if email != "" {
		query = query.Where(squirrel.Eq{"email": email})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list profiles SQL")
		return nil, fmt.Errorf("failed to build list profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list profiles query")
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*models.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning profile row")
			return nil, fmt.Errorf("error scanning profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return profiles, nil
}

// Update applies fields (column -> value) and returns the updated profile
func (r *ProfileRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Profile, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	sql, args, err := r.sb.Update("profiles").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, first_name, last_name, email, role, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update profile SQL")
		return nil, fmt.Errorf("failed to build update profile query: %w", err)
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if email, ok := fields["email"].(string); ok {
			if conflict := duplicateEmail(err, email); conflict != nil {
				return nil, conflict
			}
		}
		logger.Error().Err(err).Int64("profileID", id).Msg("Error executing update profile query")
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	return profile, nil
}

// Delete removes a profile, cascading to its student and lecturer records
func (r *ProfileRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "profiles", id)
}

// Exists reports whether a profile with id exists
func (r *ProfileRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.db, r.sb, "profiles", id)
}

// deleteByID deletes one row of table and returns ErrNotFound when nothing matched
func deleteByID(ctx context.Context, db DBTX, sb squirrel.StatementBuilderType, table string, id int64) error {
	sql, args, err := sb.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error building delete SQL")
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	cmdTag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Int64("id", id).Msg("Error executing delete query")
		return fmt.Errorf("error deleting from %s: %w", table, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// existsByID reports whether table has a row with id
func existsByID(ctx context.Context, db DBTX, sb squirrel.StatementBuilderType, table string, id int64) (bool, error) {
	sub, args, err := sb.Select("1").From(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error building exists SQL")
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var exists bool
	if err := db.QueryRow(ctx, "SELECT EXISTS("+sub+")", args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("table", table).Int64("id", id).Msg("Error checking existence")
		return false, fmt.Errorf("error checking %s existence: %w", table, err)
	}

	return exists, nil
}
