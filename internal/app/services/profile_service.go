package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/app/models/dto"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
	"github.com/yigit/unimanage/internal/pkg/auth"
)

// ProfileService defines profile operations
type ProfileService interface {
	Create(ctx context.Context, req *dto.CreateProfileRequest) (*models.Profile, error)
	FindAll(ctx context.Context, filter dto.ProfileFilter) ([]*models.Profile, error)
	FindOne(ctx context.Context, id int64) (*models.Profile, error)
	Update(ctx context.Context, id int64, req *dto.UpdateProfileRequest) (*models.Profile, error)
	Remove(ctx context.Context, id int64) error
}

type profileServiceImpl struct {
	profiles ProfileStore
	logger   zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles ProfileStore, logger zerolog.Logger) ProfileService {
	return &profileServiceImpl{
		profiles: profiles,
		logger:   logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseRole(value string) (models.Role, error) {
	if strings.TrimSpace(value) == "" {
		return models.DefaultRole, nil
	}
	role, ok := models.ParseRole(value)
	if !ok {
		return "", apperrors.NewValidationError("role must be one of: ADMIN FACULTY STUDENT GUEST")
	}
	return role, nil
}

// Create registers a profile. The role defaults to GUEST.
func (s *profileServiceImpl) Create(ctx context.Context, req *dto.CreateProfileRequest) (*models.Profile, error) {
	role, err := parseRole(req.Role)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, apperrors.NewStorageError("failed to hash password", err)
	}

	profile := &models.Profile{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     normalizeEmail(req.Email),
		Password:  hash,
		Role:      role,
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, storeError(s.logger, err, "failed to create profile")
	}

	profile.Password = ""
	s.logger.Info().Int64("profileID", profile.ID).Str("role", string(profile.Role)).Msg("Profile created")
	return profile, nil
}

// FindAll lists profiles, optionally only the one with the given email
func (s *profileServiceImpl) FindAll(ctx context.Context, filter dto.ProfileFilter) ([]*models.Profile, error) {
	profiles, err := s.profiles.List(ctx, normalizeEmail(filter.Email))
	if err != nil {
		return nil, storeError(s.logger, err, "failed to list profiles")
	}
	return profiles, nil
}

// FindOne returns a profile or a not-found error naming the id
func (s *profileServiceImpl) FindOne(ctx context.Context, id int64) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(s.logger, err, "Profile", id)
	}
	return profile, nil
}

// Update merges the supplied fields. Whether the caller may change the role
// is decided before this is called.
func (s *profileServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	fields := make(map[string]interface{})
	if req.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		fields["email"] = normalizeEmail(*req.Email)
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to hash password")
			return nil, apperrors.NewStorageError("failed to hash password", err)
		}
		fields["password"] = hash
	}
	if req.Role != nil {
		role, ok := models.ParseRole(*req.Role)
		if !ok {
			return nil, apperrors.NewValidationError("role must be one of: ADMIN FACULTY STUDENT GUEST")
		}
		fields["role"] = role
	}

	profile, err := s.profiles.Update(ctx, id, fields)
	if err != nil {
		return nil, lookupError(s.logger, err, "Profile", id)
	}
	return profile, nil
}

// Remove deletes a profile together with its student and lecturer records
func (s *profileServiceImpl) Remove(ctx context.Context, id int64) error {
	if err := s.profiles.Delete(ctx, id); err != nil {
		return lookupError(s.logger, err, "Profile", id)
	}
	s.logger.Info().Int64("profileID", id).Msg("Profile removed")
	return nil
}
