package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
)

// StudentOwnerLookup resolves the profile that owns a student record.
type StudentOwnerLookup interface {
	GetProfileID(ctx context.Context, studentID int64) (int64, error)
}

type ownershipKey struct {
	subject Subject
	action  Action
}

// ownershipExemptions lists the roles that may act on records they do not own.
var ownershipExemptions = map[ownershipKey][]models.Role{
	{SubjectProfile, ActionRead}:   {models.RoleFaculty},
	{SubjectStudent, ActionRead}:   {models.RoleFaculty},
	{SubjectStudent, ActionUpdate}: {models.RoleFaculty},
}

// AuthorizationService refines policy decisions down to individual records.
type AuthorizationService struct {
	students StudentOwnerLookup
	logger   zerolog.Logger
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(students StudentOwnerLookup, logger zerolog.Logger) *AuthorizationService {
	return &AuthorizationService{
		students: students,
		logger:   logger,
	}
}

// IsExempt reports whether role may skip the ownership check for action on subject.
func IsExempt(role models.Role, subject Subject, action Action) bool {
	if role == models.RoleAdmin {
		return true
	}
	for _, exempt := range ownershipExemptions[ownershipKey{subject, action}] {
		if exempt == role {
			return true
		}
	}
	return false
}

// CheckOwnership returns nil when requester may perform action on the record
// targetID of subject, a 404 error when the record does not exist and an
// ownership-denied error otherwise.
func (s *AuthorizationService) CheckOwnership(ctx context.Context, requester *models.Profile, subject Subject, action Action, targetID int64) error {
	if requester == nil {
		return ownershipDenied(subject, targetID)
	}
	if IsExempt(requester.Role, subject, action) {
		return nil
	}

	ownerID, err := s.resolveOwner(ctx, subject, targetID)
	if err != nil {
		return err
	}

	if ownerID != requester.ID {
		s.logger.Warn().
			Int64("profileID", requester.ID).
			Str("role", string(requester.Role)).
			Str("subject", string(subject)).
			Str("action", string(action)).
			Int64("targetID", targetID).
			Msg("Ownership check denied")
		return ownershipDenied(subject, targetID)
	}

	return nil
}

// CanChangeRole reports whether ability allows assigning a new role to a profile.
func CanChangeRole(ability Ability) error {
	if ability.Can(ActionManage, SubjectProfile) {
		return nil
	}
	return &apperrors.CustomError{
		Err:     fmt.Errorf("%w: role change requires manage on Profile", apperrors.ErrPermissionDenied),
		Message: ForbiddenMessage,
		Code:    apperrors.CodeOwnershipDenied,
	}
}

func (s *AuthorizationService) resolveOwner(ctx context.Context, subject Subject, targetID int64) (int64, error) {
	switch subject {
	case SubjectProfile:
		return targetID, nil

	case SubjectStudent:
		if s.students == nil {
			return 0, apperrors.NewStorageError("student owner lookup is not configured", nil)
		}
		profileID, err := s.students.GetProfileID(ctx, targetID)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return 0, apperrors.NewResourceNotFoundError(fmt.Sprintf("Student with ID %d not found", targetID))
			}
			s.logger.Error().Err(err).Int64("studentID", targetID).Msg("Failed to resolve student owner")
			return 0, apperrors.NewStorageError(fmt.Sprintf("failed to resolve owner of student with id %d", targetID), err)
		}
		return profileID, nil
	}

	// subjects without ownership are decided by the ability table alone
	return 0, &apperrors.CustomError{
		Err:     fmt.Errorf("%w: no ownership rule for %s", apperrors.ErrPermissionDenied, subject),
		Message: ForbiddenMessage,
		Code:    apperrors.CodeOwnershipDenied,
	}
}

func ownershipDenied(subject Subject, targetID int64) error {
	return &apperrors.CustomError{
		Err:     fmt.Errorf("%w: not the owner of %s %d", apperrors.ErrPermissionDenied, subject, targetID),
		Message: ForbiddenMessage,
		Code:    apperrors.CodeOwnershipDenied,
	}
}
