package auth

import (
	"fmt"

	"github.com/yigit/unimanage/internal/pkg/apperrors"
)

// PolicyHandler is a predicate over an ability, declared per route.
type PolicyHandler func(Ability) bool

// Allow builds a policy requiring action on subject
func Allow(action Action, subject Subject) PolicyHandler {
	return func(a Ability) bool {
		return a.Can(action, subject)
	}
}

// ReadPolicy requires Read on subject
func ReadPolicy(subject Subject) PolicyHandler { return Allow(ActionRead, subject) }

// CreatePolicy requires Create on subject
func CreatePolicy(subject Subject) PolicyHandler { return Allow(ActionCreate, subject) }

// UpdatePolicy requires Update on subject
func UpdatePolicy(subject Subject) PolicyHandler { return Allow(ActionUpdate, subject) }

// DeletePolicy requires Delete on subject
func DeletePolicy(subject Subject) PolicyHandler { return Allow(ActionDelete, subject) }

// ManagePolicy requires Manage on subject. Pass SubjectAll for admin-only routes.
func ManagePolicy(subject Subject) PolicyHandler { return Allow(ActionManage, subject) }

// ForbiddenMessage is the single client-facing message for every 403.
const ForbiddenMessage = "Forbidden resource"

// EvaluatePolicies runs handlers in order and stops at the first denial.
func EvaluatePolicies(ability Ability, handlers ...PolicyHandler) bool {
	for _, handler := range handlers {
		if handler == nil || !handler(ability) {
			return false
		}
	}
	return true
}

// RequireAbility returns a policy-denied error unless ability grants action on subject.
func RequireAbility(ability Ability, action Action, subject Subject) error {
	if ability.Can(action, subject) {
		return nil
	}
	return &apperrors.CustomError{
		Err:     fmt.Errorf("%w: cannot %s %s", apperrors.ErrPermissionDenied, action, subject),
		Message: ForbiddenMessage,
		Code:    apperrors.CodePolicyDenied,
	}
}
