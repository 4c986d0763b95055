package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authz "github.com/yigit/unimanage/internal/app/auth"
	"github.com/yigit/unimanage/internal/app/models/dto"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
	"github.com/yigit/unimanage/internal/pkg/logger"
)

const denialReasonOwnership = "ownership"

// messageOr returns the CustomError message of err or fallback
func messageOr(err error, fallback string) string {
	if msg := apperrors.MessageOf(err); msg != "" {
		return msg
	}
	return fallback
}

// errorResponse maps an application error to its status code and error detail
func errorResponse(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, messageOr(err, "Validation failed"))
		var customErr *apperrors.CustomError
		if errors.As(err, &customErr) && len(customErr.Details) > 0 {
			detail = detail.WithDetails(customErr.Details)
		}
		return http.StatusBadRequest, detail
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, messageOr(err, "Bad request"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, messageOr(err, "Token expired"))
	case errors.Is(err, apperrors.ErrTokenRevoked):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenRevoked, messageOr(err, "Token revoked"))
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, messageOr(err, "Invalid token"))
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, messageOr(err, "Authentication required"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		// policy and ownership denials look the same to clients
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, authz.ForbiddenMessage)
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, messageOr(err, "Resource not found"))
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, messageOr(err, "Resource already exists"))
	case errors.Is(err, apperrors.ErrStorage):
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Internal server error")
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// HandleAPIError is the single place application errors become HTTP responses.
// It aborts the chain, so handlers return right after calling it.
func HandleAPIError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, detail := errorResponse(err)

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	case status == http.StatusForbidden:
		code := apperrors.CodeOf(err)
		if code == apperrors.CodeOwnershipDenied {
			currentMetrics(c).ObserveDenial(denialReasonOwnership)
		}
		logger.Debug().Str("code", code).Str("path", c.Request.URL.Path).Msg("Forbidden")
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// HandleBindingError answers 400 with field level details for a failed bind
func HandleBindingError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
