// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	authz "github.com/yigit/unimanage/internal/app/auth"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/app/models/dto"
	"github.com/yigit/unimanage/internal/middleware"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
)

// OwnershipChecker decides whether the requester owns the target record
type OwnershipChecker interface {
	CheckOwnership(ctx context.Context, requester *models.Profile, subject authz.Subject, action authz.Action, targetID int64) error
}

func respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, dto.NewSuccessResponse(data))
}

// bindCourseIDs reads a bare JSON array of course ids
func bindCourseIDs(ctx *gin.Context) ([]int64, bool) {
	var ids []int64
	if err := ctx.ShouldBindJSON(&ids); err != nil {
		middleware.HandleBindingError(ctx, err)
		return nil, false
	}
	if ids == nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("body must be an array of course ids"))
		return nil, false
	}
	for _, id := range ids {
		if id <= 0 {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError(fmt.Sprintf("course id %d must be a positive integer", id)))
			return nil, false
		}
	}
	return ids, true
}

func parseOwnerAndCourse(ctx *gin.Context) (int64, int64, bool) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return 0, 0, false
	}
	courseID, ok := middleware.ParseIDParam(ctx, "courseId")
	if !ok {
		return 0, 0, false
	}
	return id, courseID, true
}
