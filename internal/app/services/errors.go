package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
)

// notFound builds the "<Entity> with ID <id> not found" error
func notFound(entity string, id int64) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("%s with ID %d not found", entity, id))
}

// storeError passes typed application errors through and wraps anything else
// as a storage failure after logging it.
func storeError(log zerolog.Logger, err error, format string, args ...interface{}) error {
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) {
		return err
	}

	message := fmt.Sprintf(format, args...)
	log.Error().Err(err).Msg(message)
	return apperrors.NewStorageError(message, err)
}

// lookupError maps a repository not-found error to the entity message and wraps the rest
func lookupError(log zerolog.Logger, err error, entity string, id int64) error {
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		var customErr *apperrors.CustomError
		if errors.As(err, &customErr) {
			return err
		}
		return notFound(entity, id)
	}
	return storeError(log, err, "failed to load %s with id %d", strings.ToLower(entity), id)
}
