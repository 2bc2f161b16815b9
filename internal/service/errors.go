package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "blogapi/internal/errors"
)

const entityCacheTTL = 5 * time.Minute

// classifyWriteError turns the result of a transactional create/update into a
// domain error. Domain errors raised inside the transaction pass through;
// a unique-constraint violation at commit time is reclassified as
// ErrDuplicateName because the store's constraint, not the advisory pre-check,
// is authoritative. Anything else rolled back and is an opaque storage failure.
func classifyWriteError(err error) error {
	switch {
	case errors.Is(err, apperrors.ErrDuplicateName),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrInvalidName),
		errors.Is(err, apperrors.ErrUserExists):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ErrDuplicateName
	default:
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
}
