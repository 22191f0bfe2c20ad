package store

import (
	"errors"
	"fmt"

	"country-registry/core/apperrors"

	"gorm.io/gorm"
)

// translate maps a gorm error onto the application error taxonomy.
func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrConflict, op, err)
	}
	return fmt.Errorf("%w: %s: %v", apperrors.ErrPersistence, op, err)
}
