package services

import (
	"errors"
	"fmt"
	"strings"

	"trendz_shop/internal/apperrors"

	"gorm.io/gorm"
)

// notFoundOr translates a missing record into a NotFound error naming the
// entity. Any other failure becomes a persistence error.
func notFoundOr(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("%s %d not found", entity, id)
	}
	return apperrors.Persistence(fmt.Sprintf("Failed to load %s %d", strings.ToLower(entity), id), err)
}
