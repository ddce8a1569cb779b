package repository

import (
	"errors"
	"fmt"

	"catalog_admin/internal/domain"

	"github.com/lib/pq"
)

// translatePqError maps constraint failures to domain errors and returns nil for
// anything it does not recognise.
func translatePqError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	switch pqErr.Code {
	case "23514", "23502":
		return fmt.Errorf("%w: constraint violation: %s", domain.ErrInvalidInput, pqErr.Message)
	case "22P02", "22003":
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pqErr.Message)
	}
	return nil
}
