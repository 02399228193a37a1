package compensation

import (
	"errors"

	compensationerrors "go-payroll/internal/compensation/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return compensationerrors.ErrCompensationNotFound
	}

	return err
}
