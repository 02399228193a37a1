package employmenttype

import (
	"errors"
	"strings"

	employmenttypeerrors "go-payroll/internal/employmenttype/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employmenttypeerrors.ErrEmploymentTypeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_employment_type_name" {
			return employmenttypeerrors.ErrEmploymentTypeNameTaken
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_employment_type_name") {
		return employmenttypeerrors.ErrEmploymentTypeNameTaken
	}

	return err
}
