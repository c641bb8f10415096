package jurisdiction

import (
	"errors"
	"fmt"

	jurisdictionerrors "peopleflow-hr/internal/jurisdiction/errors"
	"peopleflow-hr/internal/shared/apperror"

	"gorm.io/gorm"
)

func mapRepositoryError(err error, code string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", jurisdictionerrors.ErrJurisdictionNotFound, code)
	}

	if apperror.IsUniqueViolation(err, "") {
		return fmt.Errorf("%w: %s", jurisdictionerrors.ErrDuplicateJurisdictionCode, code)
	}

	return err
}
