package postgres

import (
	"errors"

	"github.com/lib/pq"

	"github.com/caucusdesk/caucusdesk/pkg/repository"
)

// PostgreSQL error codes classified by TranslateError.
const (
	uniqueViolation     = pq.ErrorCode("23505")
	foreignKeyViolation = pq.ErrorCode("23503")
)

// TranslateError converts pq constraint violations into repository
// conflict errors so callers never depend on the driver. Other errors
// pass through unchanged. Implements repository.ErrorTranslator.
func (a *Adapter) TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case uniqueViolation:
		return &repository.ConflictError{
			Kind:       repository.ConflictDuplicate,
			Constraint: pqErr.Constraint,
		}
	case foreignKeyViolation:
		return &repository.ConflictError{
			Kind:       repository.ConflictReferenced,
			Constraint: pqErr.Constraint,
		}
	default:
		return err
	}
}
