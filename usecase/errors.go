package usecase

import (
	"errors"

	"github.com/fastygo/taskdesk/domain"
)

// Internal classifies err as INTERNAL unless it already carries a domain code.
func Internal(message string, err error) error {
	if err == nil {
		return nil
	}
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.WrapError(domain.ErrCodeInternal, message, err)
}
