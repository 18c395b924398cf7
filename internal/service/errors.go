package service

import (
	"errors"

	"github.com/zlatanpham/exploro-sub001/internal/apperror"

	"gorm.io/gorm"
)

// notFoundAs translates gorm.ErrRecordNotFound into a domain error of the
// given kind and passes every other error through.
func notFoundAs(err error, kind apperror.Kind, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Newf(kind, format, args...)
	}
	return err
}
