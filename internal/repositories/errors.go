package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey indicates a unique-constraint violation. Callers
	// racing on account creation treat this as "already exists" and
	// re-resolve instead of failing.
	ErrDuplicateKey = errors.New("duplicate key")
)

// IsNotFoundError reports whether err is a missing-record error from this
// package or from gorm directly.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKeyError reports whether err is a unique-constraint violation.
func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey)
}
