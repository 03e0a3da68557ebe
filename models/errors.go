package models

import "errors"

// Ошибки домена. Слои ниже оборачивают их через fmt.Errorf("%w: ...").
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrDuplicate       = errors.New("duplicate")
)
