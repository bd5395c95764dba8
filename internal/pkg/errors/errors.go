package errors

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalid    = errors.New("invalid")
	ErrConflict   = errors.New("conflict")
	ErrTooMany    = errors.New("too many requests")
	ErrInternal   = errors.New("internal")
	ErrNotIndexed = errors.New("investment not indexed")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsNotIndexed(err error) bool {
	return errors.Is(err, ErrNotIndexed)
}
