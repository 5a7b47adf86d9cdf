package post

import "errors"

var (
	ErrNotFound     = errors.New("post not found")
	ErrForbidden    = errors.New("no permission")
	ErrConflict     = errors.New("post already exists")
	ErrInvalidInput = errors.New("invalid post request")

	// ErrStorage wraps every fault raised by the store.
	ErrStorage = errors.New("storage failure")
)
