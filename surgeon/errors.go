package surgeon

import "errors"

var (
	// ErrClassNotFound is returned when the source has no class declaration.
	ErrClassNotFound = errors.New("class declaration not found")
	// ErrMethodNotFound is returned when no method with the requested name
	// has a body in the class.
	ErrMethodNotFound = errors.New("method not found")
	// ErrNoFile is returned by Save when no file has been bound.
	ErrNoFile = errors.New("no file bound to the class")
)
