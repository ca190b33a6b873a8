package catalog

import "errors"

var (
	// ErrNotFound is returned when a category id does not exist.
	ErrNotFound = errors.New("category not found")
	// ErrDuplicate is returned when a category name is already taken.
	ErrDuplicate = errors.New("category already exists")
	// ErrNameRequired is returned when the create payload has no name.
	ErrNameRequired = errors.New("category name is required")
)
