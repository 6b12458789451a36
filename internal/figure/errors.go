package figure

import "errors"

var (
	ErrDuplicateName    = errors.New("name already exists")
	ErrMissingName      = errors.New("name not found")
	ErrEmptyGroup       = errors.New("group is empty")
	ErrInvalidObject    = errors.New("not a renderable object")
	ErrInvalidShape     = errors.New("invalid shape")
	ErrInvalidDirection = errors.New("invalid button direction")
	ErrInvalidMethod    = errors.New("invalid button method")
	ErrInvalidCount     = errors.New("invalid object count")
)
