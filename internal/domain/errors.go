package domain

import "errors"

// Validation errors for reading requests and visibility options.
var (
	ErrUnknownKind       = errors.New("unknown reading kind")
	ErrEmptyInput        = errors.New("reading input is empty")
	ErrInvalidCards      = errors.New("tarot readings need exactly 3 distinct cards")
	ErrInvalidCategory   = errors.New("unknown fortune category")
	ErrInvalidVisibility = errors.New("visibility must be private, unlisted or public")
)
