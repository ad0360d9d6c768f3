package world

import "errors"

// Store-specific errors
var (
	ErrDuplicateID = errors.New("entity id already exists")
	ErrNilEntity   = errors.New("entity is nil")
)
