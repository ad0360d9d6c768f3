package plugin

import "errors"

// Host-specific errors
var (
	ErrAlreadyInstalled  = errors.New("plugin already installed")
	ErrNotInstalled      = errors.New("plugin not installed")
	ErrMissingDependency = errors.New("missing plugin dependency")
	ErrNilPlugin         = errors.New("plugin is nil")
)
