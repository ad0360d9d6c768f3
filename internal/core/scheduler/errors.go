package scheduler

import "errors"

// Scheduler-specific errors
var (
	ErrSystemExists   = errors.New("system already registered")
	ErrSystemNotFound = errors.New("system not found")
	ErrNilSystem      = errors.New("system is nil")
)
