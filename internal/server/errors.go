package server

import "errors"

// Gateway-specific errors
var (
	ErrGatewayClosed     = errors.New("gateway is closed")
	ErrMaxClientsReached = errors.New("maximum clients reached")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidEnvelope   = errors.New("invalid request envelope")
	ErrInvalidConfig     = errors.New("invalid gateway configuration")
)
