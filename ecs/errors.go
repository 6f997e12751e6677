package ecs

import "errors"

// Contract violations. Every one of these means the caller misused the API;
// they are returned wrapped with context and should be treated as fatal.
var (
	ErrPoolExhausted           = errors.New("entity pool exhausted")
	ErrEntityNotTaken          = errors.New("entity is not taken from the pool")
	ErrEntityNotAlive          = errors.New("entity is not alive")
	ErrUnregisteredComponent   = errors.New("unregistered component type")
	ErrNilComponent            = errors.New("component value is nil")
	ErrNilSystem               = errors.New("system is nil")
	ErrSystemAlreadyRegistered = errors.New("system already registered")
	ErrUnknownSystem           = errors.New("unknown system")
)
