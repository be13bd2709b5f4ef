package match

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState          = errors.New("invalid match state")
	ErrMatchTerminated       = errors.New("match already terminated")
	ErrComponentNotFound     = errors.New("component not found")
	ErrComponentCollision    = errors.New("component type already present")
	ErrComponentUnregistered = errors.New("component type not registered")
)

// ComponentNotFoundError names the component type a lookup asked for.
type ComponentNotFoundError struct {
	Type string
}

func (e *ComponentNotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrComponentNotFound, e.Type)
}

func (e *ComponentNotFoundError) Unwrap() error {
	return ErrComponentNotFound
}
