package registry

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateKey    = errors.New("duplicate registry key")
	ErrValueRegistered = errors.New("value already registered")
	ErrModuleLocked    = errors.New("module is locked")
	ErrModuleLoaded    = errors.New("module already loaded")
	ErrKeyNotFound     = errors.New("registry key not found")
	ErrValidation      = errors.New("registry validation failed")
)

// KeyFormatError reports a registry key string that could not be parsed.
type KeyFormatError struct {
	Raw    string
	Reason string
}

func (e *KeyFormatError) Error() string {
	return fmt.Sprintf("malformed registry key %q: %s", e.Raw, e.Reason)
}
