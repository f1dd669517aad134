package store

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptValue is returned when a stored value cannot be decoded.
	ErrCorruptValue = errors.New("stored value is corrupt")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown store backend")

	// ErrInvalidKey is returned for keys a backend cannot hold.
	ErrInvalidKey = errors.New("invalid store key")

	// ErrInvalidValue is returned when a value is refused before writing.
	ErrInvalidValue = errors.New("invalid value")
)

// StoreError wraps a backend failure with the operation and key involved.
type StoreError struct {
	Op  string
	Key string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store: %s %q failed: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("store: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *StoreError) Unwrap() error {
	return e.Err
}

func wrapError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &StoreError{Op: op, Key: key, Err: err}
}
