package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that no document matched a lookup key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername is returned when a username is already registered.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidInput wraps payload problems detected before touching the store.
	ErrInvalidInput = errors.New("invalid input")
)

// StoreError wraps a failure reported by the underlying document store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError returns nil when err is nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
