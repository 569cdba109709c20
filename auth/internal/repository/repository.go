// Package repository holds errors shared by user repository
// implementations.
package repository

import "errors"

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)
