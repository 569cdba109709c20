// Package repository holds errors shared by metadata cache
// implementations.
package repository

import "errors"

// ErrNotFound is returned when a requested record is absent.
var ErrNotFound = errors.New("not found")
