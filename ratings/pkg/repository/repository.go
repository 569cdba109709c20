// Package repository holds errors shared by ratings repository
// implementations.
package repository

import "errors"

// ErrNotFound is returned when a requested record is absent.
var ErrNotFound = errors.New("not found")
