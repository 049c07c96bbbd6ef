// Package repository implements MySQL data access for the marketplace.
// Sentinel values defined here let handlers distinguish failure
// scenarios without inspecting driver errors.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert or update collides with
// existing state, such as registering a duplicate listing. Handlers
// translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
