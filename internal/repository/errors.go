// Package repository contains the data access layer. This file defines
// error values and helpers shared across repositories so handlers can
// map failure scenarios to HTTP responses without string matching.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an insert or update violates a unique
// constraint (duplicate slug, duplicate email). Handlers translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrCycle is returned when a category parent change would make a node
// its own ancestor. Handlers translate this into a validation error.
var ErrCycle = errors.New("category cycle")

// isDuplicate reports whether err is a MySQL duplicate-key error (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
