// Package repository defines the MySQL-backed credential store and the
// sentinel errors it reports.  Higher layers match these with errors.Is
// and never inspect driver errors themselves.
package repository

import "errors"

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// ErrEmailExists is returned when an insert violates the unique email
// index.  It is detected from the store's own rejection, never by a
// lookup before the insert.
var ErrEmailExists = errors.New("email already exists")
