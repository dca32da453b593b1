package models

import "errors"

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique field (such as an email) is already taken.
var ErrConflict = errors.New("already exists")
