// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them to user-facing outcomes instead of surfacing raw store errors.
package repository

import (
    "errors"
    "strings"
)

// ErrLimitReached is returned when a participant who already holds a live
// registration attempts to book another slot. Handlers should translate
// this into an HTTP 409 response with code LIMIT_REACHED.
var ErrLimitReached = errors.New("participant already has a registration")

// ErrSlotFull is returned when an activity timeslot is at capacity at
// submit time. Handlers should translate this into an HTTP 409 response
// with code SLOT_FULL.
var ErrSlotFull = errors.New("timeslot is full")

// ErrConflict is returned when a constraint violation slips past the
// pre-checks (a concurrent race loser) or when an operation cannot
// proceed because of conflicting state, such as cancelling a checked-in
// registration. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned when the requested row does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")

// isDuplicate reports whether err is a unique-constraint violation from
// either supported driver. MySQL reports error 1062 ("Duplicate entry"),
// SQLite reports "UNIQUE constraint failed".
func isDuplicate(err error) bool {
    if err == nil {
        return false
    }
    msg := err.Error()
    return strings.Contains(msg, "1062") ||
        strings.Contains(msg, "Duplicate entry") ||
        strings.Contains(msg, "UNIQUE constraint")
}

// isSerializationFailure reports whether err is the database aborting a
// transaction to resolve contention: MySQL deadlock (error 1213) or the
// standard 40001 serialization failure. Callers treat the aborted side the
// same way as a duplicate-key race loser.
func isSerializationFailure(err error) bool {
    if err == nil {
        return false
    }
    msg := err.Error()
    return strings.Contains(msg, "1213") ||
        strings.Contains(msg, "40001") ||
        strings.Contains(msg, "Deadlock found")
}

// timeLayout is the format timestamps are stored in. Writing and reading
// formatted strings keeps the repositories portable between MySQL and
// SQLite; all values are UTC.
const timeLayout = "2006-01-02 15:04:05"
