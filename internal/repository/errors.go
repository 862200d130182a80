// Package repository implements MySQL persistence for spaces,
// reservations, billings and occupancy logs, plus the sentinel errors
// that handlers translate into HTTP responses. Missing rows surface
// as sql.ErrNoRows; ErrForbidden marks ownership violations, such as
// a member reading another member's reservation.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete cannot be performed because
// of dependent records, such as removing a space that still has
// active reservations. Handlers should translate this into an HTTP
// 409 response.
var ErrConflict = errors.New("conflict")
