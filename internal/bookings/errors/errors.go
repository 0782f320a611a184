package errors

import "errors"

// ErrTimeConflict is the cause carried by the 409 returned when a
// requested interval overlaps an existing booking.
var ErrTimeConflict = errors.New("booking time conflicts with existing booking")
