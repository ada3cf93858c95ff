package response

import "errors"

// ErrInvalidWriterState is returned when parts of a response are written out of order.
var ErrInvalidWriterState = errors.New("invalid writer state")

// ErrUnencodableBody is returned when Body cannot be marshalled to JSON.
var ErrUnencodableBody = errors.New("response body cannot be encoded")
