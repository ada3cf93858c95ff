package request

import "errors"

var ErrIncorrectRequestLine = errors.New("incorrect request line")
var ErrIncompleteRequest = errors.New("incomplete request")
var ErrLineTooLong = errors.New("line too long")
var ErrInvalidContentLength = errors.New("invalid content-length")
var ErrAmbiguousLength = errors.New("both content-length and transfer-encoding present")
var ErrUnsupportedTransferEncoding = errors.New("last transfer encoding must be chunked")
var ErrBodyTooLarge = errors.New("request body too large")
var ErrMalformedChunk = errors.New("malformed chunk")
var ErrMalformedQuery = errors.New("malformed query string")

// ErrInvalidJSONBody is stored in Request.BodyError; it never fails parsing.
var ErrInvalidJSONBody = errors.New("invalid-json-body")
