package response

// StatusCode is an HTTP status code. The zero value means "not set yet".
type StatusCode int

const (
	StatusOK        StatusCode = 200
	StatusCreated   StatusCode = 201
	StatusAccepted  StatusCode = 202
	StatusNoContent StatusCode = 204

	StatusMovedPermanently  StatusCode = 301
	StatusFound             StatusCode = 302
	StatusSeeOther          StatusCode = 303
	StatusNotModified       StatusCode = 304
	StatusTemporaryRedirect StatusCode = 307
	StatusPermanentRedirect StatusCode = 308

	StatusBadRequest           StatusCode = 400
	StatusUnauthorized         StatusCode = 401
	StatusForbidden            StatusCode = 403
	StatusNotFound             StatusCode = 404
	StatusMethodNotAllowed     StatusCode = 405
	StatusConflict             StatusCode = 409
	StatusPayloadTooLarge      StatusCode = 413
	StatusUnsupportedMediaType StatusCode = 415
	StatusUnprocessableEntity  StatusCode = 422
	StatusTooManyRequests      StatusCode = 429
	StatusInternalServerError  StatusCode = 500
	StatusNotImplemented       StatusCode = 501
	StatusBadGateway           StatusCode = 502
	StatusServiceUnavailable   StatusCode = 503
	StatusGatewayTimeout       StatusCode = 504
)

var reasonPhrases = map[StatusCode]string{
	StatusOK:        "OK",
	StatusCreated:   "Created",
	StatusAccepted:  "Accepted",
	StatusNoContent: "No Content",

	StatusMovedPermanently:  "Moved Permanently",
	StatusFound:             "Found",
	StatusSeeOther:          "See Other",
	StatusNotModified:       "Not Modified",
	StatusTemporaryRedirect: "Temporary Redirect",
	StatusPermanentRedirect: "Permanent Redirect",

	StatusBadRequest:           "Bad Request",
	StatusUnauthorized:         "Unauthorized",
	StatusForbidden:            "Forbidden",
	StatusNotFound:             "Not Found",
	StatusMethodNotAllowed:     "Method Not Allowed",
	StatusConflict:             "Conflict",
	StatusPayloadTooLarge:      "Payload Too Large",
	StatusUnsupportedMediaType: "Unsupported Media Type",
	StatusUnprocessableEntity:  "Unprocessable Entity",
	StatusTooManyRequests:      "Too Many Requests",
	StatusInternalServerError:  "Internal Server Error",
	StatusNotImplemented:       "Not Implemented",
	StatusBadGateway:           "Bad Gateway",
	StatusServiceUnavailable:   "Service Unavailable",
	StatusGatewayTimeout:       "Gateway Timeout",
}

// GetStatusReason returns the reason phrase for s, or "" for unknown codes.
func GetStatusReason(s StatusCode) string {
	return reasonPhrases[s]
}

// noBody reports whether s forbids a message body.
func noBody(s StatusCode) bool {
	return (s >= 100 && s < 200) || s == StatusNoContent || s == StatusNotModified
}
