package server

import (
	"errors"
	"fmt"

	"github.com/shravanasati/eventware/response"
)

// ErrHandlerTimeout is passed to OnError when a chain did not report within
// ServerOpts.HandlerTimeout.
var ErrHandlerTimeout = errors.New("handler did not report in time")

// HandlerError is an error a handler can report to pick the status and
// message the client sees, instead of the generic 500.
type HandlerError struct {
	StatusCode response.StatusCode
	Message    string
}

func NewHandlerError(statusCode response.StatusCode, message string) *HandlerError {
	return &HandlerError{StatusCode: statusCode, Message: message}
}

func (he *HandlerError) Error() string {
	return fmt.Sprintf("%d %s", he.StatusCode, he.Message)
}

// errorResponse renders err into res unless a handler already set a status.
func errorResponse(err error, res *response.Response) {
	if res.Status != 0 {
		return
	}

	var he *HandlerError
	if errors.As(err, &he) {
		res.WithStatusCode(he.StatusCode).WithBody(map[string]string{"error": he.Message})
		return
	}
	res.WithStatusCode(response.StatusInternalServerError).
		WithBody(map[string]string{"error": response.GetStatusReason(response.StatusInternalServerError)})
}
