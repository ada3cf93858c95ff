package server

import (
	"log"
	"runtime/debug"
	"time"

	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

const defaultAddress = ":42069"

// Logger is called once per request after its response has been written.
type Logger func(req *request.Request, res *response.Response, elapsed time.Duration)

type ServerOpts struct {
	// The address for the server to listen on. Defaults to ":42069".
	Address string

	// ReadTimeout bounds reading the first request of a connection.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing each response.
	WriteTimeout time.Duration
	// KeepAliveTimeout is how long an idle connection waits for its next
	// request. Zero closes the connection after every response.
	KeepAliveTimeout time.Duration
	// HandlerTimeout bounds the wait for a chain to report. Zero waits forever.
	HandlerTimeout time.Duration

	// Recovery takes the value recovered from a handler panic and returns the
	// response written to the connection, which is closed afterwards.
	Recovery func(any) *response.Response

	// Logger, when set, receives every written response.
	Logger Logger

	// OnError receives the cause of every chain that ended with an error.
	OnError func(req *request.Request, err error)
}

func defaultRecovery(r any) *response.Response {
	log.Println("recovered from panic:", r)
	debug.PrintStack()
	return response.New().
		WithStatusCode(response.StatusInternalServerError).
		WithBody(response.GetStatusReason(response.StatusInternalServerError))
}

func defaultOnError(req *request.Request, err error) {
	log.Println("request", req.ID, "failed:", err)
}

func (opts ServerOpts) withDefaults() ServerOpts {
	if opts.Address == "" {
		opts.Address = defaultAddress
	}
	if opts.Recovery == nil {
		opts.Recovery = defaultRecovery
	}
	if opts.OnError == nil {
		opts.OnError = defaultOnError
	}
	return opts
}
