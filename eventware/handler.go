package eventware

import (
	"context"
	"slices"

	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

// Handler does some work on a request and reports exactly one outcome on
// radio, either before returning or later from any goroutine.
//
// req and res belong to the caller and are shared with every other handler
// of the chain. Handlers composed with Parallel may run at the same time and
// must only make commutative or idempotent writes to them.
type Handler func(req *request.Request, res *response.Response, radio *Radio)

// Noop reports Ok immediately.
func Noop(_ *request.Request, _ *response.Response, radio *Radio) {
	radio.Ok()
}

// Func adapts a synchronous function: nil continues the chain, an error
// stops it.
func Func(fn func(*request.Request, *response.Response) error) Handler {
	return func(req *request.Request, res *response.Response, radio *Radio) {
		radio.Next(fn(req, res))
	}
}

// Final adapts a synchronous function that always ends the chain with Done.
func Final(fn func(*request.Request, *response.Response)) Handler {
	return func(req *request.Request, res *response.Response, radio *Radio) {
		fn(req, res)
		radio.Done()
	}
}

// Run invokes h and blocks until it reports or ctx ends. When ctx wins, h is
// not stopped; whatever it reports later is discarded.
func Run(ctx context.Context, h Handler, req *request.Request, res *response.Response) (Outcome, error) {
	ch := make(chan Outcome, 1)
	h(req, res, NewRadio(func(o Outcome) { ch <- o }))

	select {
	case o := <-ch:
		return o, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// compact copies handlers, skipping nil entries, so a composed handler never
// observes later changes to the caller's slice.
func compact(handlers []Handler) []Handler {
	return slices.DeleteFunc(slices.Clone(handlers), func(h Handler) bool { return h == nil })
}
