// Package middleware adapts next(err) style middleware to eventware
// handlers and ships a few ready-made handlers.
package middleware

import (
	"github.com/shravanasati/eventware/eventware"
	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

// Next continues a middleware chain. A non-nil err skips whatever is left.
type Next func(err error)

// Middleware does its work and calls next exactly once.
type Middleware func(req *request.Request, res *response.Response, next Next)

// Errorware reacts to an error raised earlier in the chain.
type Errorware func(err error, req *request.Request, res *response.Response, next Next)

// Compose chains mws into one Middleware. The first error short-circuits
// to the outer next; with no middleware the outer next gets nil.
func Compose(mws ...Middleware) Middleware {
	chain := make([]Middleware, 0, len(mws))
	for _, m := range mws {
		if m != nil {
			chain = append(chain, m)
		}
	}

	return func(req *request.Request, res *response.Response, next Next) {
		var step func(i int)
		step = func(i int) {
			if i == len(chain) {
				next(nil)
				return
			}
			chain[i](req, res, func(err error) {
				if err != nil {
					next(err)
					return
				}
				step(i + 1)
			})
		}
		step(0)
	}
}

// ComposeErrorware chains ews. Every errorware receives the original error,
// whatever the previous one passed to next, and the outer next receives it
// too once the last one is through.
func ComposeErrorware(ews ...Errorware) Errorware {
	chain := make([]Errorware, 0, len(ews))
	for _, ew := range ews {
		if ew != nil {
			chain = append(chain, ew)
		}
	}

	return func(err error, req *request.Request, res *response.Response, next Next) {
		var step func(i int)
		step = func(i int) {
			if i == len(chain) {
				next(err)
				return
			}
			chain[i](err, req, res, func(error) { step(i + 1) })
		}
		step(0)
	}
}

// Eventware turns m into a Handler: next(nil) reports Ok and next(err)
// reports Error.
func Eventware(m Middleware) eventware.Handler {
	if m == nil {
		return eventware.Noop
	}
	return func(req *request.Request, res *response.Response, radio *eventware.Radio) {
		m(req, res, radio.Next)
	}
}

// Rescue runs h and hands an Error to ew. If ew calls next(nil) the error
// counts as handled and the chain ends with Done; next(err) keeps it an
// Error. Ok and Done from h pass through untouched.
func Rescue(h eventware.Handler, ew Errorware) eventware.Handler {
	if h == nil {
		h = eventware.Noop
	}
	if ew == nil {
		return h
	}

	return func(req *request.Request, res *response.Response, radio *eventware.Radio) {
		h(req, res, eventware.NewRadio(func(o eventware.Outcome) {
			if o.Kind != eventware.KindError {
				radio.Report(o)
				return
			}
			ew(o.Err, req, res, func(err error) {
				if err != nil {
					radio.Error(err)
					return
				}
				radio.Done()
			})
		}))
	}
}
