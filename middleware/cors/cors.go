// Package cors answers CORS preflights and decorates cross-origin responses.
// Adapted from https://github.com/go-chi/cors.
package cors

import (
	"slices"
	"strconv"
	"strings"

	"github.com/shravanasati/eventware/eventware"
	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

// Options configures a Cors handler.
type Options struct {
	// AllowedOrigins lists the origins a cross-domain request can come from.
	// "*" allows all of them, and an origin may hold one "*" wildcard
	// (http://*.domain.com). Default is ["*"].
	AllowedOrigins []string

	// AllowOriginFunc replaces AllowedOrigins when set.
	AllowOriginFunc func(req *request.Request, origin string) bool

	// AllowedMethods defaults to the simple methods HEAD, GET and POST.
	AllowedMethods []string

	// AllowedHeaders lists the non-simple headers a client may send. "*"
	// allows any. "Origin" is always allowed.
	AllowedHeaders []string

	// ExposedHeaders are the headers the client API may read.
	ExposedHeaders []string

	AllowCredentials bool

	// MaxAge is how long, in seconds, a preflight result may be cached.
	MaxAge int

	// OptionsPassthrough lets the chain continue after a preflight instead of
	// answering it here.
	OptionsPassthrough bool
}

type Cors struct {
	allowedOrigins  []string
	allowedWOrigins []wildcard
	allowOriginFunc func(req *request.Request, origin string) bool

	// lowercased
	allowedHeaders []string
	allowedMethods []string
	exposedHeaders []string
	maxAge         int

	allowedOriginsAll bool
	allowedHeadersAll bool

	allowCredentials  bool
	optionPassthrough bool
}

// New normalizes options into a Cors handler.
func New(options Options) *Cors {
	c := &Cors{
		exposedHeaders:    convert(options.ExposedHeaders, strings.ToLower),
		allowOriginFunc:   options.AllowOriginFunc,
		allowCredentials:  options.AllowCredentials,
		maxAge:            options.MaxAge,
		optionPassthrough: options.OptionsPassthrough,
	}

	// origins and methods are matched case-insensitively
	if len(options.AllowedOrigins) == 0 {
		c.allowedOriginsAll = options.AllowOriginFunc == nil
	} else {
		for _, origin := range options.AllowedOrigins {
			origin = strings.ToLower(origin)
			if origin == "*" {
				c.allowedOriginsAll = true
				c.allowedOrigins = nil
				c.allowedWOrigins = nil
				break
			}
			if i := strings.IndexByte(origin, '*'); i >= 0 {
				c.allowedWOrigins = append(c.allowedWOrigins, wildcard{origin[:i], origin[i+1:]})
			} else {
				c.allowedOrigins = append(c.allowedOrigins, origin)
			}
		}
	}

	if len(options.AllowedHeaders) == 0 {
		c.allowedHeaders = []string{"origin", "accept", "content-type"}
	} else if slices.Contains(options.AllowedHeaders, "*") {
		c.allowedHeadersAll = true
	} else {
		c.allowedHeaders = convert(append(slices.Clone(options.AllowedHeaders), "Origin"), strings.ToLower)
	}

	if len(options.AllowedMethods) == 0 {
		c.allowedMethods = []string{"GET", "POST", "HEAD"}
	} else {
		c.allowedMethods = convert(options.AllowedMethods, strings.ToUpper)
	}

	return c
}

// AllowAll is a permissive configuration: any origin, the standard methods,
// any header, no credentials.
func AllowAll() *Cors {
	return New(Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"DELETE", "HEAD", "GET", "POST", "PUT", "PATCH"},
		AllowedHeaders: []string{"*"},
	})
}

// Handler answers preflights with 200 and Done, unless OptionsPassthrough is
// set. Every other request gets its CORS headers and continues with Ok.
func (c *Cors) Handler() eventware.Handler {
	return func(req *request.Request, res *response.Response, radio *eventware.Radio) {
		if req.Method == "OPTIONS" && req.Headers.Get("access-control-request-method") != "" && req.Headers.Get("origin") != "" {
			c.handlePreflight(req, res)
			if c.optionPassthrough {
				radio.Ok()
				return
			}
			res.WithStatusCode(response.StatusOK)
			radio.Done()
			return
		}

		c.handleActualRequest(req, res)
		radio.Ok()
	}
}

func (c *Cors) handlePreflight(req *request.Request, res *response.Response) {
	origin := req.Headers.Get("origin")

	// see https://github.com/rs/cors/issues/10
	res.Headers.Add("vary", "Origin")
	res.Headers.Add("vary", "Access-Control-Request-Method")
	res.Headers.Add("vary", "Access-Control-Request-Headers")

	if !c.isOriginAllowed(req, origin) {
		return
	}
	reqMethod := req.Headers.Get("access-control-request-method")
	if !c.isMethodAllowed(reqMethod) {
		return
	}
	reqHeaders := parseHeaderList(req.Headers.Get("access-control-request-headers"))
	if !c.areHeadersAllowed(reqHeaders) {
		return
	}

	c.setAllowOrigin(res, origin)
	// echoing the requested method and headers is enough
	res.WithHeader("access-control-allow-methods", strings.ToUpper(reqMethod))
	if len(reqHeaders) > 0 {
		res.WithHeader("access-control-allow-headers", strings.Join(reqHeaders, ", "))
	}
	if c.allowCredentials {
		res.WithHeader("access-control-allow-credentials", "true")
	}
	if c.maxAge > 0 {
		res.WithHeader("access-control-max-age", strconv.Itoa(c.maxAge))
	}
}

func (c *Cors) handleActualRequest(req *request.Request, res *response.Response) {
	origin := req.Headers.Get("origin")

	res.Headers.Add("vary", "Origin")
	if origin == "" || !c.isOriginAllowed(req, origin) {
		return
	}
	// simple methods are checked too, which the CORS spec does not require
	if !c.isMethodAllowed(req.Method) {
		return
	}

	c.setAllowOrigin(res, origin)
	if len(c.exposedHeaders) > 0 {
		res.WithHeader("access-control-expose-headers", strings.Join(c.exposedHeaders, ", "))
	}
	if c.allowCredentials {
		res.WithHeader("access-control-allow-credentials", "true")
	}
}

func (c *Cors) setAllowOrigin(res *response.Response, origin string) {
	if c.allowedOriginsAll {
		res.WithHeader("access-control-allow-origin", "*")
	} else {
		res.WithHeader("access-control-allow-origin", origin)
	}
}

func (c *Cors) isOriginAllowed(req *request.Request, origin string) bool {
	if c.allowOriginFunc != nil {
		return c.allowOriginFunc(req, origin)
	}
	if c.allowedOriginsAll {
		return true
	}
	origin = strings.ToLower(origin)
	if slices.Contains(c.allowedOrigins, origin) {
		return true
	}
	return slices.ContainsFunc(c.allowedWOrigins, func(w wildcard) bool { return w.match(origin) })
}

func (c *Cors) isMethodAllowed(method string) bool {
	if len(c.allowedMethods) == 0 {
		return false
	}
	method = strings.ToUpper(method)
	if method == "OPTIONS" {
		return true
	}
	return slices.Contains(c.allowedMethods, method)
}

func (c *Cors) areHeadersAllowed(requested []string) bool {
	if c.allowedHeadersAll || len(requested) == 0 {
		return true
	}
	for _, h := range requested {
		if !slices.Contains(c.allowedHeaders, h) {
			return false
		}
	}
	return true
}
