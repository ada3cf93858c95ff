package router

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shravanasati/eventware/eventware"
	"github.com/shravanasati/eventware/metrics"
	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

// Methods lists the verbs a route spec may start with.
var Methods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

// NotFound is the terminal handler of every dispatch: 404 with
// {"error": "Not found"}, then Done.
func NotFound(_ *request.Request, res *response.Response, radio *eventware.Radio) {
	res.Status = response.StatusNotFound
	res.Body = response.NotFoundBody()
	radio.Done()
}

// RouterOptions configures a Router. A nil *RouterOptions uses the defaults.
type RouterOptions struct {
	// NotFound replaces the terminal handler appended to every chain.
	NotFound eventware.Handler

	// Metrics, when set, records the outcome of every dispatch.
	Metrics *metrics.Collector
}

// Router holds routes sorted by precedence and dispatches requests to them.
//
// Precedence: exact routes before pattern routes, and inside each group the
// shorter pattern first, ties kept in registration order. The length rule is
// a heuristic, not a "most specific wins" guarantee: "~/.*" sorts before
// "~/users/[0-9]+" and will shadow it.
//
// Registration and dispatch may happen from different goroutines.
type Router struct {
	mu       sync.RWMutex
	routes   []*Route
	notFound eventware.Handler
	metrics  *metrics.Collector
}

// NewRouter creates a router.
func NewRouter(opts *RouterOptions) *Router {
	r := &Router{notFound: NotFound}
	if opts != nil {
		if opts.NotFound != nil {
			r.notFound = opts.NotFound
		}
		r.metrics = opts.Metrics
	}
	return r
}

// ParseSpec splits "<METHOD> <pattern>". The method is the longest verb of
// Methods the spec starts with, or "" when none does. The pattern is whatever
// follows the first space, or the whole spec when there is no space.
func ParseSpec(spec string) (method, pattern string) {
	for _, verb := range Methods {
		if strings.HasPrefix(spec, verb) && len(verb) > len(method) {
			method = verb
		}
	}
	if i := strings.IndexByte(spec, ' '); i >= 0 {
		pattern = spec[i+1:]
	} else {
		pattern = spec
	}
	return method, pattern
}

// Route registers h for a spec such as "GET /cart" or "POST ~/items/[0-9]+".
// Registering the same spec again appends to that route's chain.
func (r *Router) Route(spec string, h eventware.Handler) {
	method, pattern := ParseSpec(spec)
	r.Handle(method, pattern, h)
}

// Handle registers h for an already split method and pattern.
func (r *Router) Handle(method, pattern string, h eventware.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.routes, func(rt *Route) bool {
		return rt.method == method && rt.pattern == pattern
	})
	var route *Route
	if idx >= 0 {
		route = r.routes[idx]
	} else {
		route = NewRoute(method, pattern)
		r.routes = append(r.routes, route)
		r.sortRoutes()
	}
	route.Handle(h)
}

func (r *Router) Get(pattern string, h eventware.Handler)     { r.Handle("GET", pattern, h) }
func (r *Router) Post(pattern string, h eventware.Handler)    { r.Handle("POST", pattern, h) }
func (r *Router) Put(pattern string, h eventware.Handler)     { r.Handle("PUT", pattern, h) }
func (r *Router) Patch(pattern string, h eventware.Handler)   { r.Handle("PATCH", pattern, h) }
func (r *Router) Delete(pattern string, h eventware.Handler)  { r.Handle("DELETE", pattern, h) }
func (r *Router) Head(pattern string, h eventware.Handler)    { r.Handle("HEAD", pattern, h) }
func (r *Router) Options(pattern string, h eventware.Handler) { r.Handle("OPTIONS", pattern, h) }

func (r *Router) sortRoutes() {
	slices.SortStableFunc(r.routes, func(a, b *Route) int {
		if ga, gb := a.matcher.group(), b.matcher.group(); ga != gb {
			return ga - gb
		}
		return len(a.pattern) - len(b.pattern)
	})
}

// Routes returns the registry in precedence order.
func (r *Router) Routes() []*Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.routes)
}

// Match returns the first route in precedence order that matches, or nil.
func (r *Router) Match(method, path string) *Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.match(method, path)
}

func (r *Router) match(method, path string) *Route {
	for _, rt := range r.routes {
		if rt.Match(method, path) {
			return rt
		}
	}
	return nil
}

// lookup picks the route for req and snapshots its chain.
func (r *Router) lookup(req *request.Request) (*Route, []eventware.Handler) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route := r.match(req.Method, req.Path)
	if route == nil {
		return nil, nil
	}
	if params := route.Params(req.Path); params != nil {
		req.PathParams = params
	}
	return route, route.Handlers()
}

// Dispatch runs the chain of the matching route followed by the not-found
// handler. callback is called once when the chain settles: with nil for Ok
// and Done, with the cause for Error. A nil callback is allowed.
func (r *Router) Dispatch(req *request.Request, res *response.Response, callback func(error)) {
	if callback == nil {
		callback = func(error) {}
	}
	r.Handler()(req, res, eventware.NewRadio(func(o eventware.Outcome) {
		callback(o.Err)
	}))
}

// Handler returns Dispatch as a Handler, so a router can sit inside a larger
// chain. It never reports Ok unless a custom not-found handler does.
func (r *Router) Handler() eventware.Handler {
	return func(req *request.Request, res *response.Response, radio *eventware.Radio) {
		route, chain := r.lookup(req)
		r.run(route, append(chain, r.notFound), req, res, radio, true)
	}
}

// Mount returns the matching route's chain without the not-found handler. It
// reports Ok when nothing matches, so several routers can be tried in turn.
func (r *Router) Mount() eventware.Handler {
	return func(req *request.Request, res *response.Response, radio *eventware.Radio) {
		route, chain := r.lookup(req)
		r.run(route, chain, req, res, radio, route != nil)
	}
}

func (r *Router) run(route *Route, chain []eventware.Handler, req *request.Request, res *response.Response, radio *eventware.Radio, observe bool) {
	if r.metrics == nil || !observe {
		eventware.Serial(chain...)(req, res, radio)
		return
	}

	label := metrics.NoRoute
	if route != nil {
		label = route.pattern
	}
	start := time.Now()
	eventware.Serial(chain...)(req, res, eventware.NewRadio(func(o eventware.Outcome) {
		r.metrics.Observe(req.Method, label, o, time.Since(start))
		radio.Report(o)
	}))
}
