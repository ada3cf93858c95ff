package middleware

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/shravanasati/eventware/eventware"
	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

var safeMethods = []string{"GET", "HEAD", "OPTIONS", "TRACE"}

func defaultDeny(_ *request.Request, res *response.Response, radio *eventware.Radio) {
	res.WithStatusCode(response.StatusForbidden)
	radio.Done()
}

func validateOrigin(o string) error {
	u, err := url.Parse(o)
	if err != nil {
		return fmt.Errorf("invalid origin %q: %w", o, err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("invalid origin %q: scheme is required", o)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid origin %q: host is required", o)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("invalid origin %q: path, query, and fragment are not allowed", o)
	}
	return nil
}

// CORF rejects cross-origin requests with unsafe methods, the way
// net/http's CrossOriginProtection does.
type CORF struct {
	trustedMu      sync.RWMutex
	trustedOrigins map[string]bool
	deny           atomic.Pointer[eventware.Handler] // nil means defaultDeny
}

// NewCORF fails when one of trustedOrigins is not a bare scheme://host origin.
func NewCORF(trustedOrigins ...string) (*CORF, error) {
	c := &CORF{trustedOrigins: make(map[string]bool)}
	for _, o := range trustedOrigins {
		if err := validateOrigin(o); err != nil {
			return nil, err
		}
		c.trustedOrigins[o] = true
	}
	return c, nil
}

func (c *CORF) AddTrustedOrigin(origin string) error {
	if err := validateOrigin(origin); err != nil {
		return err
	}
	c.trustedMu.Lock()
	defer c.trustedMu.Unlock()
	if c.trustedOrigins == nil {
		c.trustedOrigins = make(map[string]bool)
	}
	c.trustedOrigins[origin] = true
	return nil
}

// SetDenyHandler replaces the 403 answer for rejected requests; nil restores it.
func (c *CORF) SetDenyHandler(h eventware.Handler) {
	if h == nil {
		c.deny.Store(nil)
		return
	}
	c.deny.Store(&h)
}

func (c *CORF) effectiveDeny() eventware.Handler {
	if p := c.deny.Load(); p != nil {
		return *p
	}
	return defaultDeny
}

// Handler reports Ok for requests that pass and runs the deny handler for
// the rest.
func (c *CORF) Handler() eventware.Handler {
	return func(req *request.Request, res *response.Response, radio *eventware.Radio) {
		if c.allowed(req) {
			radio.Ok()
			return
		}
		c.effectiveDeny()(req, res, radio)
	}
}

func (c *CORF) allowed(req *request.Request) bool {
	if slices.Contains(safeMethods, req.Method) {
		return true
	}

	origin := req.Headers.Get("origin")
	c.trustedMu.RLock()
	trusted := origin != "" && c.trustedOrigins[origin]
	c.trustedMu.RUnlock()
	if trusted {
		return true
	}

	if secFetchSite := strings.ToLower(req.Headers.Get("sec-fetch-site")); secFetchSite != "" {
		return secFetchSite == "same-origin" || secFetchSite == "none"
	}

	if origin == "" {
		// not a browser request
		return true
	}

	o, err := url.Parse(origin)
	return err == nil && o.Host == req.Headers.Get("host")
}
