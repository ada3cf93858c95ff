package middleware

import (
	"testing"

	"github.com/shravanasati/eventware/eventware"
	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

// passes runs h and reports whether it let the chain continue.
func passes(h eventware.Handler, req *request.Request) (bool, *response.Response) {
	res := response.New()
	var out eventware.Outcome
	h(req, res, eventware.NewRadio(func(o eventware.Outcome) { out = o }))
	return out.Kind == eventware.KindOk, res
}

func TestCORFSecFetchSite(t *testing.T) {
	corf, err := NewCORF()
	if err != nil {
		t.Fatalf("NewCORF: %v", err)
	}
	handler := corf.Handler()

	tests := []struct {
		name         string
		method       string
		secFetchSite string
		origin       string
		allowed      bool
	}{
		{"same-origin allowed", "POST", "same-origin", "", true},
		{"none allowed", "POST", "none", "", true},
		{"cross-site blocked", "POST", "cross-site", "", false},
		{"same-site blocked", "POST", "same-site", "", false},

		{"no header with no origin", "POST", "", "", true},
		{"no header with matching origin", "POST", "", "https://example.com", true},
		{"no header with mismatched origin", "POST", "", "https://attacker.example", false},
		{"no header with null origin", "POST", "", "null", false},

		{"GET allowed", "GET", "cross-site", "", true},
		{"HEAD allowed", "HEAD", "cross-site", "", true},
		{"OPTIONS allowed", "OPTIONS", "cross-site", "", true},
		{"PUT blocked", "PUT", "cross-site", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := request.New(tc.method, "/", nil)
			req.Headers.Add("Host", "example.com")
			if tc.secFetchSite != "" {
				req.Headers.Add("Sec-Fetch-Site", tc.secFetchSite)
			}
			if tc.origin != "" {
				req.Headers.Add("Origin", tc.origin)
			}

			ok, res := passes(handler, req)
			if ok != tc.allowed {
				t.Fatalf("allowed = %v, want %v", ok, tc.allowed)
			}
			if !ok && res.Status != response.StatusForbidden {
				t.Errorf("got status %d, want 403", res.Status)
			}
		})
	}
}

func TestCORFTrustedOrigin(t *testing.T) {
	corf, err := NewCORF("https://trusted.example")
	if err != nil {
		t.Fatalf("NewCORF: %v", err)
	}
	if err := corf.AddTrustedOrigin("https://late.example"); err != nil {
		t.Fatalf("AddTrustedOrigin: %v", err)
	}

	for _, origin := range []string{"https://trusted.example", "https://late.example"} {
		req := request.New("POST", "/", nil)
		req.Headers.Add("Host", "example.com")
		req.Headers.Add("Origin", origin)
		req.Headers.Add("Sec-Fetch-Site", "cross-site")
		if ok, _ := passes(corf.Handler(), req); !ok {
			t.Errorf("%s: expected trusted origin to pass", origin)
		}
	}
}

func TestCORFInvalidOrigins(t *testing.T) {
	for _, origin := range []string{"example.com", "https://", "https://example.com/path", "https://example.com?q=1", "://bad"} {
		if _, err := NewCORF(origin); err == nil {
			t.Errorf("NewCORF(%q): expected error", origin)
		}
		corf, _ := NewCORF()
		if err := corf.AddTrustedOrigin(origin); err == nil {
			t.Errorf("AddTrustedOrigin(%q): expected error", origin)
		}
	}
}

func TestCORFSetDenyHandler(t *testing.T) {
	corf, err := NewCORF()
	if err != nil {
		t.Fatalf("NewCORF: %v", err)
	}
	req := func() *request.Request {
		r := request.New("POST", "/", nil)
		r.Headers.Add("Host", "example.com")
		r.Headers.Add("Sec-Fetch-Site", "cross-site")
		return r
	}

	corf.SetDenyHandler(eventware.Final(func(_ *request.Request, res *response.Response) {
		res.WithStatusCode(response.StatusTooManyRequests)
	}))
	if _, res := passes(corf.Handler(), req()); res.Status != response.StatusTooManyRequests {
		t.Errorf("got status %d, want 429", res.Status)
	}

	corf.SetDenyHandler(nil)
	if _, res := passes(corf.Handler(), req()); res.Status != response.StatusForbidden {
		t.Errorf("got status %d, want 403", res.Status)
	}
}
