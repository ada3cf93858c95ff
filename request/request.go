package request

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/shravanasati/eventware/headers"
)

// RequestIDHeader carries the per-request identity in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestLine is the first line of an HTTP/1.1 request.
type RequestLine struct {
	Method      string
	Target      string
	HTTPVersion string
}

// Request is the request context shared by every handler in a chain.
//
// Handlers may read and write it freely. The dispatcher never copies it, so
// handlers fanned out with eventware.Parallel see each other's writes and must
// only perform commutative or idempotent ones.
type Request struct {
	RequestLine
	Headers *headers.Headers

	// Path is Target without the query string.
	Path string
	// Query holds the decoded query string: "?flag" becomes true, "arr[]"
	// keys and repeated keys become []any, dotted keys become nested maps.
	Query map[string]any

	RawBody []byte
	// Body is RawBody decoded as JSON, or nil when the body is empty or invalid.
	Body any
	// BodyError is ErrInvalidJSONBody when RawBody was not valid JSON.
	BodyError error

	// ID identifies this request in logs and in the X-Request-ID response header.
	ID string

	// PathParams holds the named capture groups of the matched pattern route.
	PathParams map[string]string
}

// New builds a request without going through the wire format.
func New(method, target string, body []byte) *Request {
	r := &Request{
		RequestLine: RequestLine{Method: method, Target: target, HTTPVersion: "1.1"},
		Headers:     headers.NewHeaders(),
	}
	// a malformed query keeps whatever could be decoded
	_ = r.parseTarget()
	r.setBody(body)
	r.assignID()
	return r
}

func (r *Request) parseTarget() error {
	path, rawQuery, _ := strings.Cut(r.Target, "?")
	r.Path = path
	q, err := parseQuery(rawQuery)
	r.Query = q
	return err
}

func (r *Request) setBody(body []byte) {
	r.RawBody = body
	r.Body = nil
	r.BodyError = nil
	if len(body) == 0 {
		return
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		r.BodyError = ErrInvalidJSONBody
		return
	}
	r.Body = v
}

func (r *Request) assignID() {
	if id := r.Headers.Get(RequestIDHeader); id != "" {
		r.ID = id
		return
	}
	r.ID = uuid.Must(uuid.NewV7()).String()
}
