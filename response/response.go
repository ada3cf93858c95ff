package response

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/shravanasati/eventware/headers"
)

// Response is the response context handlers write their results into.
//
// One Response is shared by every handler of a chain. Nothing here is
// synchronized: handlers fanned out with eventware.Parallel that touch the
// same field must agree among themselves on commutative or idempotent writes.
type Response struct {
	// Status is 0 until some handler sets it; it is written as 200.
	Status  StatusCode
	Headers *headers.Headers
	// Body is written raw when it is a string or []byte, and as JSON otherwise.
	Body any
}

// New creates an empty response.
func New() *Response {
	return &Response{Headers: headers.NewHeaders()}
}

// NotFoundBody is the body of the terminal not-found handler.
func NotFoundBody() map[string]string {
	return map[string]string{"error": "Not found"}
}

func (r *Response) WithStatusCode(code StatusCode) *Response {
	r.Status = code
	return r
}

func (r *Response) WithHeader(key, value string) *Response {
	r.Headers.Set(key, value)
	return r
}

func (r *Response) WithBody(body any) *Response {
	r.Body = body
	return r
}

// Redirect points the client at location with 302 Found.
func (r *Response) Redirect(location string) *Response {
	r.Status = StatusFound
	r.Headers.Set("location", location)
	r.Body = nil
	return r
}

// StatusCode returns the status that will be written.
func (r *Response) StatusCode() StatusCode {
	if r.Status == 0 {
		return StatusOK
	}
	return r.Status
}

// encode renders Body and picks a default content type for it.
func (r *Response) encode() ([]byte, string, error) {
	switch b := r.Body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return []byte(b), "text/plain; charset=utf-8", nil
	case []byte:
		return b, "application/octet-stream", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrUnencodableBody, err)
		}
		return data, "application/json", nil
	}
}

// Write serializes the response as HTTP/1.1.
func (r *Response) Write(w io.Writer) error {
	return r.write(w, true)
}

// WriteHead serializes the response without its body, as for a HEAD request.
// Content-Length still describes the body that would have been sent.
func (r *Response) WriteHead(w io.Writer) error {
	return r.write(w, false)
}

func (r *Response) write(w io.Writer, withBody bool) error {
	status := r.StatusCode()
	body, contentType, err := r.encode()
	if err != nil {
		return err
	}

	hs := r.Headers.Clone()
	if noBody(status) {
		body = nil
		hs.Remove("content-length")
	} else {
		if contentType != "" && !hs.Has("content-type") {
			hs.Set("content-type", contentType)
		}
		hs.Set("content-length", strconv.Itoa(len(body)))
	}

	rw := newWriter(w)
	if err := rw.writeStatusLine(status); err != nil {
		return err
	}
	if err := rw.writeHeaders(hs); err != nil {
		return err
	}
	if !withBody {
		body = nil
	}
	return rw.writeBody(body)
}
