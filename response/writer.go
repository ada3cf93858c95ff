package response

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/shravanasati/eventware/headers"
)

type writerState int

const (
	stateStatusLine writerState = iota
	stateHeaders
	stateBody
	stateDone
)

// writer enforces status line, then headers, then body.
type writer struct {
	bw    *bufio.Writer
	state writerState
}

func newWriter(w io.Writer) *writer {
	return &writer{bw: bufio.NewWriter(w)}
}

func (rw *writer) writeStatusLine(status StatusCode) error {
	if rw.state != stateStatusLine {
		return ErrInvalidWriterState
	}
	reason := GetStatusReason(status)
	if reason == "" {
		reason = "Status " + strconv.Itoa(int(status))
	}
	if _, err := fmt.Fprintf(rw.bw, "HTTP/1.1 %d %s\r\n", status, reason); err != nil {
		return err
	}
	rw.state = stateHeaders
	return nil
}

func (rw *writer) writeHeaders(h *headers.Headers) error {
	if rw.state != stateHeaders {
		return ErrInvalidWriterState
	}
	for k, v := range h.All() {
		if _, err := fmt.Fprintf(rw.bw, "%s: %s\r\n", k, v); err != nil {
			return err
		}
	}
	if _, err := rw.bw.WriteString("\r\n"); err != nil {
		return err
	}
	rw.state = stateBody
	return nil
}

func (rw *writer) writeBody(body []byte) error {
	if rw.state != stateBody {
		return ErrInvalidWriterState
	}
	if _, err := rw.bw.Write(body); err != nil {
		return err
	}
	rw.state = stateDone
	return rw.bw.Flush()
}
