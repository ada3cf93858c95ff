package request

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/shravanasati/eventware/headers"
)

// MaxBodyBytes bounds both Content-Length and decoded chunked bodies.
const MaxBodyBytes = 10 << 20

// maxLineBytes bounds the request line and every field line.
const maxLineBytes = 8 << 10

var registeredNurse = []byte("\r\n")

var requestLineRegex = regexp.MustCompile(`^(GET|POST|PUT|PATCH|OPTIONS|TRACE|DELETE|HEAD) ([^\s]+) HTTP/1\.1$`)

func parseRequestLine(line []byte) (RequestLine, error) {
	matches := requestLineRegex.FindSubmatch(line)
	if len(matches) != 3 {
		return RequestLine{}, ErrIncorrectRequestLine
	}
	return RequestLine{
		Method:      string(matches[1]),
		Target:      string(matches[2]),
		HTTPVersion: "1.1",
	}, nil
}

// readLine reads up to the next CRLF and returns the line without it.
func readLine(br *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		chunk, err := br.ReadSlice('\n')
		line = append(line, chunk...)
		if len(line) > maxLineBytes {
			return nil, ErrLineTooLong
		}
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && len(line) == 0 {
			return nil, io.EOF
		}
		if errors.Is(err, io.EOF) {
			return nil, ErrIncompleteRequest
		}
		return nil, err
	}
	if !bytes.HasSuffix(line, registeredNurse) {
		// bare LF
		return nil, ErrIncompleteRequest
	}
	return line[:len(line)-2], nil
}

// nextLine is readLine for positions where the request has already started,
// so running out of input is never a clean EOF.
func nextLine(br *bufio.Reader) ([]byte, error) {
	line, err := readLine(br)
	if errors.Is(err, io.EOF) {
		return nil, ErrIncompleteRequest
	}
	return line, err
}

// RequestFromReader parses one request off r. Pass the same *bufio.Reader for
// every request on a keep-alive connection so that no bytes are lost between
// requests. io.EOF is returned only when r ends before the first byte.
func RequestFromReader(r io.Reader) (*Request, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	line, err := readLine(br)
	if err != nil {
		return nil, err
	}
	reqLine, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	hs := headers.NewHeaders()
	for {
		line, err := nextLine(br)
		if err != nil {
			return nil, err
		}
		if len(line) == 0 {
			// double CRLF, headers over
			break
		}
		if err := hs.ParseFieldLine(line); err != nil {
			return nil, err
		}
	}

	req := &Request{RequestLine: reqLine, Headers: hs}
	body, err := readBody(br, hs)
	if err != nil {
		return nil, err
	}
	if err := req.parseTarget(); err != nil {
		return nil, err
	}
	req.setBody(body)
	req.assignID()
	return req, nil
}

// TransferEncodings returns the transfer codings in the order they were
// applied. The last one must be chunked.
func TransferEncodings(hs *headers.Headers) ([]string, error) {
	te := hs.Get("transfer-encoding")
	if te == "" {
		return nil, nil
	}
	var codings []string
	for _, c := range strings.Split(te, ",") {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			codings = append(codings, c)
		}
	}
	if len(codings) == 0 || codings[len(codings)-1] != "chunked" {
		return nil, ErrUnsupportedTransferEncoding
	}
	return codings, nil
}

func readBody(br *bufio.Reader, hs *headers.Headers) ([]byte, error) {
	cl := hs.Get("content-length")
	codings, err := TransferEncodings(hs)
	if err != nil {
		return nil, err
	}

	switch {
	case cl != "" && codings != nil:
		// https://datatracker.ietf.org/doc/html/rfc9112#section-6.1-15
		return nil, ErrAmbiguousLength
	case codings != nil:
		return readChunked(br, hs)
	case cl != "":
		n, err := strconv.ParseInt(strings.TrimSpace(cl), 10, 64)
		if err != nil || n < 0 {
			return nil, ErrInvalidContentLength
		}
		if n > MaxBodyBytes {
			return nil, ErrBodyTooLarge
		}
		body := make([]byte, n)
		if _, err := io.ReadFull(br, body); err != nil {
			return nil, ErrIncompleteRequest
		}
		return body, nil
	default:
		return nil, nil
	}
}

func readChunked(br *bufio.Reader, trailers *headers.Headers) ([]byte, error) {
	var body bytes.Buffer
	for {
		line, err := nextLine(br)
		if err != nil {
			return nil, err
		}
		size, _, _ := bytes.Cut(line, []byte(";"))
		n, err := strconv.ParseInt(string(bytes.TrimSpace(size)), 16, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad size %q", ErrMalformedChunk, size)
		}
		if n == 0 {
			break
		}
		if int64(body.Len())+n > MaxBodyBytes {
			return nil, ErrBodyTooLarge
		}
		if _, err := io.CopyN(&body, br, n); err != nil {
			return nil, ErrIncompleteRequest
		}
		crlf, err := nextLine(br)
		if err != nil {
			return nil, err
		}
		if len(crlf) != 0 {
			return nil, fmt.Errorf("%w: missing CRLF after data", ErrMalformedChunk)
		}
	}

	// trailer section ends with an empty line
	for {
		line, err := nextLine(br)
		if err != nil {
			return nil, err
		}
		if len(line) == 0 {
			return body.Bytes(), nil
		}
		if err := trailers.ParseFieldLine(line); err != nil {
			return nil, err
		}
	}
}
