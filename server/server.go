// Package server speaks HTTP/1.1 over TCP and runs every request through the
// routers attached to it.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shravanasati/eventware/eventware"
	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
	"github.com/shravanasati/eventware/router"
)

// dateFormat is the IMF-fixdate layout of the date header.
const dateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

type Server struct {
	opts     ServerOpts
	listener net.Listener
	closed   atomic.Bool

	mu      sync.RWMutex
	routers []*router.Router
}

// New creates a server that is not listening yet.
func New(opts ServerOpts) *Server {
	return &Server{opts: opts.withDefaults()}
}

// Attach adds r after the routers attached before it. A request is offered
// to each router in turn until one of them ends the chain.
func (s *Server) Attach(r *router.Router) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routers = append(s.routers, r)
}

// Handler returns the chain a request runs through: every attached router's
// mount in attach order, then the not-found handler.
func (s *Server) Handler() eventware.Handler {
	s.mu.RLock()
	chain := make([]eventware.Handler, 0, len(s.routers)+1)
	for _, r := range s.routers {
		chain = append(chain, r.Mount())
	}
	s.mu.RUnlock()
	return eventware.Serial(append(chain, router.NotFound)...)
}

// Start binds the listener and accepts connections in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	s.listener = listener
	go s.listen()
	return nil
}

// Addr is the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown the server. Connections already accepted finish on their own.
func (s *Server) Close() error {
	s.closed.Store(true)
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) listen() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.closed.Load() {
				log.Println("unable to accept connection: " + err.Error())
			}
			return
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	// defers are stacked

	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Println("unable to close connection", err)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			res := s.opts.Recovery(r)
			res.WithHeader("connection", "close")
			s.setWriteDeadline(conn)
			if err := res.Write(conn); err != nil {
				log.Println("unable to write recovery response:", err)
			}
		}
	}()

	br := bufio.NewReader(conn)
	for first := true; ; first = false {
		s.setReadDeadline(conn, first)
		req, err := request.RequestFromReader(br)
		if err != nil {
			if !quiet(err) {
				s.reject(conn, rejectStatus(err))
			}
			return
		}

		if host := req.Headers.Get("host"); host == "" || strings.Contains(host, ",") {
			// exactly one host is required
			s.reject(conn, response.StatusBadRequest)
			return
		}

		start := time.Now()
		keepAlive := s.opts.KeepAliveTimeout > 0 &&
			!strings.EqualFold(strings.TrimSpace(req.Headers.Get("connection")), "close")
		res := s.finalize(req, s.respond(req), keepAlive)

		s.setWriteDeadline(conn)
		if err := s.write(conn, req, res); err != nil {
			log.Println("unable to write response to connection:", err)
			return
		}
		if s.opts.Logger != nil {
			s.opts.Logger(req, res, time.Since(start))
		}

		if !keepAlive {
			return
		}
	}
}

// respond runs the chain and turns its outcome into the response to send.
func (s *Server) respond(req *request.Request) *response.Response {
	ctx := context.Background()
	if s.opts.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.HandlerTimeout)
		defer cancel()
	}

	res := response.New()
	o, err := eventware.Run(ctx, s.Handler(), req, res)
	if err != nil {
		s.opts.OnError(req, fmt.Errorf("%w: %w", ErrHandlerTimeout, err))
		// the chain may still be writing to res
		return response.New().
			WithStatusCode(response.StatusServiceUnavailable).
			WithBody(map[string]string{"error": response.GetStatusReason(response.StatusServiceUnavailable)})
	}

	if o.Kind == eventware.KindError {
		s.opts.OnError(req, o.Err)
		errorResponse(o.Err, res)
	}
	return res
}

func (s *Server) finalize(req *request.Request, res *response.Response, keepAlive bool) *response.Response {
	if etag, match := res.Headers.Get("etag"), req.Headers.Get("if-none-match"); etag != "" && etag == match {
		res = response.New().
			WithStatusCode(response.StatusNotModified).
			WithHeader("etag", etag)
	}

	res.WithHeader("date", time.Now().UTC().Format(dateFormat)).
		WithHeader(request.RequestIDHeader, req.ID)
	if !keepAlive {
		res.WithHeader("connection", "close")
	}
	return res
}

func (s *Server) write(w io.Writer, req *request.Request, res *response.Response) error {
	write := res.Write
	if req.Method == "HEAD" {
		write = res.WriteHead
	}

	err := write(w)
	if !errors.Is(err, response.ErrUnencodableBody) {
		return err
	}

	// nothing was written yet
	s.opts.OnError(req, err)
	res.Body = nil
	res.Status = 0
	errorResponse(err, res)
	return write(w)
}

func (s *Server) reject(conn net.Conn, status response.StatusCode) {
	res := response.New().
		WithStatusCode(status).
		WithHeader("date", time.Now().UTC().Format(dateFormat)).
		WithHeader("connection", "close")
	s.setWriteDeadline(conn)
	if err := res.Write(conn); err != nil {
		log.Println("unable to write response to connection:", err)
	}
}

func (s *Server) setReadDeadline(conn net.Conn, first bool) {
	timeout := s.opts.ReadTimeout
	if !first && s.opts.KeepAliveTimeout > 0 {
		timeout = s.opts.KeepAliveTimeout
	}
	if timeout > 0 {
		conn.SetReadDeadline(time.Now().Add(timeout))
	}
}

func (s *Server) setWriteDeadline(conn net.Conn) {
	if s.opts.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}
}

// quiet tells whether a read error just means the client went away.
func quiet(err error) bool {
	var ne net.Error
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || (errors.As(err, &ne) && ne.Timeout())
}

func rejectStatus(err error) response.StatusCode {
	if errors.Is(err, request.ErrBodyTooLarge) {
		return response.StatusPayloadTooLarge
	}
	return response.StatusBadRequest
}

// Serve starts a server with routers attached in the given order.
func Serve(opts ServerOpts, routers ...*router.Router) (*Server, error) {
	s := New(opts)
	for _, r := range routers {
		s.Attach(r)
	}
	if err := s.Start(); err != nil {
		return nil, err
	}
	return s, nil
}
