package main

import (
	"html/template"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shravanasati/eventware/eventware"
	"github.com/shravanasati/eventware/metrics"
	"github.com/shravanasati/eventware/middleware"
	"github.com/shravanasati/eventware/middleware/cors"
	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
	"github.com/shravanasati/eventware/router"
	"github.com/shravanasati/eventware/server"
)

var helloPage = template.Must(template.New("hello").Parse(`<h1>Hello, {{or .name "stranger"}}!</h1>\n`))

func headerAdder(_ *request.Request, res *response.Response, radio *eventware.Radio) {
	res.WithHeader("x-server", "eventware")
	radio.Ok()
}

// userOnly is written in next(err) style and adapted with middleware.Eventware.
func userOnly(req *request.Request, res *response.Response, next middleware.Next) {
	if req.Headers.Get("username") != "user" {
		next(server.NewHandlerError(response.StatusUnauthorized, "users only"))
		return
	}
	next(nil)
}

func main() {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		log.Fatalf("Error creating metrics: %v", err)
	}

	var hits atomic.Int64
	countHit := func(_ *request.Request, _ *response.Response, radio *eventware.Radio) {
		hits.Add(1)
		radio.Ok()
	}
	var lastSeen atomic.Int64
	stamp := func(_ *request.Request, _ *response.Response, radio *eventware.Radio) {
		time.AfterFunc(10*time.Millisecond, func() {
			lastSeen.Store(time.Now().Unix())
			radio.Ok()
		})
	}

	corf, err := middleware.NewCORF("http://localhost:3000")
	if err != nil {
		log.Fatalf("Error creating CORF: %v", err)
	}

	// every request passes through front before the other routers
	front := router.NewRouter(nil)
	guard := eventware.Serial(cors.AllowAll().Handler(), corf.Handler())
	for _, method := range router.Methods {
		front.Handle(method, "~/.*", guard)
	}
	front.Get("~/.*", eventware.Parallel(countHit, stamp, headerAdder))

	app := router.NewRouter(&router.RouterOptions{Metrics: collector})

	app.Get("/index", eventware.Final(func(_ *request.Request, res *response.Response) {
		res.WithBody("hullo\n")
	}))

	app.Get("/hello", eventware.Func(func(req *request.Request, res *response.Response) error {
		return res.WithTemplate(helloPage, req.Query)
	}))

	app.Get("/json", eventware.Final(func(_ *request.Request, res *response.Response) {
		res.WithBody(map[string]any{"hello": 1, "hi": "bye", "hits": hits.Load(), "last_seen": lastSeen.Load()})
	}))

	app.Get("/yourproblem", eventware.Final(func(_ *request.Request, res *response.Response) {
		res.WithStatusCode(response.StatusBadRequest).WithBody("your problem is not my problem\n")
	}))

	app.Get("/myproblem", eventware.Func(func(*request.Request, *response.Response) error {
		return server.NewHandlerError(response.StatusInternalServerError, "woopsie, my bad")
	}))

	app.Get("/panic", func(*request.Request, *response.Response, *eventware.Radio) {
		panic("boom")
	})

	app.Route(`DELETE ~/api/(?P<user>\w+)`, eventware.Final(func(req *request.Request, res *response.Response) {
		res.WithBody(map[string]any{"deleted": req.PathParams["user"], "force": req.Query["force"]})
	}))

	app.Post("/echo", middleware.Rescue(
		func(req *request.Request, res *response.Response, radio *eventware.Radio) {
			if req.BodyError != nil {
				radio.Error(req.BodyError)
				return
			}
			res.WithStatusCode(response.StatusCreated).WithBody(req.Body)
			radio.Done()
		},
		func(err error, _ *request.Request, res *response.Response, next middleware.Next) {
			res.WithStatusCode(response.StatusUnprocessableEntity).WithBody(map[string]string{"error": err.Error()})
			next(nil)
		},
	))

	app.Get("/redirect", eventware.Final(func(_ *request.Request, res *response.Response) {
		res.Redirect("https://google.com")
	}))

	app.Get("/metrics", metrics.Handler(reg))

	app.Get("~/assets(?P<file>/.*)?", middleware.Static("file", os.DirFS("./assets")))

	sub := router.NewRouter(nil)
	sub.Route("GET ~/sub(/.*)?", eventware.Serial(
		middleware.Eventware(userOnly),
		eventware.Final(func(req *request.Request, res *response.Response) {
			res.WithBody("sub " + strconv.Quote(req.Path))
		}),
	))

	admin := router.NewRouter(nil)
	admin.Route("GET ~/admin(/.*)?", eventware.Serial(
		middleware.BasicAuth([]middleware.Account{{Username: "admin", Password: "hunter2"}}),
		eventware.Final(func(_ *request.Request, res *response.Response) {
			res.WithBody(map[string]int64{"hits": hits.Load()})
		}),
	))

	srv, err := server.Serve(server.ServerOpts{
		Address:          ":42069",
		ReadTimeout:      30 * time.Second,
		KeepAliveTimeout: 10 * time.Second,
		HandlerTimeout:   5 * time.Second,
		Logger:           middleware.LoggingColored,
	}, front, app, sub, admin)
	if err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
	defer srv.Close()
	log.Println("Server started on", srv.Addr())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Server gracefully stopped")
}
