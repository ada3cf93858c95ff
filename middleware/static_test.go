package middleware

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shravanasati/eventware/eventware"
	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
	"github.com/shravanasati/eventware/router"
)

var assets = fstest.MapFS{
	"index.html":      {Data: []byte("<h1>home</h1>"), ModTime: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
	"css/site.css":    {Data: []byte("body{}")},
	"docs/index.html": {Data: []byte("<h1>docs</h1>")},
	"empty/.keep":     {Data: nil},
	"blob":            {Data: []byte{0, 1, 2}},
	"v1..2.txt":       {Data: []byte("dotted")},
}

func serveStatic(t *testing.T, fsys fs.FS, target string) (*response.Response, eventware.Outcome) {
	t.Helper()
	r := router.NewRouter(nil)
	r.Get("~/assets(?P<file>/.*)?", Static("file", fsys))

	res := response.New()
	var out eventware.Outcome
	r.Mount()(request.New("GET", target, nil), res, eventware.NewRadio(func(o eventware.Outcome) { out = o }))
	return res, out
}

func TestStatic(t *testing.T) {
	testCases := []struct {
		target      string
		body        string
		contentType string
	}{
		{"/assets/css/site.css", "body{}", "text/css; charset=utf-8"},
		{"/assets/index.html", "<h1>home</h1>", "text/html; charset=utf-8"},
		{"/assets/", "<h1>home</h1>", "text/html; charset=utf-8"},
		{"/assets", "<h1>home</h1>", "text/html; charset=utf-8"},
		{"/assets/docs", "<h1>docs</h1>", "text/html; charset=utf-8"},
		{"/assets/blob", "\x00\x01\x02", "application/octet-stream"},
		{"/assets/v1..2.txt", "dotted", "text/plain; charset=utf-8"},
	}
	for _, tc := range testCases {
		t.Run(tc.target, func(t *testing.T) {
			res, out := serveStatic(t, assets, tc.target)
			require.Equal(t, eventware.KindDone, out.Kind)
			assert.Equal(t, response.StatusOK, res.Status)
			assert.Equal(t, []byte(tc.body), res.Body)
			assert.Equal(t, tc.contentType, res.Headers.Get("content-type"))
		})
	}
}

func TestStaticLastModified(t *testing.T) {
	res, _ := serveStatic(t, assets, "/assets/index.html")
	assert.Equal(t, "Thu, 02 Jan 2025 03:04:05 GMT", res.Headers.Get("last-modified"))
}

func TestStaticETag(t *testing.T) {
	res, _ := serveStatic(t, assets, "/assets/index.html")
	etag := res.Headers.Get("etag")
	assert.Equal(t, response.ETag(assets["index.html"].ModTime.String()), etag)

	again, _ := serveStatic(t, assets, "/assets/")
	assert.Equal(t, etag, again.Headers.Get("etag"))

	other, _ := serveStatic(t, assets, "/assets/css/site.css")
	assert.NotEqual(t, etag, other.Headers.Get("etag"))
}

func TestStaticMissing(t *testing.T) {
	for _, target := range []string{
		"/assets/nope.txt",
		"/assets/empty",
		"/assets/../secret",
		"/assets/css/../../secret",
	} {
		t.Run(target, func(t *testing.T) {
			res, out := serveStatic(t, assets, target)
			assert.Equal(t, eventware.KindOk, out.Kind)
			assert.Zero(t, res.Status)
			assert.Nil(t, res.Body)
		})
	}
}

type brokenFS struct{}

func (brokenFS) Open(string) (fs.File, error) { return nil, errors.New("disk on fire") }

func TestStaticError(t *testing.T) {
	_, out := serveStatic(t, brokenFS{}, "/assets/index.html")
	assert.Equal(t, eventware.KindError, out.Kind)
	assert.ErrorContains(t, out.Err, "disk on fire")
}

func TestCleanStaticPath(t *testing.T) {
	testCases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"", ".", true},
		{"/", ".", true},
		{"/a/b.txt", "a/b.txt", true},
		{"a//b", "a/b", true},
		{"/a/./b", "a/b", true},
		{"/a..b.txt", "a..b.txt", true},
		{"/..hidden", "..hidden", true},
		{"/../etc/passwd", "", false},
		{"/a/../b", "", false},
		{"/a/..", "", false},
	}
	for _, tc := range testCases {
		got, ok := cleanStaticPath(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.in)
		}
	}
}
