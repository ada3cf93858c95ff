package middleware

import (
	"errors"
	"io/fs"
	"mime"
	"path"
	"slices"
	"strings"

	"github.com/shravanasati/eventware/eventware"
	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

// Static serves files out of fsys, which can be an os.DirFS or an embed.FS.
// The file path is the named capture group param of the matched pattern
// route, e.g. "~/assets/(?P<file>.*)". Directories serve their index.html.
//
// A missing file reports Ok so the chain can carry on, usually into the
// not-found handler. Paths with a ".." segment are treated as missing.
// Responses carry an etag derived from the modification time.
func Static(param string, fsys fs.FS) eventware.Handler {
	return func(req *request.Request, res *response.Response, radio *eventware.Radio) {
		name, ok := cleanStaticPath(req.PathParams[param])
		if !ok {
			radio.Ok()
			return
		}

		info, err := fs.Stat(fsys, name)
		if err == nil && info.IsDir() {
			name = path.Join(name, "index.html")
			info, err = fs.Stat(fsys, name)
		}
		if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
			radio.Ok()
			return
		}
		if err != nil {
			radio.Error(err)
			return
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			radio.Error(err)
			return
		}

		contentType := mime.TypeByExtension(path.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		res.WithStatusCode(response.StatusOK).
			WithHeader("content-type", contentType).
			WithHeader("last-modified", info.ModTime().UTC().Format(lastModifiedFormat)).
			WithHeader("etag", response.ETag(info.ModTime().String())).
			WithBody(data)
		radio.Done()
	}
}

const lastModifiedFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// cleanStaticPath turns a request path into an fs.FS name. Any ".." segment
// is refused, even one that would stay inside the root.
func cleanStaticPath(p string) (string, bool) {
	if slices.Contains(strings.Split(p, "/"), "..") {
		return "", false
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	if cleaned == "" {
		cleaned = "."
	}
	return cleaned, fs.ValidPath(cleaned)
}
