package response

import (
	"bytes"
	"html/template"
)

// WithTemplate renders tmpl with data into the body as HTML. On a render
// error the response is left untouched.
func (r *Response) WithTemplate(tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}
	r.Headers.Set("content-type", "text/html; charset=utf-8")
	r.Body = buf.Bytes()
	return nil
}
