package middleware

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags, out := log.Flags(), log.Writer()
	log.SetFlags(0)
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetFlags(flags)
		log.SetOutput(out)
	})
	return &buf
}

func TestLogging(t *testing.T) {
	buf := captureLog(t)
	req := request.New("GET", "/cart?x=1", nil)
	res := response.New().WithStatusCode(response.StatusNotFound)

	Logging(req, res, 3*time.Millisecond)

	assert.Equal(t, "GET /cart?x=1 404 in 3ms ["+req.ID+"]\n", buf.String())
}

func TestLoggingDefaultsTo200(t *testing.T) {
	buf := captureLog(t)
	Logging(request.New("POST", "/", nil), response.New(), time.Second)
	assert.Contains(t, buf.String(), "POST / 200 in 1s")
}

func TestLoggingColored(t *testing.T) {
	buf := captureLog(t)
	req := request.New("DELETE", "/items/1", nil)

	LoggingColored(req, response.New().WithStatusCode(response.StatusInternalServerError), time.Millisecond)

	line := buf.String()
	assert.Contains(t, line, "DELETE")
	assert.Contains(t, line, "/items/1")
	assert.Contains(t, line, "500")
	assert.Contains(t, line, req.ID)
}
