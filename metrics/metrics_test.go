package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shravanasati/eventware/eventware"
	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.Observe("GET", "/cart", eventware.Done(), time.Millisecond)
	c.Observe("GET", "/cart", eventware.Done(), 2*time.Millisecond)
	c.Observe("GET", NoRoute, eventware.Done(), time.Millisecond)
	c.Observe("POST", "~/items/.*", eventware.Fail(errors.New("boom")), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.dispatches.WithLabelValues("GET", "/cart", "done")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.dispatches.WithLabelValues("GET", NoRoute, "done")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.dispatches.WithLabelValues("POST", "~/items/.*", "error")))
	assert.Equal(t, 3, testutil.CollectAndCount(c.duration))
}

func TestDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)
	c.Observe("GET", "/cart", eventware.Ok(), time.Millisecond)

	res := response.New()
	o, err := eventware.Run(context.Background(), Handler(reg), request.New("GET", "/metrics", nil), res)
	require.NoError(t, err)

	assert.Equal(t, eventware.KindDone, o.Kind)
	assert.Equal(t, response.StatusOK, res.Status)
	assert.Equal(t, textFormat, res.Headers.Get("content-type"))
	body, ok := res.Body.([]byte)
	require.True(t, ok)
	assert.Contains(t, string(body), `eventware_dispatch_total{method="GET",outcome="ok",route="/cart"} 1`)
	assert.Contains(t, string(body), "eventware_dispatch_duration_seconds_bucket")
}

type failingGatherer struct{}

func (failingGatherer) Gather() ([]*dto.MetricFamily, error) { return nil, errors.New("scrape failed") }

func TestHandlerGatherError(t *testing.T) {
	o, err := eventware.Run(context.Background(), Handler(failingGatherer{}), request.New("GET", "/metrics", nil), response.New())
	require.NoError(t, err)
	assert.Equal(t, eventware.KindError, o.Kind)
	assert.ErrorContains(t, o.Err, "scrape failed")
}
