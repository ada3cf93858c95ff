// Package metrics records dispatch outcomes in Prometheus.
package metrics

import (
	"bytes"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/shravanasati/eventware/eventware"
	"github.com/shravanasati/eventware/request"
	"github.com/shravanasati/eventware/response"
)

// NoRoute labels dispatches that fell through to the not-found handler.
const NoRoute = "none"

const namespace = "eventware"

// textFormat is the content type of the Prometheus text exposition format.
const textFormat = "text/plain; version=0.0.4; charset=utf-8"

// Collector counts dispatches per method, route pattern and outcome kind.
// Route labels are patterns, never raw paths, so cardinality stays bounded.
type Collector struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers it with reg, or with the
// default registerer when reg is nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_total",
				Help:      "Dispatched requests by method, route and outcome.",
			},
			[]string{"method", "route", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Time from dispatch until the chain settled.",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
	}

	for _, col := range []prometheus.Collector{c.dispatches, c.duration} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("registering dispatch metrics: %w", err)
		}
	}
	return c, nil
}

// Observe records one settled dispatch.
func (c *Collector) Observe(method, route string, o eventware.Outcome, d time.Duration) {
	c.dispatches.WithLabelValues(method, route, o.Kind.String()).Inc()
	c.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler renders everything g gathers in the Prometheus text format and
// ends the chain. A gather failure is reported as Error.
func Handler(g prometheus.Gatherer) eventware.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}

	return func(_ *request.Request, res *response.Response, radio *eventware.Radio) {
		families, err := g.Gather()
		if err != nil {
			radio.Error(fmt.Errorf("gathering metrics: %w", err))
			return
		}

		var buf bytes.Buffer
		for _, mf := range families {
			if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
				radio.Error(fmt.Errorf("encoding metrics: %w", err))
				return
			}
		}

		res.WithStatusCode(response.StatusOK).
			WithHeader("content-type", textFormat).
			WithBody(buf.Bytes())
		radio.Done()
	}
}
