// Package metrics exports provider activity to Prometheus through the
// observer hooks of package spool.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danpasecinic/spool"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

type Collector struct {
	resolveDuration *prometheus.HistogramVec
	constructions   *prometheus.CounterVec
	disposals       *prometheus.CounterVec
}

// New registers the collector's metrics with reg under namespace.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		resolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resolve_duration_seconds",
				Help:      "Time spent in GetService, by requested type.",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"service", "outcome"},
		),
		constructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "constructions_total",
				Help:      "Factory and constructor invocations.",
			},
			[]string{"service", "lifetime", "outcome"},
		),
		disposals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "disposals_total",
				Help:      "Singleton disposals.",
			},
			[]string{"service", "outcome"},
		),
	}

	for _, collector := range []prometheus.Collector{c.resolveDuration, c.constructions, c.disposals} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func MustNew(reg prometheus.Registerer, namespace string) *Collector {
	c, err := New(reg, namespace)
	if err != nil {
		panic(err)
	}
	return c
}

// Options wires the collector into a provider.
func (c *Collector) Options() []spool.Option {
	return []spool.Option{
		spool.WithResolveObserver(c.ObserveResolve),
		spool.WithConstructObserver(c.ObserveConstruct),
		spool.WithDisposeObserver(c.ObserveDispose),
	}
}

func (c *Collector) ObserveResolve(service string, duration time.Duration, err error) {
	c.resolveDuration.WithLabelValues(service, outcome(err)).Observe(duration.Seconds())
}

func (c *Collector) ObserveConstruct(service string, lt spool.Lifetime, _ time.Duration, err error) {
	c.constructions.WithLabelValues(service, lt.String(), outcome(err)).Inc()
}

func (c *Collector) ObserveDispose(service string, _ time.Duration, err error) {
	c.disposals.WithLabelValues(service, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeOK
}
