// Package metrics holds the prometheus collectors of the capture engine.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ideas"

// Capture outcomes
const (
	CaptureNew       = "new"
	CaptureDuplicate = "duplicate"
	CaptureSkipped   = "skipped"
	CaptureFailed    = "failed"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Captures      *prometheus.CounterVec
	Mutations     *prometheus.CounterVec
	Errors        *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	InboxFiles    prometheus.Counter
}

// New registers the collectors on reg; nil reg means a private registry
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Captures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "captures_total",
				Help:      "Total number of clipboard captures by outcome",
			},
			[]string{"status"}, // new, duplicate, skipped, failed
		),
		Mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Total number of committed mutations",
			},
			[]string{"operation"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of failed operations",
			},
			[]string{"operation"},
		),
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Duration of read queries",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
		InboxFiles: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inbox_files_total",
				Help:      "Total number of files picked up from the inbox directory",
			},
		),
	}
}

// Capture counts one capture outcome
func (m *Metrics) Capture(status string) {
	if m == nil {
		return
	}
	m.Captures.WithLabelValues(status).Inc()
}

// Mutation counts one committed mutation
func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op).Inc()
}

// Error counts one failed operation
func (m *Metrics) Error(op string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(op).Inc()
}

// InboxFile counts a file handed over by the inbox watcher
func (m *Metrics) InboxFile() {
	if m == nil {
		return
	}
	m.InboxFiles.Inc()
}

// ObserveQuery records the duration since start. Use with defer:
//
//	defer m.ObserveQuery("find", time.Now())
func (m *Metrics) ObserveQuery(op string, start time.Time) {
	if m == nil {
		return
	}
	m.QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Summarize flattens counters of our namespace into "name{label=value}" -> value
func Summarize(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	out := make(map[string]float64)
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			c := m.GetCounter()
			if c == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(labels)

			key := mf.GetName()
			if len(labels) > 0 {
				key += "{" + strings.Join(labels, ",") + "}"
			}
			out[key] = c.GetValue()
		}
	}
	return out, nil
}
