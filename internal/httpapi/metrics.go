package httpapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"taskmaster/internal/service"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

func newMetrics(reg *prometheus.Registry) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "route"},
		),
		inFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_in_flight_requests",
				Help: "Current number of in-flight HTTP requests",
			},
		),
	}
}

// taskCollector reports task counts by status, computed at scrape time.
type taskCollector struct {
	svc  service.Service
	now  func() time.Time
	desc *prometheus.Desc
}

func newTaskCollector(svc service.Service, now func() time.Time) *taskCollector {
	return &taskCollector{
		svc: svc,
		now: now,
		desc: prometheus.NewDesc(
			"taskmaster_tasks",
			"Number of tasks in the store by status.",
			[]string{"status"}, nil,
		),
	}
}

func (c *taskCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *taskCollector) Collect(ch chan<- prometheus.Metric) {
	today := service.DateOf(c.now())
	var completed, pending, overdue int
	for _, t := range c.svc.State().Tasks {
		switch {
		case t.Completed:
			completed++
		case t.Overdue(today):
			overdue++
			pending++
		default:
			pending++
		}
	}
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(completed), "completed")
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(pending), "pending")
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(overdue), "overdue")
}

func newRegistry(svc service.Service, now func() time.Time) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		newTaskCollector(svc, now),
	)
	return reg
}
