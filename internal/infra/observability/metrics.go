package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is safe to use through a nil pointer, which records nothing.
type Metrics struct {
	saves        *prometheus.CounterVec
	saveDuration prometheus.Histogram
	draftWrites  *prometheus.CounterVec
	exports      *prometheus.CounterVec
	access       *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		saves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cotizador",
			Name:      "quote_saves_total",
			Help:      "Remote quote saves by result.",
		}, []string{"result"}),
		saveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cotizador",
			Name:      "quote_save_duration_seconds",
			Help:      "Latency of remote quote saves.",
			Buckets:   prometheus.DefBuckets,
		}),
		draftWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cotizador",
			Name:      "draft_writes_total",
			Help:      "Draft auto-save writes by result.",
		}, []string{"result"}),
		exports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cotizador",
			Name:      "exports_total",
			Help:      "Rendered documents by format and result.",
		}, []string{"format", "result"}),
		access: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cotizador",
			Name:      "access_attempts_total",
			Help:      "PIN checks by result.",
		}, []string{"result"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cotizador",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status class.",
		}, []string{"method", "code"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveSave(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(result(err)).Inc()
	m.saveDuration.Observe(d.Seconds())
}

func (m *Metrics) DraftWrite(err error) {
	if m == nil {
		return
	}
	m.draftWrites.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) Export(format string, err error) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format, result(err)).Inc()
}

func (m *Metrics) AccessAttempt(granted bool) {
	if m == nil {
		return
	}
	r := "denied"
	if granted {
		r = "granted"
	}
	m.access.WithLabelValues(r).Inc()
}

func (m *Metrics) HTTPRequest(method string, status int) {
	if m == nil {
		return
	}
	code := "5xx"
	switch {
	case status < 200:
		code = "1xx"
	case status < 300:
		code = "2xx"
	case status < 400:
		code = "3xx"
	case status < 500:
		code = "4xx"
	}
	m.httpRequests.WithLabelValues(method, code).Inc()
}
