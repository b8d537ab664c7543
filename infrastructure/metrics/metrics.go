package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exposes sweep and notification counters to Prometheus
type Recorder struct {
	sweepsTotal        *prometheus.CounterVec
	filesScanned       prometheus.Counter
	filesProcessed     *prometheus.CounterVec
	bytesFreed         prometheus.Counter
	notificationsTotal *prometheus.CounterVec
	sweepDuration      prometheus.Histogram
}

// New registers the cleaner metrics on reg (the default registerer when nil)
func New(namespace string, reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		sweepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweeps_total",
				Help:      "Number of sweeps by result",
			},
			[]string{"result"},
		),
		filesScanned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_scanned_total",
				Help:      "Regular files evaluated against the retention policy",
			},
		),
		filesProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_processed_total",
				Help:      "Qualifying files by deletion outcome",
			},
			[]string{"disposition"},
		),
		bytesFreed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_freed_total",
				Help:      "Bytes reclaimed by deleted files",
			},
		),
		notificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Report emails by status",
			},
			[]string{"status"},
		),
		sweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sweep_duration_seconds",
				Help:      "Duration of directory sweeps",
				Buckets:   []float64{.01, .1, .5, 1, 5, 30, 60, 300},
			},
		),
	}

	reg.MustRegister(
		r.sweepsTotal,
		r.filesScanned,
		r.filesProcessed,
		r.bytesFreed,
		r.notificationsTotal,
		r.sweepDuration,
	)

	return r
}

// SweepFinished records one completed or failed sweep
func (r *Recorder) SweepFinished(err error, d time.Duration) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.sweepsTotal.WithLabelValues(result).Inc()
	r.sweepDuration.Observe(d.Seconds())
}

// FileScanned counts one evaluated file
func (r *Recorder) FileScanned() {
	if r == nil {
		return
	}
	r.filesScanned.Inc()
}

// FileProcessed counts one deletion attempt
func (r *Recorder) FileProcessed(disposition string, freedBytes int64) {
	if r == nil {
		return
	}
	r.filesProcessed.WithLabelValues(disposition).Inc()
	if freedBytes > 0 {
		r.bytesFreed.Add(float64(freedBytes))
	}
}

// Notification counts one email attempt
func (r *Recorder) Notification(sent bool) {
	if r == nil {
		return
	}
	status := "sent"
	if !sent {
		status = "failed"
	}
	r.notificationsTotal.WithLabelValues(status).Inc()
}
