package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New("logcleaner", reg)

	r.FileScanned()
	r.FileScanned()
	r.FileProcessed("deleted", 2048)
	r.FileProcessed("not_found", 0)
	r.SweepFinished(nil, time.Second)
	r.SweepFinished(errors.New("boom"), time.Millisecond)
	r.Notification(true)
	r.Notification(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.filesScanned))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.filesProcessed.WithLabelValues("deleted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.filesProcessed.WithLabelValues("not_found")))
	assert.Equal(t, 2048.0, testutil.ToFloat64(r.bytesFreed))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sweepsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sweepsTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.notificationsTotal.WithLabelValues("failed")))
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.FileScanned()
		r.FileProcessed("deleted", 1)
		r.SweepFinished(nil, 0)
		r.Notification(true)
	})
}
