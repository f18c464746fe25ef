package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hls_jobs_submitted_total",
		Help: "Jobs accepted by Submit.",
	})

	JobsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hls_jobs_finished_total",
		Help: "Jobs that reached a terminal status, by status.",
	}, []string{"status"})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hls_queue_depth",
		Help: "Entries waiting in the in-memory queue, including the one in flight.",
	})

	TranscodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hls_transcode_duration_seconds",
		Help:    "Wall time of a single transcode call.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 1800},
	})

	UploadedFiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hls_upload_files_total",
		Help: "Artifact uploads to the blob store, by result.",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "code"})
)
