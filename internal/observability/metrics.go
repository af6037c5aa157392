package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "records_saved_total",
		Help:      "Total number of person records saved",
	}, []string{"outcome"}) // remote | local_fallback | local_only

	RecordsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "records_deleted_total",
		Help:      "Total number of person records deleted",
	}, []string{"outcome"})

	StoreFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "store_fallbacks_total",
		Help:      "Total number of remote store failures recovered locally",
	})

	QuotaRecoveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "quota_recoveries_total",
		Help:      "Local storage quota recovery attempts by tier",
	}, []string{"tier"}) // evict | recompress | clear_keys | reset

	OCRDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalog",
		Name:      "ocr_duration_seconds",
		Help:      "Duration of OCR stages",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"stage"}) // preprocess | recognize | parse

	PhotosCompressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "photos_compressed_total",
		Help:      "Total number of ingested photos by compression outcome",
	}, []string{"outcome"}) // compressed | original_kept

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalog",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "catalog",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
