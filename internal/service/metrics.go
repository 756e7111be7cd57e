package service

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsOnce            sync.Once
	storeOperationsTotal   *prometheus.CounterVec
	storeOperationDuration *prometheus.HistogramVec
	layoutCacheLookups     *prometheus.CounterVec
	editorSessionsOpen     prometheus.Gauge
	editorPublishTotal     *prometheus.CounterVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		storeOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront_layout",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Layout store operations by outcome",
		}, []string{"operation", "outcome"})

		storeOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront_layout",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of layout store operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"})

		layoutCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront_layout",
			Subsystem: "store",
			Name:      "cache_lookups_total",
			Help:      "Layout cache lookups by result",
		}, []string{"result"})

		editorSessionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "storefront_layout",
			Subsystem: "editor",
			Name:      "sessions_open",
			Help:      "Authoring sessions currently held in memory",
		})

		editorPublishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront_layout",
			Subsystem: "editor",
			Name:      "publish_total",
			Help:      "Publish attempts by outcome",
		}, []string{"outcome"})
	})
}

func observeStore(operation string, started time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	storeOperationsTotal.WithLabelValues(operation, outcome).Inc()
	storeOperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}
