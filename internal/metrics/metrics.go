package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ArticlesIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsdeck_articles_ingested_total",
			Help: "Total number of new articles persisted by the ingestion pipeline",
		},
	)

	DuplicatesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsdeck_duplicates_skipped_total",
			Help: "Total number of candidates dropped by fingerprint deduplication",
		},
	)

	IngestFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdeck_ingest_failures_total",
			Help: "Total number of ingestion failures",
		},
		[]string{"stage"},
	)

	SharesTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdeck_shares_tracked_total",
			Help: "Total number of share events recorded",
		},
		[]string{"platform"},
	)
)
