package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "avec_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Ledger entries by type and resulting status
	LedgerTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avec_ledger_transactions_total",
			Help: "Ledger transactions created or moved to a new status",
		},
		[]string{"type", "status"},
	)

	// Profit-sharing runs by outcome
	SharingExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avec_sharing_executions_total",
			Help: "Profit-sharing executions by result",
		},
		[]string{"result"}, // result: executed, already_shared, not_ready, locked, error
	)

	// Outbox events handed to the publisher
	OutboxPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avec_outbox_published_total",
			Help: "Outbox events published, by result",
		},
		[]string{"result"}, // result: sent, failed
	)
)

// RecordLedger counts a ledger entry reaching status.
func RecordLedger(txnType, status string) {
	LedgerTransactions.WithLabelValues(txnType, status).Inc()
}

// RecordSharing counts a profit-sharing attempt.
func RecordSharing(result string) {
	SharingExecutions.WithLabelValues(result).Inc()
}

// RecordOutbox counts an outbox publish attempt.
func RecordOutbox(result string) {
	OutboxPublished.WithLabelValues(result).Inc()
}
