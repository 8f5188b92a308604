package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChunksScanned counts block chunks fetched by the indexer
	ChunksScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "indexer_chunks_scanned_total",
			Help: "Total number of block chunks scanned",
		},
	)

	// LogsFetched counts Transfer logs returned by eth_getLogs
	LogsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "indexer_logs_fetched_total",
			Help: "Total number of Transfer logs fetched",
		},
	)

	// TransfersStored counts insert attempts by outcome (inserted, skipped, failed)
	TransfersStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_transfers_stored_total",
			Help: "Total number of transfer insert attempts by outcome",
		},
		[]string{"outcome"},
	)

	// MalformedLogs counts logs skipped by the decoder
	MalformedLogs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "indexer_malformed_logs_total",
			Help: "Total number of logs that failed to decode",
		},
	)

	// FetchRetries counts retried RPC calls by method
	FetchRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_rpc_retries_total",
			Help: "Total number of retried RPC calls",
		},
		[]string{"method"},
	)

	// FetchErrors counts RPC calls that gave up, by method and error kind
	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_rpc_errors_total",
			Help: "Total number of failed RPC calls",
		},
		[]string{"method", "kind"},
	)

	// FetchDuration tracks RPC call latency including retries
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "indexer_rpc_duration_seconds",
			Help:    "RPC call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// LastScannedBlock tracks the highest block the indexer has finished
	LastScannedBlock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "indexer_last_scanned_block",
			Help: "Highest block number fully scanned",
		},
	)

	// ChainHead tracks the latest block number reported by the RPC node
	ChainHead = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "indexer_chain_head_block",
			Help: "Latest block number reported by the chain",
		},
	)

	// HTTPRequests counts query API requests by route and status code
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	// HTTPDuration tracks query API latency by route
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)
