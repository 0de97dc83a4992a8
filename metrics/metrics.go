package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var UpstreamRequestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "upstream_request_total",
	Help: "The total number of requests by collection to the upstream data provider",
}, []string{"collection"})

var UpstreamResponseCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "upstream_response_total",
	Help: "The total number of responses by status code from the upstream data provider",
}, []string{"status_code"})

var UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "upstream_request_duration_seconds",
	Help: "Duration of requests to the upstream data provider",
}, []string{"collection"})

var IngestionRunCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tarkov_ingestion_runs_total",
	Help: "Ingestion runs by collection, origin (api|file) and result",
}, []string{"collection", "origin", "result"})

var IngestionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "tarkov_ingestion_duration_seconds",
	Help:    "Duration of a full ingestion run including the upstream fetch",
	Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
}, []string{"collection"})

var IngestedEntitiesGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "tarkov_ingested_entities",
	Help: "Number of entities in the last committed ingestion run",
}, []string{"collection"})

var CacheLookupCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tarkov_response_cache_lookups_total",
	Help: "Response cache lookups by collection and result (hit|miss)",
}, []string{"collection", "result"})

var CircuitBreakerStateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "upstream_circuit_breaker_open",
	Help: "1 while the upstream circuit breaker for a collection is open",
}, []string{"collection"})

var StoreQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "tarkov_store_query_duration_seconds",
	Help:    "Duration of entity store operations, reconciliation transactions included",
	Buckets: prometheus.ExponentialBuckets(0.001, 4, 9),
}, []string{"operation"})
