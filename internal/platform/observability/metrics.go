package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ItemsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsdesk_items_fetched_total",
		Help: "The total number of items fetched per source",
	}, []string{"source"})

	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsdesk_fetch_errors_total",
		Help: "The total number of failed source fetches",
	}, []string{"source"})

	ItemsFiltered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsdesk_items_filtered_total",
		Help: "The total number of items dropped by filters",
	}, []string{"source", "reason"})

	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "newsdesk_pipeline_duration_seconds",
		Help:    "Duration of a full fetch-and-rank cycle",
		Buckets: []float64{0.5, 1, 2, 5, 10, 15, 30, 60},
	})

	OutputSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "newsdesk_output_size",
		Help: "Number of items in the last cycle's output",
	})

	OutputShortfall = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsdesk_output_shortfall_total",
		Help: "Cycles that produced fewer items than the target",
	})

	TrendingClusters = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "newsdesk_trending_items",
		Help: "Number of trending items in the last cycle's output",
	})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newsdesk_llm_request_duration_seconds",
		Help:    "Duration of text generation requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsdesk_llm_fallbacks_total",
		Help: "Generation requests served by the templated fallback",
	})

	StoreExpiries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsdesk_store_expiries_total",
		Help: "Items removed from the store by retention expiry",
	})
)
