package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// poolQueries counts profile pool queries by outcome ("ok", "error").
	poolQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchmaking_pool_queries_total",
		Help: "Profile pool queries issued by the candidate search, by outcome",
	}, []string{"outcome"})

	candidatesFound = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchmaking_search_candidates_found",
		Help:    "Candidates returned per search",
		Buckets: []float64{0, 1, 10, 50, 100, 200, 300, 500},
	})

	// refillOutcomes counts refills by returned action plus "failed".
	refillOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchmaking_refill_total",
		Help: "Refill requests by outcome",
	}, []string{"outcome"})

	matchActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchmaking_actions_total",
		Help: "Applied match actions by action",
	}, []string{"action"})

	bumpedEntries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchmaking_bumped_entries_total",
		Help: "Active entries evicted into chopped by capacity pressure",
	})

	// syncClassified counts counterparts per reciprocity classification.
	syncClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchmaking_sync_counterparts_total",
		Help: "Counterparts classified by reciprocity sync",
	}, []string{"class"})

	syncWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchmaking_sync_write_failures_total",
		Help: "Failed reciprocity status writes by side",
	}, []string{"side"})
)
