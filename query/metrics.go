package query

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	errTypeLabel  = "error_type"
	queryLabel    = "query"
	strategyLabel = "strategy"
	resultLabel   = "result"
)

var (
	queryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "query_latency",
		Help: "The time to answer a query.",
	}, []string{
		queryLabel,
	})

	queryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "query_errors",
		Help: "The errors that occured while answering a query.",
	}, []string{
		queryLabel,
		errTypeLabel,
	})

	rangeExplored = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "range_explored_entries",
		Help:    "The number of entries explored by a range query.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{
		strategyLabel,
	})

	rangeFound = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "range_found_entries",
		Help:    "The number of entries found by a range query.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{
		strategyLabel,
	})

	rangeLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "range_latency",
		Help: "The time spent by a range query strategy.",
	}, []string{
		strategyLabel,
	})

	rangeDivergence = promauto.NewCounter(prometheus.CounterOpts{
		Name: "range_divergence",
		Help: "The number of range queries whose linear and tree results differ.",
	})

	rangeCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "range_cache",
		Help: "Range result cache lookups.",
	}, []string{
		resultLabel,
	})
)

func instrumentQuery(query string, start time.Time) {
	queryLatency.With(prometheus.Labels{
		queryLabel: query,
	}).Observe(time.Since(start).Seconds())
}

func instrumentQueryError(query string, err error) {
	queryErrors.
		With(prometheus.Labels{
			queryLabel:   query,
			errTypeLabel: errors.Type(err),
		}).
		Inc()
}

func instrumentExploration(strategy string, e Exploration) {
	labels := prometheus.Labels{strategyLabel: strategy}
	rangeExplored.With(labels).Observe(float64(e.Explored))
	rangeFound.With(labels).Observe(float64(e.Found))
	rangeLatency.With(labels).Observe(e.Took.Seconds())
}

func instrumentDivergence() {
	rangeDivergence.Inc()
}

func instrumentCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	rangeCache.With(prometheus.Labels{
		resultLabel: result,
	}).Inc()
}
