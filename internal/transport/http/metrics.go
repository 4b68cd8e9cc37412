package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	quoteOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ratedesk",
		Subsystem: "quote",
		Name:      "requests_total",
		Help:      "Quote requests by outcome (ok, domain error code, or error).",
	}, []string{"outcome"})

	scheduleLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ratedesk",
		Subsystem: "schedule",
		Name:      "lookups_total",
		Help:      "Schedule lookups by result (found, empty).",
	}, []string{"result"})
)

func observeQuoteOutcome(outcome string) {
	quoteOutcomes.WithLabelValues(outcome).Inc()
}

func observeScheduleLookup(found bool) {
	if found {
		scheduleLookups.WithLabelValues("found").Inc()
	} else {
		scheduleLookups.WithLabelValues("empty").Inc()
	}
}

// MetricsHandler exposes the prometheus registry.
var MetricsHandler = promhttp.Handler
