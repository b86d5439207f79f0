package prometheus

import (
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Application metrics, registered on the default registry served by NewServer.
var (
	// URLsRegisteredTotal counts successful catalog registrations.
	URLsRegisteredTotal = promauto.NewCounter(prom.CounterOpts{
		Name: "pageanalyzer_urls_registered_total",
		Help: "Number of URLs registered in the catalog.",
	})

	// ChecksTotal counts persisted checks by outcome class.
	ChecksTotal = promauto.NewCounterVec(prom.CounterOpts{
		Name: "pageanalyzer_checks_total",
		Help: "Number of persisted page checks by outcome class.",
	}, []string{"class"})

	// FetchDuration observes how long the outbound page fetch took,
	// including transport failures.
	FetchDuration = promauto.NewHistogram(prom.HistogramOpts{
		Name:    "pageanalyzer_fetch_duration_seconds",
		Help:    "Duration of outbound page fetches.",
		Buckets: prom.DefBuckets,
	})

	// CheckEventsTotal counts audit events consumed from the check stream.
	CheckEventsTotal = promauto.NewCounterVec(prom.CounterOpts{
		Name: "pageanalyzer_check_events_total",
		Help: "Number of check events consumed from the audit stream by class.",
	}, []string{"class"})
)
