// Package hub, Prometheus instrumentation.
//
// The collectors here mirror the HTTP middleware metrics one layer down: how
// many identities are bound, how many events were relayed or dropped per
// outbound event name, and how often the record store failed. Event names are
// a small fixed vocabulary, so label cardinality stays bounded.
package hub

import "github.com/prometheus/client_golang/prometheus"

var (
	// onlineGauge tracks the number of currently bound identities.
	onlineGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hub_online_identities",
		Help: "Number of identities currently bound to a connection.",
	})

	// eventsRelayed counts deliveries handed to a connection, by event name.
	eventsRelayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_events_relayed_total",
			Help: "Total outbound events handed to a connection.",
		},
		[]string{"event"},
	)

	// eventsDropped counts deliveries whose target was offline, by event name.
	eventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_events_dropped_total",
			Help: "Total outbound events dropped because the target identity was offline.",
		},
		[]string{"event"},
	)

	// callsAccepted counts accepted call attempts.
	callsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hub_calls_accepted_total",
		Help: "Total accepted calls.",
	})

	// storeFailures counts record store load/append failures by operation.
	storeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_store_failures_total",
			Help: "Total record store operations that failed (relay continued).",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(onlineGauge, eventsRelayed, eventsDropped, callsAccepted, storeFailures)
}

func relayed(event string) { eventsRelayed.WithLabelValues(event).Inc() }
func dropped(event string) { eventsDropped.WithLabelValues(event).Inc() }
