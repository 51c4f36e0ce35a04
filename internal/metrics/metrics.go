// internal/metrics/metrics.go
//
// Prometheus counters for the game server, exposed on GET /metrics.
//
// All Observe* methods are safe on a nil *Metrics so packages can be used
// (and tested) without a registry.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Validation sources, in the order the validator consults them.
const (
	SourceCache      = "cache"
	SourceDictionary = "dictionary"
	SourceRemote     = "remote"
)

// Metrics bundles the server's collectors.
type Metrics struct {
	validations   *prometheus.CounterVec
	lookupErrors  prometheus.Counter
	guesses       *prometheus.CounterVec
	gamesFinished *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hardle",
			Name:      "validations_total",
			Help:      "Word validations by the source that answered and the result.",
		}, []string{"source", "result"}),
		lookupErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hardle",
			Name:      "remote_lookup_errors_total",
			Help:      "Remote dictionary lookups that failed in transport or decoding.",
		}),
		guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hardle",
			Name:      "guesses_total",
			Help:      "Guess submissions by outcome.",
		}, []string{"result"}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hardle",
			Name:      "games_finished_total",
			Help:      "Finished games by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.validations, m.lookupErrors, m.guesses, m.gamesFinished)
	return m
}

// ObserveValidation counts a validation answered by source.
func (m *Metrics) ObserveValidation(source string, valid bool) {
	if m == nil {
		return
	}
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.validations.WithLabelValues(source, result).Inc()
}

// ObserveLookupError counts a failed remote lookup.
func (m *Metrics) ObserveLookupError() {
	if m == nil {
		return
	}
	m.lookupErrors.Inc()
}

// ObserveGuess counts a submission; result is a short reason such as "accepted" or "not_a_word".
func (m *Metrics) ObserveGuess(result string) {
	if m == nil {
		return
	}
	m.guesses.WithLabelValues(result).Inc()
}

// ObserveGameFinished counts a game reaching its terminal state.
func (m *Metrics) ObserveGameFinished(won bool) {
	if m == nil {
		return
	}
	outcome := "lost"
	if won {
		outcome = "won"
	}
	m.gamesFinished.WithLabelValues(outcome).Inc()
}
