package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "babel"

// Registry holds every marketplace collector.
var Registry = prometheus.NewRegistry()

var (
	// ProjectsCreated counts successfully created projects.
	ProjectsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_created_total",
		Help:      "Projects created with an escrowed reward.",
	})

	// TranslationsSubmitted counts accepted submissions, including overwrites.
	TranslationsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "translations_submitted_total",
		Help:      "Translation submissions recorded.",
	})

	// VotesCast counts recorded milestone votes by choice.
	VotesCast = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_cast_total",
		Help:      "Milestone votes recorded, by choice.",
	}, []string{"choice"})

	// VoteRejections counts refused votes by error code.
	VoteRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vote_rejections_total",
		Help:      "Milestone votes refused, by error code.",
	}, []string{"code"})

	// Resolutions counts first-time milestone resolutions by outcome.
	Resolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "milestone_resolutions_total",
		Help:      "Milestones resolved, by outcome.",
	}, []string{"outcome"})

	// EscrowOps counts escrow calls by kind and result.
	EscrowOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "escrow_operations_total",
		Help:      "Escrow deposit, release and refund calls.",
	}, []string{"kind", "result"})

	// ReputationDeltas counts applied reputation deltas by sign.
	ReputationDeltas = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reputation_deltas_total",
		Help:      "Reputation deltas applied, by sign.",
	}, []string{"sign"})

	// Height is the latest progress counter value.
	Height = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "height",
		Help:      "Current network progress counter.",
	})
)

func init() {
	Registry.MustRegister(
		ProjectsCreated,
		TranslationsSubmitted,
		VotesCast,
		VoteRejections,
		Resolutions,
		EscrowOps,
		ReputationDeltas,
		Height,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Result returns the label for an operation outcome.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
