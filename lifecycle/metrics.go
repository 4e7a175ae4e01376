package lifecycle

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric outcome constants.
const (
	outcomeSuccess = "success"
)

// Metric definitions with appropriate labels.
var (
	// transitionsTotal tracks committed transitions by definition and pair.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_transitions_total",
		Help: "Total number of committed transitions by definition, from_state, to_state, and outcome",
	}, []string{"definition", "from_state", "to_state", "outcome"})

	// rejectionsTotal tracks rejected transitions by rejection kind.
	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_transition_rejections_total",
		Help: "Total number of rejected transitions by definition, from_state, to_state, and kind",
	}, []string{"definition", "from_state", "to_state", "kind"})

	// forceOverridesTotal tracks audited force overrides separately so bypass
	// usage is visible on a dashboard without log spelunking.
	forceOverridesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_force_overrides_total",
		Help: "Total number of force overrides by definition, from_state, and to_state",
	}, []string{"definition", "from_state", "to_state"})

	// transitionDuration tracks end-to-end transition latency.
	transitionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lifecycle_transition_duration_seconds",
		Help:    "Duration of transition execution by definition and outcome",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"definition", "outcome"})
)

// rejectionKind maps a rejection to a low-cardinality metric label.
func rejectionKind(terr *TransitionError) string {
	switch {
	case errors.Is(terr.Err, ErrReentrantTransition):
		return "reentrant"
	case errors.Is(terr.Err, ErrNoOpTransition):
		return "noop"
	case errors.Is(terr.Err, ErrStaleState):
		return "stale_state"
	case errors.Is(terr.Err, ErrUnknownState):
		return "unknown_state"
	case errors.Is(terr.Err, ErrIllegalTransition):
		return "illegal"
	case errors.Is(terr.Err, ErrGuardRejected):
		return "guard"
	case errors.Is(terr.Err, ErrValidationRejected):
		return "validation"
	case errors.Is(terr.Err, ErrHookRejected):
		return "hook"
	case errors.Is(terr.Err, ErrReasonRequired):
		return "reason_required"
	default:
		return "other"
	}
}
