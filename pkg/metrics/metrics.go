package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AnnotationsAdded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "fritter", Name: "annotations_added_total", Help: "Number of annotations created by kind."},
		[]string{"kind"},
	)
	AnnotationsRemoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "fritter", Name: "annotations_removed_total", Help: "Number of annotations removed by kind."},
		[]string{"kind"},
	)
	PinReplacements = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "fritter", Name: "pin_replacements_total", Help: "Number of pin adds that retired a previous pin."},
	)
	AnnotationConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "fritter", Name: "annotation_conflicts_total", Help: "Number of adds rejected for violating a uniqueness invariant."},
		[]string{"kind"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "fritter", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "fritter", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(AnnotationsAdded)
	reg.MustRegister(AnnotationsRemoved)
	reg.MustRegister(PinReplacements)
	reg.MustRegister(AnnotationConflicts)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
