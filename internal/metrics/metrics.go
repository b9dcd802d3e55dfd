// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResponsesSaved counts persisted response batches by assessment type.
	ResponsesSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assessment_responses_saved_total",
		Help: "Number of response batches persisted",
	}, []string{"assessment_type"})

	// StaleSaves counts saves rejected by the revision check.
	StaleSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assessment_stale_saves_total",
		Help: "Number of response saves rejected as stale",
	})

	// AssessmentsCompleted counts completions by assessment type.
	AssessmentsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assessments_completed_total",
		Help: "Number of assessments completed",
	}, []string{"assessment_type"})

	// DocumentsGenerated counts rendered plan documents by plan type.
	DocumentsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_documents_generated_total",
		Help: "Number of plan documents generated",
	}, []string{"plan_type"})
)
