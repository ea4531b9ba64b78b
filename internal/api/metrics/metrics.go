// Package metrics defines and registers all custom Prometheus metrics for
// the StudyBridge apply platform. It is the single source of truth for
// metric names, labels, and help strings.
//
// Collectors register with the default registry via promauto at package
// init; expose them by mounting the echoprometheus handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "studybridge"

// ── Session metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer token checks. The outcome label
// carries the internal failure classification even though callers only see
// valid/invalid.
// Label:
//   - outcome: "ok", "expired", "bad_signature", "malformed"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of credential verifications, labelled by outcome.",
	},
	[]string{"outcome"},
)

// ── Questionnaire metrics ─────────────────────────────────────────────────────

// StepsSavedTotal counts successful questionnaire step submissions.
// Label:
//   - step: the submitted step ordinal ("1".."8")
var StepsSavedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "questionnaire_steps_saved_total",
		Help:      "Total number of questionnaire steps saved, by step.",
	},
	[]string{"step"},
)

// CompletionsTotal counts terminal questionnaire completions.
var CompletionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "questionnaire_completions_total",
		Help:      "Total number of questionnaires completed.",
	},
)

// ── Application metrics ───────────────────────────────────────────────────────

// ApplicationsCreatedTotal counts newly opened draft applications.
var ApplicationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_created_total",
		Help:      "Total number of university applications created.",
	},
)

// ApplicationTransitionsTotal counts application status changes.
// Label:
//   - status: the status the application moved to
var ApplicationTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "application_transitions_total",
		Help:      "Total number of application status transitions, by target status.",
	},
	[]string{"status"},
)
