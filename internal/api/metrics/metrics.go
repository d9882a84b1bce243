// Package metrics defines and registers all custom Prometheus metrics for the
// savefarm API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "savefarm"

// ── Analysis metrics ──────────────────────────────────────────────────────────

// AnalysesTotal counts recipe analyses.
// Label:
//   - verdict: "animal_products", "substitutes", "naturally_vegan", "model" or "empty"
var AnalysesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_total",
		Help:      "Total number of recipe analyses, by verdict.",
	},
	[]string{"verdict"},
)

// InferenceRequestsTotal counts calls to the hosted model.
// Label:
//   - outcome: "ok", "fallback" (heuristic used after a failure) or "disabled"
var InferenceRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inference_requests_total",
		Help:      "Total number of model inference attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

var AccountsRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_registered_total",
		Help:      "Total number of accounts created.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

var MealsLoggedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "meals_logged_total",
		Help:      "Total number of nutrition log entries created.",
	},
)

// ── Community metrics ─────────────────────────────────────────────────────────

var RecipesSharedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recipes_shared_total",
		Help:      "Total number of recipes shared with the community.",
	},
)

var RecipeLikesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recipe_likes_total",
		Help:      "Total number of likes given to shared recipes.",
	},
)

var RecipeCommentsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recipe_comments_total",
		Help:      "Total number of comments posted on shared recipes.",
	},
)

// ── Storage metrics ───────────────────────────────────────────────────────────

// DocumentWriteDuration measures a full read-modify-write cycle on a JSON document.
// Label:
//   - document: file base name (e.g. "users.json")
var DocumentWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "document_write_duration_seconds",
		Help:      "Duration of a read-modify-write cycle on a JSON document.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"document"},
)
