// Package metrics defines and registers all custom Prometheus metrics for the
// video catalog API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "video_catalog"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failure" (bad credentials) or "error" (store failure)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// TokenAuthTotal counts per-request authentication outcomes.
// Label:
//   - result: "authenticated", "anonymous" (no bearer header), "expired",
//     "invalid", "unknown_subject", "error" or "panic"
var TokenAuthTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_token_checks_total",
		Help:      "Total number of bearer token checks performed by the request authenticator.",
	},
	[]string{"result"},
)

// AuthzDecisionsTotal counts authorization policy verdicts.
// Labels:
//   - rule: the name of the rule that matched
//   - decision: "allow", "unauthorized" or "forbidden"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by matched rule and verdict.",
	},
	[]string{"rule", "decision"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events by outcome.
// Labels:
//   - type: the auth event type (e.g. "login_failed")
//   - outcome: "written", "dropped" (shard full) or "failed" (store error)
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of authentication audit events, by type and outcome.",
	},
	[]string{"type", "outcome"},
)

// AuditQueueDepth tracks the number of events waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// VideosImportedTotal counts videos created by the import endpoint.
// Label:
//   - source: "youtube", "vimeo" or "internal"
var VideosImportedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "videos_imported_total",
		Help:      "Total number of videos created by imports, by source.",
	},
	[]string{"source"},
)

// StatsCacheTotal counts statistics cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var StatsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_lookups_total",
		Help:      "Total number of video statistics cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// StatsCacheDuration measures Redis round-trips for the statistics cache.
// Label:
//   - op: "get", "set" or "invalidate"
var StatsCacheDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stats_cache_duration_seconds",
		Help:      "Duration of statistics cache operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)
