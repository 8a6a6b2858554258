// Package metrics defines and registers all custom Prometheus metrics for
// the members system. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// import time via promauto; HTTP-level request metrics come separately from
// the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "members"

// SignupsTotal counts completed signups.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created.",
	},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// SessionsDestroyedTotal counts explicit logouts (TTL expiry is handled by
// the store and not observable here).
var SessionsDestroyedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_destroyed_total",
		Help:      "Total number of sessions destroyed by logout.",
	},
)

// AuthzDeniedTotal counts authorization rejections.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var AuthzDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denied_total",
		Help:      "Total number of denied authorization checks, labelled by reason.",
	},
	[]string{"reason"},
)

// RoleChangesTotal counts admin promote/demote operations that persisted.
// Label:
//   - direction: "promote" or "demote"
var RoleChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_changes_total",
		Help:      "Total number of role changes applied from the admin panel.",
	},
	[]string{"direction"},
)

// AuditEventsDroppedTotal counts audit events discarded because the
// dispatcher buffer was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped due to a full queue.",
	},
)
