// Package metrics defines and registers the custom Prometheus metrics for the
// farms API. It is the single source of truth for metric names, labels, and
// help strings. HTTP request metrics come from echoprometheus.
//
// All collectors are registered with the default registry through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "farms"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "suspended" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Sales metrics ─────────────────────────────────────────────────────────────

// SalesTotal counts sale creation requests.
// Label:
//   - outcome: "created", "replayed" or "failed"
var SalesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_total",
		Help:      "Total number of sale creation requests, by outcome.",
	},
	[]string{"outcome"},
)

// SaleAmount observes the total of every created sale.
var SaleAmount = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sale_amount",
		Help:      "Distribution of created sale totals.",
		Buckets:   prometheus.ExponentialBuckets(5, 2, 12),
	},
)

// ── Stock metrics ─────────────────────────────────────────────────────────────

// StockAdjustmentsTotal counts applied stock changes.
// Labels:
//   - resource: "producto" or "inventario"
//   - operation: "increment", "decrement" or "set"
var StockAdjustmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_adjustments_total",
		Help:      "Total number of stock adjustments applied.",
	},
	[]string{"resource", "operation"},
)

// ── Platform metrics ──────────────────────────────────────────────────────────

// AuditFailuresTotal counts audit events that could not be stored.
var AuditFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_failures_total",
		Help:      "Total number of audit events dropped because the store failed.",
	},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)
