package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teampot_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "teampot_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AbilityChecks counts permission checks by action and verdict.
	AbilityChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teampot_ability_checks_total",
		Help: "Total number of ability checks by action and verdict",
	}, []string{"action", "verdict"})

	// MembershipRemovals counts removal outcomes by effect.
	MembershipRemovals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teampot_membership_removals_total",
		Help: "Total number of membership removals by resulting effect",
	}, []string{"effect"})

	// EntitlementChecks counts subscription entitlement gate decisions.
	EntitlementChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teampot_entitlement_checks_total",
		Help: "Total number of entitlement gate decisions",
	}, []string{"result"})

	// BillingEvents counts processed billing provider events by type.
	BillingEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teampot_billing_events_total",
		Help: "Total number of billing provider events processed",
	}, []string{"event"})
)

// Membership removal effects recorded in MembershipRemovals.
const (
	RemovalEffectRoleDeleted   = "role_deleted"
	RemovalEffectAdminPromoted = "admin_promoted"
	RemovalEffectScopeDeleted  = "scope_deleted"
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
