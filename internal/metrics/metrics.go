package metrics

import (
	"time" // Durations

	"github.com/prometheus/client_golang/prometheus"          // Prometheus types
	"github.com/prometheus/client_golang/prometheus/promauto" // Auto-registered collectors
)

// Login outcomes
const (
	ResultSuccess            = "success"
	ResultInvalidCredentials = "invalid_credentials"
	ResultPersistenceFailure = "persistence_failure"
	ResultError              = "error"
)

// Identity kinds
const (
	KindPrivileged = "privileged"
	KindStored     = "stored"
)

var (
	// LoginAttempts counts logins by outcome.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_attempts_total",
		Help: "Total number of login attempts by result",
	}, []string{"result"})

	// LoginDuration tracks login latency by identity kind.
	LoginDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "auth_login_duration_seconds",
		Help:    "Histogram of login latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// CoinsAwarded sums coins credited by the streak reward.
	CoinsAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_login_coins_awarded_total",
		Help: "Total coins credited by login rewards",
	})

	// StaleLoginWrites counts login writes that lost an optimistic concurrency check.
	StaleLoginWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_login_stale_writes_total",
		Help: "Total number of login writes retried after a concurrent update",
	})

	// TokenRejections counts bearer tokens rejected during request authorization.
	TokenRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_token_rejections_total",
		Help: "Total number of rejected session tokens",
	})
)

// RecordLogin records the outcome of one login.
func RecordLogin(result, kind string, duration time.Duration, award int64) {
	LoginAttempts.WithLabelValues(result).Inc()
	if kind != "" {
		LoginDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
	if award > 0 {
		CoinsAwarded.Add(float64(award))
	}
}
