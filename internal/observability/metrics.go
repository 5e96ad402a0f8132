package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	issuanceTotal          *prometheus.CounterVec
	pinLatencySeconds      prometheus.Histogram
	ledgerMintFailures     prometheus.Counter
	unlockChargesTotal     prometheus.Counter
	verificationMismatches prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		issuanceTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "credential_issuance_total",
			Help: "Total credential issuance attempts by outcome.",
		}, []string{"outcome"})

		pinLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "content_pin_latency_seconds",
			Help:    "Latency distribution for content-storage pin calls.",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		})

		ledgerMintFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_mint_failures_total",
			Help: "Total best-effort ledger anchoring failures.",
		})

		unlockChargesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "employer_unlock_charges_total",
			Help: "Total employer credit charges for profile unlocks.",
		})

		verificationMismatches = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "credential_hash_mismatches_total",
			Help: "Total verifications where the pinned payload no longer matches the stored hash.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			issuanceTotal,
			pinLatencySeconds,
			ledgerMintFailures,
			unlockChargesTotal,
			verificationMismatches,
		)
	})
}

// HTTPRequests exposes the counter for served requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for served requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// Issuance exposes the counter for issuance attempts.
func Issuance() *prometheus.CounterVec {
	RegisterMetrics()
	return issuanceTotal
}

// PinLatency exposes the histogram for pin call latency.
func PinLatency() prometheus.Histogram {
	RegisterMetrics()
	return pinLatencySeconds
}

// LedgerMintFailures exposes the counter for anchoring failures.
func LedgerMintFailures() prometheus.Counter {
	RegisterMetrics()
	return ledgerMintFailures
}

// UnlockCharges exposes the counter for unlock charges.
func UnlockCharges() prometheus.Counter {
	RegisterMetrics()
	return unlockChargesTotal
}

// VerificationMismatches exposes the counter for hash mismatches.
func VerificationMismatches() prometheus.Counter {
	RegisterMetrics()
	return verificationMismatches
}
