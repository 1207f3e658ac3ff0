// Package metrics defines the fixed metric set extracted from a load-test
// run and persisted in the baseline file.
package metrics

import "fmt"

// Canonical metric names. These are the baseline-file keys and the names
// threshold rules refer to.
const (
	P50             = "p50"
	P95             = "p95"
	P99             = "p99"
	AvgResponseTime = "avg_response_time"
	RequestsPerSec  = "requests_per_sec"
	ErrorRate       = "error_rate"
	TotalRequests   = "total_requests"
	FailureCount    = "failure_count"
)

// Names returns every metric name in baseline-file order.
func Names() []string {
	return []string{
		P50,
		P95,
		P99,
		AvgResponseTime,
		RequestsPerSec,
		ErrorRate,
		TotalRequests,
		FailureCount,
	}
}

// Metrics holds one run's aggregate numbers. Latencies are milliseconds,
// ErrorRate is a percentage in [0, 100].
type Metrics struct {
	P50             float64 `json:"p50"`
	P95             float64 `json:"p95"`
	P99             float64 `json:"p99"`
	AvgResponseTime float64 `json:"avg_response_time"`
	RequestsPerSec  float64 `json:"requests_per_sec"`
	ErrorRate       float64 `json:"error_rate"`
	TotalRequests   int64   `json:"total_requests"`
	FailureCount    int64   `json:"failure_count"`
}

// Value returns a metric by its canonical name.
func (m Metrics) Value(name string) (float64, bool) {
	switch name {
	case P50:
		return m.P50, true
	case P95:
		return m.P95, true
	case P99:
		return m.P99, true
	case AvgResponseTime:
		return m.AvgResponseTime, true
	case RequestsPerSec:
		return m.RequestsPerSec, true
	case ErrorRate:
		return m.ErrorRate, true
	case TotalRequests:
		return float64(m.TotalRequests), true
	case FailureCount:
		return float64(m.FailureCount), true
	}
	return 0, false
}

// Validate checks the value invariants: no metric is negative and the
// error rate is a percentage.
func (m Metrics) Validate() error {
	for _, name := range Names() {
		v, _ := m.Value(name)
		if v < 0 {
			return fmt.Errorf("%s: negative value %v", name, v)
		}
	}
	if m.ErrorRate > 100 {
		return fmt.Errorf("%s: %v exceeds 100", ErrorRate, m.ErrorRate)
	}
	return nil
}
