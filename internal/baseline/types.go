package baseline

import (
	"time"

	"perfgate/internal/metrics"
)

// SchemaVersion is written into every saved baseline. Load accepts older
// versions as long as the metrics keys are present.
const SchemaVersion = "1.0"

// Baseline is the persisted metric snapshot regressions are judged
// against.
type Baseline struct {
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Commit    string          `json:"commit"` // informational only
	Metrics   metrics.Metrics `json:"metrics"`
	Notes     string          `json:"notes"`
}

// New builds a baseline from the current run's metrics, stamped with the
// current UTC time.
func New(m metrics.Metrics, commit, notes string) Baseline {
	if commit == "" {
		commit = "unknown"
	}
	return Baseline{
		Version:   SchemaVersion,
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Commit:    commit,
		Metrics:   m,
		Notes:     notes,
	}
}
