package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"perfgate/internal/metrics"
)

// ErrNotFound is returned by Load when no baseline file exists. It is
// the bootstrap trigger, not a failure.
var ErrNotFound = errors.New("baseline not found")

// CorruptError reports a baseline file that exists but cannot be
// trusted: invalid JSON, missing metric keys, or out-of-range values.
// A corrupt baseline is never silently overwritten.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt baseline %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Store reads and writes one baseline file. The path is threaded in
// explicitly; there is no process-wide default.
type Store struct {
	Path string
}

// NewStore creates a store for the given baseline path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// baselineFile mirrors the on-disk schema with an open metrics map so
// missing keys can be told apart from zero values.
type baselineFile struct {
	Version   string             `json:"version"`
	Timestamp time.Time          `json:"timestamp"`
	Commit    string             `json:"commit"`
	Metrics   map[string]float64 `json:"metrics"`
	Notes     string             `json:"notes"`
}

// Load retrieves the stored baseline. Returns ErrNotFound when the file
// does not exist and *CorruptError when it exists but fails validation.
func (s *Store) Load() (Baseline, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Baseline{}, ErrNotFound
		}
		return Baseline{}, err
	}

	var bf baselineFile
	if err := json.Unmarshal(data, &bf); err != nil {
		return Baseline{}, &CorruptError{Path: s.Path, Err: err}
	}
	if bf.Metrics == nil {
		return Baseline{}, &CorruptError{Path: s.Path, Err: errors.New("missing metrics object")}
	}
	for _, name := range metrics.Names() {
		if _, ok := bf.Metrics[name]; !ok {
			return Baseline{}, &CorruptError{Path: s.Path, Err: fmt.Errorf("missing metrics key %q", name)}
		}
	}

	b := Baseline{
		Version:   bf.Version,
		Timestamp: bf.Timestamp,
		Commit:    bf.Commit,
		Notes:     bf.Notes,
		Metrics: metrics.Metrics{
			P50:             bf.Metrics[metrics.P50],
			P95:             bf.Metrics[metrics.P95],
			P99:             bf.Metrics[metrics.P99],
			AvgResponseTime: bf.Metrics[metrics.AvgResponseTime],
			RequestsPerSec:  bf.Metrics[metrics.RequestsPerSec],
			ErrorRate:       bf.Metrics[metrics.ErrorRate],
			TotalRequests:   int64(bf.Metrics[metrics.TotalRequests]),
			FailureCount:    int64(bf.Metrics[metrics.FailureCount]),
		},
	}
	if err := b.Metrics.Validate(); err != nil {
		return Baseline{}, &CorruptError{Path: s.Path, Err: err}
	}
	return b, nil
}

// Save writes the baseline atomically: serialize to a temp file in the
// target directory, then rename over the target. A reader never
// observes a partial baseline, even if the process dies mid-save.
func (s *Store) Save(b Baseline) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".baseline-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
