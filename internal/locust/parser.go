// Package locust extracts the aggregate metric set from a Locust-style
// stats CSV.
package locust

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"perfgate/internal/metrics"
)

// AggregateRow is the Name value of the row summarizing all sampled
// operations. Only this row is consumed.
const AggregateRow = "Aggregated"

// Required column headers, as Locust writes them.
const (
	colName     = "Name"
	colRequests = "Request Count"
	colFailures = "Failure Count"
	colP50      = "50%"
	colP95      = "95%"
	colP99      = "99%"
	colAvg      = "Average Response Time"
	colRPS      = "Requests/s"
)

func requiredColumns() []string {
	return []string{colName, colRequests, colFailures, colP50, colP95, colP99, colAvg, colRPS}
}

// ParseError reports a stats file that cannot be turned into metrics.
// Field names the missing or malformed column when one is at fault.
type ParseError struct {
	Path  string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	switch {
	case e.Path != "" && e.Field != "":
		return fmt.Sprintf("parse %s: column %q: %v", e.Path, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("parse stats: column %q: %v", e.Field, e.Err)
	case e.Path != "":
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parse stats: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseStats reads the stats CSV at path and returns the aggregate row's
// metrics.
func ParseStats(path string) (metrics.Metrics, error) {
	f, err := os.Open(path)
	if err != nil {
		return metrics.Metrics{}, fmt.Errorf("read stats file: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return metrics.Metrics{}, err
	}
	return m, nil
}

// Parse reads header-driven CSV stats from r and extracts the metrics of
// the aggregate row. Pure transform: no retries, no side effects.
func Parse(r io.Reader) (metrics.Metrics, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return metrics.Metrics{}, &ParseError{Err: errors.New("empty stats file")}
	}
	if err != nil {
		return metrics.Metrics{}, &ParseError{Err: err}
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredColumns() {
		if _, ok := idx[col]; !ok {
			return metrics.Metrics{}, &ParseError{Field: col, Err: errors.New("column missing")}
		}
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return metrics.Metrics{}, &ParseError{Err: err}
		}
		if idx[colName] >= len(row) || row[idx[colName]] != AggregateRow {
			continue
		}
		return fromRow(row, idx)
	}

	return metrics.Metrics{}, &ParseError{Err: fmt.Errorf("no %q row found", AggregateRow)}
}

// fromRow converts the aggregate row into typed metrics via explicit
// named-field extraction.
func fromRow(row []string, idx map[string]int) (metrics.Metrics, error) {
	totalRequests, err := numField(row, idx, colRequests)
	if err != nil {
		return metrics.Metrics{}, err
	}
	failureCount, err := numField(row, idx, colFailures)
	if err != nil {
		return metrics.Metrics{}, err
	}
	p50, err := numField(row, idx, colP50)
	if err != nil {
		return metrics.Metrics{}, err
	}
	p95, err := numField(row, idx, colP95)
	if err != nil {
		return metrics.Metrics{}, err
	}
	p99, err := numField(row, idx, colP99)
	if err != nil {
		return metrics.Metrics{}, err
	}
	avg, err := numField(row, idx, colAvg)
	if err != nil {
		return metrics.Metrics{}, err
	}
	rps, err := numField(row, idx, colRPS)
	if err != nil {
		return metrics.Metrics{}, err
	}

	// Error rate is undefined without requests; report it as zero.
	errorRate := 0.0
	if totalRequests > 0 {
		errorRate = failureCount / totalRequests * 100
	}

	return metrics.Metrics{
		P50:             p50,
		P95:             p95,
		P99:             p99,
		AvgResponseTime: avg,
		RequestsPerSec:  rps,
		ErrorRate:       errorRate,
		TotalRequests:   int64(totalRequests),
		FailureCount:    int64(failureCount),
	}, nil
}

// numField parses one numeric column of the aggregate row.
func numField(row []string, idx map[string]int, col string) (float64, error) {
	i := idx[col]
	if i >= len(row) {
		return 0, &ParseError{Field: col, Err: errors.New("value missing in aggregate row")}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
	if err != nil {
		return 0, &ParseError{Field: col, Err: fmt.Errorf("not a number: %q", row[i])}
	}
	return v, nil
}
