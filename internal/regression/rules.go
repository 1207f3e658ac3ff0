package regression

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"perfgate/internal/metrics"
)

func limit(v float64) *float64 { return &v }

// DefaultRules returns the built-in threshold table. p95 latency and
// error rate gate the build; p50, p99 and throughput only warn.
func DefaultRules() []Rule {
	return []Rule{
		{Metric: metrics.P95, Label: "p95", Direction: IncreaseIsBad, Comparison: RelativePercent, Warn: 20, Fail: limit(20)},
		{Metric: metrics.ErrorRate, Label: "Error Rate", Direction: IncreaseIsBad, Comparison: AbsolutePoints, Warn: 2, Fail: limit(2)},
		{Metric: metrics.P50, Label: "p50", Direction: IncreaseIsBad, Comparison: RelativePercent, Warn: 20},
		{Metric: metrics.P99, Label: "p99", Direction: IncreaseIsBad, Comparison: RelativePercent, Warn: 25},
		{Metric: metrics.RequestsPerSec, Label: "Throughput", Direction: DecreaseIsBad, Comparison: RelativePercent, Warn: 30},
	}
}

// rulesFile is the YAML override format: a top-level rules list.
type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a threshold table from a YAML file so limits can be
// tuned without rebuilding the tool. The table replaces the built-in
// rules wholesale.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read thresholds file: %w", err)
	}

	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("invalid thresholds YAML: %w", err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("thresholds file %s defines no rules", path)
	}

	for i := range rf.Rules {
		r := &rf.Rules[i]
		if _, ok := (metrics.Metrics{}).Value(r.Metric); !ok {
			return nil, fmt.Errorf("rule %d: unknown metric %q", i, r.Metric)
		}
		if r.Label == "" {
			r.Label = r.Metric
		}
		switch r.Direction {
		case IncreaseIsBad, DecreaseIsBad:
		default:
			return nil, fmt.Errorf("rule %q: unknown direction %q", r.Metric, r.Direction)
		}
		switch r.Comparison {
		case RelativePercent, AbsolutePoints:
		default:
			return nil, fmt.Errorf("rule %q: unknown comparison %q", r.Metric, r.Comparison)
		}
		if r.Warn <= 0 {
			return nil, fmt.Errorf("rule %q: warn limit must be positive, got %v", r.Metric, r.Warn)
		}
		if r.Fail != nil && *r.Fail < r.Warn {
			return nil, fmt.Errorf("rule %q: fail limit %v below warn limit %v", r.Metric, *r.Fail, r.Warn)
		}
	}

	return rf.Rules, nil
}
