package regression

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfgate/internal/metrics"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultRulesTable(t *testing.T) {
	rules := DefaultRules()
	require.Len(t, rules, 5)

	byMetric := make(map[string]Rule, len(rules))
	for _, r := range rules {
		byMetric[r.Metric] = r
	}

	p95 := byMetric[metrics.P95]
	assert.Equal(t, 20.0, p95.Warn)
	require.NotNil(t, p95.Fail)
	assert.Equal(t, 20.0, *p95.Fail)

	errRate := byMetric[metrics.ErrorRate]
	assert.Equal(t, AbsolutePoints, errRate.Comparison)
	require.NotNil(t, errRate.Fail)
	assert.Equal(t, 2.0, *errRate.Fail)

	for _, warnOnly := range []string{metrics.P50, metrics.P99, metrics.RequestsPerSec} {
		assert.Nil(t, byMetric[warnOnly].Fail, "metric %q should be warn-only", warnOnly)
	}
	assert.Equal(t, DecreaseIsBad, byMetric[metrics.RequestsPerSec].Direction)
}

func TestLoadRules(t *testing.T) {
	path := writeRules(t, `
rules:
  - metric: p95
    direction: increase-is-bad
    comparison: relative-percent
    warn: 10
    fail: 15
  - metric: requests_per_sec
    label: Throughput
    direction: decrease-is-bad
    comparison: relative-percent
    warn: 25
`)

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, "p95", rules[0].Label, "label defaults to the metric name")
	require.NotNil(t, rules[0].Fail)
	assert.Equal(t, 15.0, *rules[0].Fail)

	assert.Equal(t, "Throughput", rules[1].Label)
	assert.Nil(t, rules[1].Fail)
}

func TestLoadRulesRejectsBadTables(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "not yaml",
			content: "{{{",
			wantMsg: "invalid thresholds YAML",
		},
		{
			name:    "no rules",
			content: "rules: []\n",
			wantMsg: "defines no rules",
		},
		{
			name: "unknown metric",
			content: `
rules:
  - metric: p75
    direction: increase-is-bad
    comparison: relative-percent
    warn: 10
`,
			wantMsg: `unknown metric "p75"`,
		},
		{
			name: "unknown direction",
			content: `
rules:
  - metric: p95
    direction: sideways
    comparison: relative-percent
    warn: 10
`,
			wantMsg: "unknown direction",
		},
		{
			name: "unknown comparison",
			content: `
rules:
  - metric: p95
    direction: increase-is-bad
    comparison: ratio
    warn: 10
`,
			wantMsg: "unknown comparison",
		},
		{
			name: "zero warn limit",
			content: `
rules:
  - metric: p95
    direction: increase-is-bad
    comparison: relative-percent
    warn: 0
`,
			wantMsg: "warn limit must be positive",
		},
		{
			name: "fail below warn",
			content: `
rules:
  - metric: p95
    direction: increase-is-bad
    comparison: relative-percent
    warn: 20
    fail: 10
`,
			wantMsg: "below warn limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRules(writeRules(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
