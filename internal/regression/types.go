package regression

// Status classifies one metric comparison, and the run overall.
type Status string

const (
	StatusPass Status = "PASS"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Direction says which way a metric moves when it gets worse.
type Direction string

const (
	IncreaseIsBad Direction = "increase-is-bad" // latencies, error rate
	DecreaseIsBad Direction = "decrease-is-bad" // throughput
)

// Comparison selects how current and baseline are compared.
type Comparison string

const (
	RelativePercent Comparison = "relative-percent"
	AbsolutePoints  Comparison = "absolute-points"
)

// Rule is one row of the threshold table. A nil Fail means the metric
// can warn but never fails the gate on its own. Limits are exclusive
// bounds: a change exactly equal to a limit does not breach it.
type Rule struct {
	Metric     string     `yaml:"metric" json:"metric"`
	Label      string     `yaml:"label,omitempty" json:"label"`
	Direction  Direction  `yaml:"direction" json:"direction"`
	Comparison Comparison `yaml:"comparison" json:"comparison"`
	Warn       float64    `yaml:"warn" json:"warn"`
	Fail       *float64   `yaml:"fail,omitempty" json:"fail,omitempty"`
}

// Entry is the evaluated outcome for one metric. Change is a percentage
// for relative rules and a point delta for absolute rules.
type Entry struct {
	Metric     string     `json:"metric"`
	Label      string     `json:"label"`
	Current    float64    `json:"current"`
	Baseline   float64    `json:"baseline"`
	Change     float64    `json:"change"`
	Comparison Comparison `json:"comparison"`
	Status     Status     `json:"status"`
	Reason     string     `json:"reason,omitempty"`
}

// Result is the full evaluation of one run against the baseline.
// Overall is the worst entry status.
type Result struct {
	Entries  []Entry `json:"entries"`
	Failures []Entry `json:"failures"`
	Warnings []Entry `json:"warnings"`
	Overall  Status  `json:"overall"`
}
