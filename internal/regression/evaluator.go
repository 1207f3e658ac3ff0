package regression

import (
	"fmt"

	"perfgate/internal/metrics"
)

// ChangePercent returns the relative change from baseline to current in
// percent. Callers handle baseline == 0 themselves; Evaluate forces
// relative rules with a zero baseline to PASS.
func ChangePercent(current, baseline float64) float64 {
	return (current - baseline) / baseline * 100
}

// Evaluate applies the threshold table to one (current, baseline) pair
// and classifies every metric. Pure function: no clock, no I/O,
// identical inputs always produce identical output.
func Evaluate(current, baseline metrics.Metrics, rules []Rule) Result {
	result := Result{Overall: StatusPass}

	for _, rule := range rules {
		cur, ok := current.Value(rule.Metric)
		if !ok {
			// Unknown metrics are rejected by LoadRules; nothing to compare.
			continue
		}
		base, _ := baseline.Value(rule.Metric)

		entry := Entry{
			Metric:     rule.Metric,
			Label:      rule.Label,
			Current:    cur,
			Baseline:   base,
			Comparison: rule.Comparison,
			Status:     StatusPass,
		}

		switch rule.Comparison {
		case AbsolutePoints:
			entry.Change = cur - base
		default:
			if base == 0 {
				// Percent change against a zero baseline is undefined;
				// treat it as a new metric, not a regression.
				entry.Reason = fmt.Sprintf("%s baseline is zero, relative comparison skipped", rule.Label)
				result.Entries = append(result.Entries, entry)
				continue
			}
			entry.Change = ChangePercent(cur, base)
		}

		breach := entry.Change
		if rule.Direction == DecreaseIsBad {
			breach = -entry.Change
		}

		switch {
		case rule.Fail != nil && breach > *rule.Fail:
			entry.Status = StatusFail
			entry.Reason = breachReason(rule, breach, *rule.Fail)
		case breach > rule.Warn:
			entry.Status = StatusWarn
			entry.Reason = breachReason(rule, breach, rule.Warn)
		}

		result.Entries = append(result.Entries, entry)
		switch entry.Status {
		case StatusFail:
			result.Failures = append(result.Failures, entry)
			result.Overall = StatusFail
		case StatusWarn:
			result.Warnings = append(result.Warnings, entry)
			if result.Overall != StatusFail {
				result.Overall = StatusWarn
			}
		}
	}

	return result
}

func breachReason(rule Rule, breach, threshold float64) string {
	switch {
	case rule.Comparison == AbsolutePoints:
		return fmt.Sprintf("%s increased by %.1f points (threshold: %g points)", rule.Label, breach, threshold)
	case rule.Direction == DecreaseIsBad:
		return fmt.Sprintf("%s decreased by %.1f%% (threshold: %g%%)", rule.Label, breach, threshold)
	default:
		return fmt.Sprintf("%s regressed by %.1f%% (threshold: %g%%)", rule.Label, breach, threshold)
	}
}
