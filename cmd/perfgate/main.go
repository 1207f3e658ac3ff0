// Command perfgate gates CI pipelines on performance regressions. It
// compares the aggregate metrics of a load-test stats CSV against a
// stored baseline and exits non-zero when degradation crosses the
// threshold table.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"perfgate/internal/baseline"
	"perfgate/internal/locust"
	"perfgate/internal/metrics"
	"perfgate/internal/regression"
)

// Exit codes CI branches on: 1 means a regression was detected, 2 means
// the invocation itself was broken (usage, parse or corrupt baseline).
const (
	exitOK         = 0
	exitRegression = 1
	exitFatal      = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	baselinePath   string
	thresholdsPath string
	commit         string
	notes          string
	updateBaseline bool
	strict         bool
	verbose        bool
	ciMode         bool
	jsonOutput     bool
}

// run executes one invocation and returns its exit code. Separated from
// main() so tests can drive it with temp files and capture output.
func run(args []string, stdout, stderr io.Writer) int {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	var opts options
	exitCode := exitOK

	cmd := &cobra.Command{
		Use:   "perfgate <stats_csv>",
		Short: "Gate CI on load-test performance regressions",
		Long: "perfgate compares the aggregate row of a Locust-style stats CSV against\n" +
			"a stored JSON baseline. The first run bootstraps the baseline; later runs\n" +
			"fail the build when a metric degrades past its threshold.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := gate(args[0], opts, log, stdout)
			if err != nil {
				return err
			}
			exitCode = code
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.baselinePath, "baseline", "perf_baseline.json", "path to the baseline JSON file")
	flags.StringVar(&opts.thresholdsPath, "thresholds", "", "YAML file overriding the built-in threshold table")
	flags.StringVar(&opts.commit, "commit", "unknown", "commit hash recorded when the baseline is saved")
	flags.StringVar(&opts.notes, "notes", "", "notes recorded when the baseline is saved")
	flags.BoolVar(&opts.updateBaseline, "update-baseline", false, "overwrite the baseline with the current results")
	flags.BoolVar(&opts.strict, "strict", false, "treat warnings as failures")
	flags.BoolVar(&opts.verbose, "verbose", false, "always print the comparison table")
	flags.BoolVar(&opts.ciMode, "ci", false, "emit GitHub Actions annotations")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print the evaluation report as JSON")

	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		log.Error(err)
		return exitFatal
	}
	return exitCode
}

// gate runs one bootstrap, update or check pass and returns the exit
// code. All fatal conditions come back as errors and map to exit 2.
func gate(statsPath string, opts options, log *logrus.Logger, stdout io.Writer) (int, error) {
	rules := regression.DefaultRules()
	if opts.thresholdsPath != "" {
		loaded, err := regression.LoadRules(opts.thresholdsPath)
		if err != nil {
			return 0, err
		}
		rules = loaded
		log.WithField("path", opts.thresholdsPath).Debug("threshold table overridden")
	}

	current, err := locust.ParseStats(statsPath)
	if err != nil {
		return 0, err
	}

	if !opts.jsonOutput {
		printCurrent(stdout, current)
	}

	store := baseline.NewStore(opts.baselinePath)

	// Update mode: unconditional overwrite, no comparison.
	if opts.updateBaseline {
		b := baseline.New(current, opts.commit, notesOrDefault(opts.notes, "Updated baseline"))
		if err := store.Save(b); err != nil {
			return 0, fmt.Errorf("save baseline: %w", err)
		}
		log.WithField("path", opts.baselinePath).Info("baseline updated with current results")
		return exitOK, nil
	}

	b, err := store.Load()
	if errors.Is(err, baseline.ErrNotFound) {
		// Bootstrap mode: first run seeds the baseline.
		log.WithField("path", opts.baselinePath).Warn("no baseline found, creating one from this run")
		nb := baseline.New(current, opts.commit, notesOrDefault(opts.notes, "Initial baseline"))
		if err := store.Save(nb); err != nil {
			return 0, fmt.Errorf("save baseline: %w", err)
		}
		log.Info("bootstrap complete, the next run will compare against this baseline")
		return exitOK, nil
	}
	if err != nil {
		return 0, err
	}

	result := regression.Evaluate(current, b.Metrics, rules)

	if opts.jsonOutput {
		report, err := regression.FormatJSON(result, b)
		if err != nil {
			return 0, err
		}
		fmt.Fprintln(stdout, report)
	} else {
		if opts.verbose || result.Overall != regression.StatusPass {
			fmt.Fprint(stdout, regression.FormatTable(result, b))
		}
		fmt.Fprint(stdout, regression.FormatFindings(result))
	}
	if opts.ciMode {
		fmt.Fprint(stdout, regression.FormatCI(result))
	}

	return regression.ExitCode(result, opts.strict), nil
}

// printCurrent echoes the parsed run metrics, mirroring what ends up in
// the baseline on bootstrap or update.
func printCurrent(w io.Writer, m metrics.Metrics) {
	fmt.Fprintln(w, "Current performance metrics:")
	fmt.Fprintf(w, "  p50: %.0fms  p95: %.0fms  p99: %.0fms\n", m.P50, m.P95, m.P99)
	fmt.Fprintf(w, "  throughput: %.1f req/s  error rate: %.1f%%  requests: %d\n",
		m.RequestsPerSec, m.ErrorRate, m.TotalRequests)
}

func notesOrDefault(notes, fallback string) string {
	if notes != "" {
		return notes
	}
	return fallback
}
