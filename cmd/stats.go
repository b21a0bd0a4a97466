package cmd

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/guregu/null.v3"
	"gopkg.in/yaml.v3"

	"github.com/liuxd6825/circllhist/errext"
	"github.com/liuxd6825/circllhist/errext/exitcodes"
)

// statsReport is the JSON/YAML shape emitted by `circllhist stats`. Fields
// that can legitimately be absent (an empty histogram has no mean, no
// quantiles) use null.v3 so the zero value round-trips as JSON null
// instead of a misleading 0.
type statsReport struct {
	SampleCount uint64                `json:"sample_count" yaml:"sample_count"`
	BucketCount int                   `json:"bucket_count" yaml:"bucket_count"`
	Mean        null.Float            `json:"mean" yaml:"mean"`
	Sum         null.Float            `json:"sum" yaml:"sum"`
	Stddev      null.Float            `json:"stddev" yaml:"stddev"`
	Quantiles   map[string]null.Float `json:"quantiles" yaml:"quantiles"`
}

func getStatsCmd(gs *globalState) *cobra.Command {
	var (
		quantilesFlag string
		outputFormat  string
		useType7      bool
		cumulative    string
	)

	statsCmd := &cobra.Command{
		Use:   "stats <histogram>",
		Short: "Compute summary statistics for a histogram",
		Long: "stats reads a histogram (base64 blob, or a path to a file containing one) " +
			"and prints its sample count, mean, sum, standard deviation and requested quantiles. " +
			"With --cumulative, it first subtracts a previous cumulative snapshot so the report " +
			"covers only the delta since that baseline.",
		Args: exactArgsWithMsg(1, "expected exactly one histogram argument"),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := readHistogramArg(gs.fs, args[0])
			if err != nil {
				return err
			}
			if cumulative != "" {
				baseline, err := readHistogramArg(gs.fs, cumulative)
				if err != nil {
					return err
				}
				diff := h.Clone()
				if diff.Subtract(baseline) < 0 {
					return errext.WithExitCodeIfNone(
						errext.WithHint(
							errFromMessage("cumulative baseline is not a prefix of the current histogram"),
							"--cumulative requires every baseline bucket to also be present in <histogram> with a count at least as large",
						),
						exitcodes.Underflow,
					)
				}
				h = diff
			}
			quantiles, err := parseQuantileArgs(quantilesFlag)
			if err != nil {
				return err
			}

			report := statsReport{
				SampleCount: h.SampleCount(),
				BucketCount: h.BucketCount(),
				Quantiles:   make(map[string]null.Float, len(quantiles)),
			}
			if report.SampleCount > 0 {
				report.Mean = null.FloatFrom(h.ApproxMean())
				report.Sum = null.FloatFrom(h.ApproxSum())
				report.Stddev = null.FloatFrom(h.ApproxStddev())
			}

			qFn := h.ApproxQuantile
			if useType7 {
				qFn = h.ApproxQuantile7
			}
			results, rc := qFn(quantiles)
			if rc != 0 && rc != -1 {
				return errext.WithExitCodeIfNone(
					errext.WithHint(errQuantileFailed(rc), "requested quantiles must be in ascending order and each within [0, 1]"),
					exitcodes.InvalidQuantileRequest,
				)
			}
			for i, q := range quantiles {
				key := formatQuantileKey(q)
				if rc == -1 {
					report.Quantiles[key] = null.Float{}
					continue
				}
				report.Quantiles[key] = null.FloatFrom(results[i])
			}

			return writeReport(gs, outputFormat, report)
		},
	}

	statsCmd.Flags().StringVarP(&quantilesFlag, "quantiles", "Q", "0.5,0.9,0.99",
		"comma-separated quantiles to compute, each in [0, 1]")
	statsCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")
	statsCmd.Flags().BoolVar(&useType7, "type7", false, "use the Hyndman-Fan Type 7 quantile estimator instead of Type 1")
	statsCmd.Flags().StringVarP(&cumulative, "cumulative", "C", "",
		"a previous cumulative histogram (blob or file path) to subtract from <histogram> before reporting")

	return statsCmd
}

func errQuantileFailed(rc int) error {
	switch rc {
	case -2:
		return errFromMessage("requested quantiles are not in ascending order")
	case -3:
		return errFromMessage("requested quantile is out of bounds")
	default:
		return errFromMessage("quantile computation failed")
	}
}

func errFromMessage(msg string) error { return &simpleError{msg} }

type simpleError struct{ msg string }

func (e *simpleError) Error() string { return e.msg }

func formatQuantileKey(q float64) string {
	// round to avoid float64 noise like 0.9*100 == 90.00000000000001
	rounded := math.Round(q*100*1e6) / 1e6
	return "p" + strconv.FormatFloat(rounded, 'f', -1, 64)
}

func writeReport(gs *globalState, format string, report statsReport) error {
	var out []byte
	var err error
	switch format {
	case "yaml":
		out, err = yaml.Marshal(report)
	case "json", "":
		out, err = json.MarshalIndent(report, "", "  ")
	default:
		return errext.WithExitCodeIfNone(
			errFromMessage("unsupported output format '"+format+"'"),
			exitcodes.InvalidConfig,
		)
	}
	if err != nil {
		return err
	}
	fprintf(gs.stdOut, "%s\n", out)
	return nil
}
