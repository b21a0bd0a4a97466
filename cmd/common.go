package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/liuxd6825/circllhist"
	"github.com/liuxd6825/circllhist/errext"
	"github.com/liuxd6825/circllhist/errext/exitcodes"
)

// fprintf panics when there's an error writing to the supplied io.Writer.
func fprintf(w io.Writer, format string, a ...interface{}) {
	if _, err := fmt.Fprintf(w, format, a...); err != nil {
		panic(err.Error())
	}
}

func exactArgsWithMsg(n int, msg string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("accepts %d arg(s), received %d: %s", n, len(args), msg)
		}
		return nil
	}
}

// readHistogramArg loads a histogram either from a base64 wire blob passed
// directly as arg, or, if arg names an existing file, from that file's
// contents (trimmed of surrounding whitespace).
func readHistogramArg(fs afero.Fs, arg string) (*circllhist.Histogram, error) {
	encoded := arg
	if data, err := afero.ReadFile(fs, arg); err == nil {
		encoded = string(data)
	}
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, errext.WithExitCodeIfNone(
			errext.WithHint(fmt.Errorf("no histogram data in %q", arg), "pass a base64 blob or a path to a file containing one"),
			exitcodes.InvalidConfig,
		)
	}
	h, err := circllhist.NewFromB64(encoded)
	if err != nil {
		return nil, errext.WithExitCodeIfNone(
			errext.WithHint(err, "input must be the base64 circllhist wire format"),
			exitcodes.InvalidConfig,
		)
	}
	return h, nil
}

// parseQuantileArgs turns a comma-separated list of quantiles (each in
// [0, 1]) into a float64 slice, validating as it goes.
func parseQuantileArgs(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		q, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, errext.WithExitCodeIfNone(
				errext.WithHint(fmt.Errorf("invalid quantile %q", p), "quantiles must be numbers between 0 and 1"),
				exitcodes.InvalidQuantileRequest,
			)
		}
		if q < 0 || q > 1 {
			return nil, errext.WithExitCodeIfNone(
				fmt.Errorf("quantile %v out of bounds [0, 1]", q),
				exitcodes.InvalidQuantileRequest,
			)
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		out = []float64{0.5, 0.9, 0.99}
	}
	return out, nil
}

func exitCodeFor(err error) int {
	var ecerr errext.HasExitCode
	if errors.As(err, &ecerr) {
		return int(ecerr.ExitCode())
	}
	return int(exitcodes.GenericError)
}
