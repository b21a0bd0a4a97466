package cmd

import (
	"context"
	"math"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/liuxd6825/circllhist"
	"github.com/liuxd6825/circllhist/errext"
	"github.com/liuxd6825/circllhist/errext/exitcodes"
)

func getCompressCmd(gs *globalState) *cobra.Command {
	var (
		mbe        int8
		lo, hi     float64
		clampSet   bool
		downsample int
		merge      bool
	)

	compressCmd := &cobra.Command{
		Use:   "compress <histogram>...",
		Short: "Merge, rebucket, clamp and/or downsample one or more histograms",
		Long: "compress reads one or more histograms and applies, in order, an optional merge across " +
			"all inputs, a minimum-bucket-exponent rebucketing, a value-range clamp, and a bucket " +
			"downsampling, printing the resulting histogram as a base64 wire blob.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hists, err := readHistogramArgsConcurrently(gs, args)
			if err != nil {
				return err
			}

			result := hists[0]
			if merge || len(hists) > 1 {
				result = circllhist.New()
				result.Accumulate(hists...)
			}

			if cmd.Flags().Changed("mbe") {
				result = result.CompressMBE(mbe)
			}
			if clampSet {
				result.Clamp(lo, hi)
			}
			if downsample > 1 {
				result.Downsample(downsample)
			}

			encoded := result.SerializeB64()
			fprintf(gs.stdOut, "%s\n", encoded)
			return nil
		},
	}

	compressCmd.Flags().Int8Var(&mbe, "mbe", 0, "compress buckets below this exponent into the zero bucket")
	compressCmd.Flags().Float64Var(&lo, "clamp-lo", math.Inf(-1), "zero out buckets entirely below this value")
	compressCmd.Flags().Float64Var(&hi, "clamp-hi", math.Inf(1), "zero out buckets entirely above this value")
	compressCmd.Flags().IntVar(&downsample, "downsample", 0, "merge adjacent buckets in groups of this size")
	compressCmd.Flags().BoolVar(&merge, "merge", false, "force accumulation even for a single input")

	compressCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		clampSet = cmd.Flags().Changed("clamp-lo") || cmd.Flags().Changed("clamp-hi")
		if downsample < 0 {
			return errext.WithExitCodeIfNone(
				errext.WithHint(errFromMessage("downsample factor must be positive"), "pass --downsample with a value >= 2"),
				exitcodes.InvalidConfig,
			)
		}
		return nil
	}

	return compressCmd
}

// readHistogramArgsConcurrently reads each arg through readHistogramArg in
// its own goroutine, preserving argument order in the result. Parsing and
// base64-decoding each input is independent and I/O-bound enough (args can
// be file paths) that a large compress or archive invocation benefits from doing it
// concurrently rather than one file at a time.
func readHistogramArgsConcurrently(gs *globalState, args []string) ([]*circllhist.Histogram, error) {
	hists := make([]*circllhist.Histogram, len(args))
	g, _ := errgroup.WithContext(context.Background())
	for i, arg := range args {
		i, arg := i, arg
		g.Go(func() error {
			h, err := readHistogramArg(gs.fs, arg)
			if err != nil {
				return err
			}
			hists[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return hists, nil
}
