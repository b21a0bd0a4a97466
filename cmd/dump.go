package cmd

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liuxd6825/circllhist"
)

// bucketDump is one row of `circllhist dump`'s output.
type bucketDump struct {
	Bucket   string  `json:"bucket"`
	Midpoint float64 `json:"midpoint"`
	Width    float64 `json:"width"`
	Count    uint64  `json:"count"`
}

// maxBarWidth bounds the longest '#' run printed by --bars, scaling every
// other bar relative to the busiest bucket.
const maxBarWidth = 50

func getDumpCmd(gs *globalState) *cobra.Command {
	var sparse bool
	var bars bool

	dumpCmd := &cobra.Command{
		Use:   "dump <histogram>",
		Short: "List every non-empty bucket of a histogram",
		Args:  exactArgsWithMsg(1, "expected exactly one histogram argument"),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := readHistogramArg(gs.fs, args[0])
			if err != nil {
				return err
			}
			if sparse {
				h.RemoveZeroes()
			}

			buckets := h.Buckets()
			sort.Slice(buckets, func(i, j int) bool { return buckets[i].Compare(buckets[j]) < 0 })

			if bars {
				return printBars(gs, h, buckets)
			}

			rows := make([]bucketDump, 0, len(buckets))
			for _, b := range buckets {
				rows = append(rows, bucketDump{
					Bucket:   b.String(),
					Midpoint: b.Midpoint(),
					Width:    b.BinWidth(),
					Count:    h.CountAt(b),
				})
			}

			out, err := json.MarshalIndent(rows, "", "  ")
			if err != nil {
				return err
			}
			fprintf(gs.stdOut, "%s\n", out)
			return nil
		},
	}

	dumpCmd.Flags().BoolVar(&sparse, "sparse", true, "omit zero-count buckets before dumping")
	dumpCmd.Flags().BoolVar(&bars, "bars", false, "print an ASCII bar chart instead of JSON")

	return dumpCmd
}

// printBars renders one line per bucket as "H[left..right]\tcount\t|####",
// the bar length scaled against the busiest bucket, porting circlltool's
// histL_print 'p' token to this CLI.
func printBars(gs *globalState, h *circllhist.Histogram, buckets []circllhist.Bucket) error {
	var max uint64
	for _, b := range buckets {
		if c := h.CountAt(b); c > max {
			max = c
		}
	}

	for _, b := range buckets {
		count := h.CountAt(b)
		left := b.Midpoint() - b.BinWidth()/2
		right := left + b.BinWidth()

		barLen := 0
		if max > 0 {
			barLen = int(float64(count) / float64(max) * maxBarWidth)
		}
		fprintf(gs.stdOut, "H[%g..%g]\t%d\t|%s\n", left, right, count, strings.Repeat("#", barLen))
	}
	return nil
}
