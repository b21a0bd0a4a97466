package cmd

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/liuxd6825/circllhist/errext"
	"github.com/liuxd6825/circllhist/errext/exitcodes"
)

// archiveManifest describes one zstd-compressed bundle produced by
// `circllhist archive`: a batch ID plus the base64 wire blob of each input
// histogram, in argument order.
type archiveManifest struct {
	BatchID    string    `json:"batch_id"`
	CreatedAt  time.Time `json:"created_at"`
	Histograms []string  `json:"histograms"`
}

func getArchiveCmd(gs *globalState) *cobra.Command {
	var createdAt string

	archiveCmd := &cobra.Command{
		Use:   "archive <output> <histogram>...",
		Short: "Bundle one or more histograms into a zstd-compressed archive",
		Long: "archive reads one or more histograms, tags them with a batch ID, and writes the " +
			"resulting manifest to <output> compressed with zstd; use `circllhist unarchive` " +
			"(or zstd -d | jq) to recover the inputs.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := args[0]
			hists, err := readHistogramArgsConcurrently(gs, args[1:])
			if err != nil {
				return err
			}

			manifest := archiveManifest{
				BatchID:    uuid.New().String(),
				CreatedAt:  time.Now(),
				Histograms: make([]string, len(hists)),
			}
			if createdAt != "" {
				ts, err := time.Parse(time.RFC3339, createdAt)
				if err != nil {
					return errext.WithExitCodeIfNone(
						errext.WithHint(err, "--created-at must be RFC3339"),
						exitcodes.InvalidConfig,
					)
				}
				manifest.CreatedAt = ts
			}
			for i, h := range hists {
				manifest.Histograms[i] = h.SerializeB64()
			}

			payload, err := json.Marshal(manifest)
			if err != nil {
				return err
			}

			f, err := gs.fs.Create(output)
			if err != nil {
				return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
			}
			defer f.Close()

			bw := bufio.NewWriter(f)
			enc, err := zstd.NewWriter(bw)
			if err != nil {
				return err
			}
			if _, err := enc.Write(payload); err != nil {
				_ = enc.Close()
				return err
			}
			if err := enc.Close(); err != nil {
				return err
			}
			return bw.Flush()
		},
	}

	archiveCmd.Flags().StringVar(&createdAt, "created-at", "", "override the manifest timestamp (RFC3339); defaults to now")

	return archiveCmd
}

func getUnarchiveCmd(gs *globalState) *cobra.Command {
	unarchiveCmd := &cobra.Command{
		Use:   "unarchive <archive>",
		Short: "Print the manifest of an archive produced by `circllhist archive`",
		Args:  exactArgsWithMsg(1, "expected exactly one archive path"),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := gs.fs.Open(args[0])
			if err != nil {
				return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
			}
			defer f.Close()

			dec, err := zstd.NewReader(f)
			if err != nil {
				return err
			}
			defer dec.Close()

			var manifest archiveManifest
			if err := json.NewDecoder(dec.IOReadCloser()).Decode(&manifest); err != nil {
				return errext.WithExitCodeIfNone(
					errext.WithHint(err, "archive is not a valid circllhist manifest"),
					exitcodes.InvalidConfig,
				)
			}

			out, err := json.MarshalIndent(manifest, "", "  ")
			if err != nil {
				return err
			}
			fprintf(gs.stdOut, "%s\n", out)
			return nil
		},
	}
	return unarchiveCmd
}
