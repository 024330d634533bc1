package main

import (
	"os"

	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	"github.com/nanoflate/nanoflate/seekgzip"
)

func newIndexCmd() *cobra.Command {
	var spacing int64
	var showProgress bool

	cmd := &cobra.Command{
		Use:   "index <file.gz> <file.gz.idx>",
		Short: "build a seekgzip random-access index for a gzip file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(args[0], args[1], spacing, showProgress)
		},
	}
	cmd.Flags().Int64Var(&spacing, "spacing", 1<<20, "minimum decompressed bytes between checkpoints")
	cmd.Flags().BoolVar(&showProgress, "progress", true, "display a progress bar on stderr")
	return cmd
}

func runIndex(src, dst string, spacing int64, showProgress bool) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	opts := []seekgzip.Option{seekgzip.WithCheckpointSpacing(spacing)}
	if showProgress {
		bar := progressbar.NewOptions64(info.Size(),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetPredictTime(true),
		)
		var last int64
		opts = append(opts, seekgzip.WithProgress(func(decompressed int64) {
			// The bar's total is the compressed input size; approximate
			// progress by the decompressed count instead (which usually
			// outruns the compressed size, so the bar can fill early), since
			// deflate.Checkpoint doesn't (and shouldn't) surface a second
			// compressed-bytes-consumed figure to this layer.
			if decompressed > last {
				bar.Add64(decompressed - last)
				last = decompressed
			}
		}))
	}

	r, err := seekgzip.Build(f, info.Size(), opts...)
	if err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	return r.Encode(out)
}
