// Command nanoflate demonstrates the nanoflate library: decompressing a
// gzip/DEFLATE stream to stdout, building a seekgzip random-access index
// over one, and verifying a gzip member's trailer checksum.
//
// Kept deliberately outside the deflate package, which stays free of
// file I/O and argument parsing (spec.md §1's Non-goals) — the same split
// the teacher repo draws between its library packages and main.go.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "nanoflate",
		Short: "decompress and randomly access DEFLATE/gzip streams",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newCatCmd(), newIndexCmd(), newVerifyCmd())
	return root
}
