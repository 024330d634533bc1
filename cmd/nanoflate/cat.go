package main

import (
	"bufio"
	"io"
	"os"

	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	"github.com/nanoflate/nanoflate/deflate"
	"github.com/nanoflate/nanoflate/window"
)

func newCatCmd() *cobra.Command {
	var showProgress bool

	cmd := &cobra.Command{
		Use:   "cat <file>",
		Short: "decompress a gzip/DEFLATE file to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(args[0], showProgress)
		},
	}
	cmd.Flags().BoolVar(&showProgress, "progress", true, "display a progress bar on stderr")
	return cmd
}

// progressSource wraps a fileSource, reporting bytes consumed to bar every
// chunk bytes so a large decode doesn't pay for a progress-bar update on
// every single byte, following the batching progressbar.NewOptions64's
// caller in cosnicolaou/pbzip2's cmd/pbzip2/main.go already does (there,
// per compressed block rather than per byte).
type progressSource struct {
	src   *fileSource
	bar   *progressbar.ProgressBar
	chunk int64
	n     int64
}

func (s *progressSource) ReadByte() (int, bool) {
	b, ok := s.src.ReadByte()
	if !ok {
		return b, ok
	}
	s.n++
	if s.bar != nil && s.n%s.chunk == 0 {
		s.bar.Add64(s.chunk)
	}
	return b, ok
}

func runCat(path string, showProgress bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	src := &fileSource{r: bufio.NewReaderSize(f, 1<<20)}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions64(info.Size(),
			progressbar.OptionSetBytes64(info.Size()),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetPredictTime(true),
		)
	}

	out := bufio.NewWriterSize(os.Stdout, 1<<20)
	result, derr := deflate.Decode(deflate.Callbacks{
		Input: &progressSource{src: src, bar: bar, chunk: 4096},
		Output: window.SinkFunc(func(b byte) bool {
			return out.WriteByte(b) != nil
		}),
	})
	if derr != nil {
		return derr
	}
	if result != deflate.ResultOK {
		return io.ErrUnexpectedEOF
	}
	return out.Flush()
}
