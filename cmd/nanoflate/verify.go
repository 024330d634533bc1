package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nanoflate/nanoflate/deflate"
	"github.com/nanoflate/nanoflate/window"
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <file.gz>",
		Short: "decode a gzip file and check its CRC32/ISIZE trailer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args[0])
		},
	}
	return cmd
}

func runVerify(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	src := &fileSource{r: bufio.NewReaderSize(f, 1<<20)}
	result, derr := deflate.Decode(deflate.Callbacks{
		Input:  src,
		Output: window.SinkFunc(func(b byte) bool { return false }),
	}, deflate.WithCRC32Check())

	if derr != nil {
		fmt.Printf("FAIL: %v\n", derr)
		return derr
	}
	if result != deflate.ResultOK {
		fmt.Printf("FAIL: result = %v\n", result)
		return fmt.Errorf("verify: unexpected result %v", result)
	}
	fmt.Println("OK")
	return nil
}
