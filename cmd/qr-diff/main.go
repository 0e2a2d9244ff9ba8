// Command qr-diff renders a visual comparison of two QR symbol images:
// modules agreeing keep their color, modules dark only in A are red,
// modules dark only in B are green.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jalphad/qrcodec/internal/imaging"
)

var (
	flagScale   int
	flagVersion int
)

var rootCmd = &cobra.Command{
	Use:   "qr-diff A B OUT",
	Short: "Render a visual diff of two QR symbol images",
	Args:  cobra.ExactArgs(3),
	RunE:  runDiff,
}

func init() {
	rootCmd.Flags().IntVar(&flagScale, "scale", imaging.DefaultScale, "pixels per module in the output image")
	rootCmd.Flags().IntVar(&flagVersion, "version", 0, "force a symbol version instead of inferring it from each image")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
	pathA, pathB, pathOut := args[0], args[1], args[2]

	a, err := imaging.Load(pathA, flagVersion)
	if err != nil {
		return userError{fmt.Errorf("loading %s: %w", pathA, err)}
	}
	b, err := imaging.Load(pathB, flagVersion)
	if err != nil {
		return userError{fmt.Errorf("loading %s: %w", pathB, err)}
	}

	if err := imaging.WriteDiffPNG(a, b, pathOut, flagScale); err != nil {
		return codecError{err}
	}
	fmt.Fprintf(os.Stdout, "wrote diff to %s\n", pathOut)
	return nil
}

type userError struct{ err error }

func (e userError) Error() string { return e.err.Error() }

type codecError struct{ err error }

func (e codecError) Error() string { return e.err.Error() }

func exitCodeFor(err error) int {
	switch err.(type) {
	case userError:
		return 1
	case codecError:
		return 2
	default:
		return 1
	}
}
