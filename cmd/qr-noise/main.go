// Command qr-noise corrupts a fraction of a QR symbol's data/ECC modules
// uniformly at random, for exercising the decoder's Reed-Solomon
// correction path end to end against rendered images rather than
// synthetic bit flips. Function modules (finders, timing, alignment,
// format/version info) are never touched.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/jalphad/qrcodec/internal/imaging"
)

var (
	flagIn      string
	flagOut     string
	flagPercent float64
	flagSeed    int64
	flagVersion int
)

var rootCmd = &cobra.Command{
	Use:   "qr-noise -i IN -o OUT -p PCT",
	Short: "Flip a percentage of data/ECC modules in a QR symbol image",
	RunE:  runNoise,
}

func init() {
	rootCmd.Flags().StringVarP(&flagIn, "in", "i", "", "input symbol image path (required)")
	rootCmd.Flags().StringVarP(&flagOut, "out", "o", "", "output symbol image path (required)")
	rootCmd.Flags().Float64VarP(&flagPercent, "percent", "p", 5, "percentage of data/ECC modules to flip")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "random seed (0 derives one from the process id)")
	rootCmd.Flags().IntVar(&flagVersion, "version", 0, "force a symbol version instead of inferring it")
	rootCmd.MarkFlagRequired("in")
	rootCmd.MarkFlagRequired("out")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func runNoise(cmd *cobra.Command, args []string) error {
	if flagPercent < 0 || flagPercent > 100 {
		return userError{fmt.Errorf("percent must be between 0 and 100, got %v", flagPercent)}
	}

	m, err := imaging.Load(flagIn, flagVersion)
	if err != nil {
		return userError{err}
	}

	seed := flagSeed
	if seed == 0 {
		seed = int64(os.Getpid())
	}
	rng := rand.New(rand.NewSource(seed))

	size := m.Size()
	var targets [][2]int
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !m.IsFunction(x, y) {
				targets = append(targets, [2]int{x, y})
			}
		}
	}

	numFlip := int(float64(len(targets)) * flagPercent / 100)
	rng.Shuffle(len(targets), func(i, j int) { targets[i], targets[j] = targets[j], targets[i] })
	for i := 0; i < numFlip && i < len(targets); i++ {
		x, y := targets[i][0], targets[i][1]
		m.Set(x, y, !m.Get(x, y))
	}

	if err := imaging.WritePNG(m, flagOut, imaging.DefaultQuietZone, imaging.DefaultScale); err != nil {
		return codecError{err}
	}
	fmt.Fprintf(os.Stdout, "flipped %d/%d data/ECC modules (%.1f%%)\n", numFlip, len(targets), flagPercent)
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
