// Command qr-generator encodes text into a QR symbol and rasterizes it to
// PNG or SVG. Argument parsing and file output live here; the codec
// itself lives in the qrcode package.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jalphad/qrcodec/internal/imaging"
	"github.com/jalphad/qrcodec/qrcode"
)

var (
	flagLevel  string
	flagMask   int
	flagMode   string
	flagFormat string
	flagOut    string
	flagSkip   bool
	flagQuiet  int
	flagScale  int
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "qr-generator [OPTIONS] TEXT",
	Short: "Encode text into a QR code image",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	rootCmd.Flags().StringVarP(&flagLevel, "ecc", "e", "M", "error correction level: L, M, Q, or H")
	rootCmd.Flags().IntVarP(&flagMask, "mask", "m", -1, "mask pattern 0-7 (default: auto-select lowest penalty)")
	rootCmd.Flags().StringVarP(&flagMode, "mode", "d", "", "data mode: byte, numeric, or alphanumeric (default: auto-select)")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "png", "output format: png or svg")
	rootCmd.Flags().StringVarP(&flagOut, "out", "o", "qrcode.png", "output file path")
	rootCmd.Flags().BoolVarP(&flagSkip, "skip-mask", "s", false, "skip masking (debug only, produces an undecodable symbol)")
	rootCmd.Flags().IntVar(&flagQuiet, "quiet-zone", imaging.DefaultQuietZone, "quiet zone width in modules")
	rootCmd.Flags().IntVar(&flagScale, "scale", imaging.DefaultScale, "pixels per module")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log encode steps to stderr")
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	text := args[0]

	level, err := parseLevel(flagLevel)
	if err != nil {
		return userError{err}
	}

	opts := qrcode.EncodeOptions{Level: level, Mask: flagMask, SkipMask: flagSkip}
	if flagMode != "" {
		mode, err := parseMode(flagMode)
		if err != nil {
			return userError{err}
		}
		opts.Mode = mode
		opts.ForceMode = true
	}

	log.Debug().Str("level", flagLevel).Int("mask", flagMask).Str("mode", flagMode).Msg("encoding")
	result, err := qrcode.Encode(text, opts)
	if err != nil {
		return codecError{err}
	}

	if flagSkip {
		log.Warn().Msg("skip-mask requested: emitting the unmasked placement, not a valid symbol")
	}

	switch flagFormat {
	case "png":
		if err := imaging.WritePNG(result.Matrix, flagOut, flagQuiet, flagScale); err != nil {
			return codecError{err}
		}
	case "svg":
		if err := imaging.WriteSVG(result.Matrix, flagOut, flagQuiet, flagScale); err != nil {
			return codecError{err}
		}
	default:
		return userError{fmt.Errorf("unknown format %q, want png or svg", flagFormat)}
	}

	log.Info().
		Int("version", result.Version).
		Str("level", flagLevel).
		Int("mask", result.Mask).
		Str("mode", result.Mode.String()).
		Str("out", flagOut).
		Msg("wrote symbol")
	return nil
}

func parseLevel(s string) (qrcode.Level, error) {
	switch s {
	case "L", "l":
		return qrcode.LevelL, nil
	case "M", "m":
		return qrcode.LevelM, nil
	case "Q", "q":
		return qrcode.LevelQ, nil
	case "H", "h":
		return qrcode.LevelH, nil
	default:
		return 0, fmt.Errorf("unknown error correction level %q, want L, M, Q, or H", s)
	}
}

func parseMode(s string) (qrcode.Mode, error) {
	switch s {
	case "numeric":
		return qrcode.ModeNumeric, nil
	case "alphanumeric":
		return qrcode.ModeAlphanumeric, nil
	case "byte":
		return qrcode.ModeByte, nil
	default:
		return 0, fmt.Errorf("unknown mode %q, want byte, numeric, or alphanumeric", s)
	}
}

// userError and codecError distinguish exit code 1 (bad args, unreadable
// input) from exit code 2 (codec failure).
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
