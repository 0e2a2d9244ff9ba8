// Command qr-analyzer loads a QR symbol image and emits a JSON diagnostic
// document describing how it decoded: version, level, mask, mode, the
// recovered text, and per-block error-correction statistics. It is a thin
// collaborator over qrcode.DecodeDiagnostic and internal/imaging.Load.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jalphad/qrcodec/internal/imaging"
	"github.com/jalphad/qrcodec/qrcode"
)

var (
	flagVersion int
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "qr-analyzer PATH",
	Short: "Decode and diagnose a QR code image, emitting a JSON report",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.Flags().IntVar(&flagVersion, "version", 0, "force a symbol version instead of inferring it from pixel extent")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log intermediate steps to stderr")
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// report is the JSON document emitted on stdout, mirroring
// qrcode.Diagnostic plus the derived fields a caller of the CLI (as
// opposed to the library) wants: human-readable level/mode names, hex
// codeword streams, and per-block correction outcomes. It is emitted even
// when decoding fails, with failed_stage and error set, since the
// diagnostic pipeline populates everything up to the failing stage.
type report struct {
	Version           int           `json:"version"`
	Level             string        `json:"error_correction_level"`
	Mask              int           `json:"mask_pattern"`
	Mode              string        `json:"mode"`
	Text              string        `json:"text"`
	TotalErrorsFixed  int           `json:"total_errors_fixed"`
	UsedFormatCopy2   bool          `json:"used_format_info_copy2"`
	UsedVersionCopy2  bool          `json:"used_version_info_copy2"`
	RawCodewords      string        `json:"raw_codewords_hex,omitempty"`
	UnmaskedCodewords string        `json:"unmasked_codewords_hex,omitempty"`
	PayloadBits       int           `json:"payload_bits"`
	Blocks            []blockReport `json:"blocks,omitempty"`
	Warnings          []string      `json:"warnings,omitempty"`
	FailedStage       string        `json:"failed_stage,omitempty"`
	Error             string        `json:"error,omitempty"`
}

type blockReport struct {
	DataCodewords   int  `json:"data_codewords"`
	ECCCodewords    int  `json:"ecc_codewords"`
	ErrorsCorrected int  `json:"errors_corrected"`
	Uncorrectable   bool `json:"uncorrectable"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	path := args[0]

	log.Debug().Str("path", path).Int("version", flagVersion).Msg("loading image")
	m, err := imaging.Load(path, flagVersion)
	if err != nil {
		return userError{err}
	}

	diag, decodeErr := qrcode.DecodeDiagnostic(m)

	out := report{
		Version:           diag.Version,
		Level:             diag.Level.String(),
		Mask:              diag.Mask,
		Mode:              diag.Mode.String(),
		Text:              diag.Text,
		TotalErrorsFixed:  diag.TotalErrorsFixed,
		UsedFormatCopy2:   diag.UsedFormatCopy2,
		UsedVersionCopy2:  diag.UsedVersionCopy2,
		RawCodewords:      hex.EncodeToString(diag.RawCodewords),
		UnmaskedCodewords: hex.EncodeToString(diag.UnmaskedCodewords),
		PayloadBits:       diag.PayloadBits,
		Warnings:          diag.Warnings,
		FailedStage:       diag.FailedStage,
	}
	for _, b := range diag.Blocks {
		out.Blocks = append(out.Blocks, blockReport{
			DataCodewords:   b.DataCodewords,
			ECCCodewords:    b.ECCCodewords,
			ErrorsCorrected: b.ErrorsCorrected,
			Uncorrectable:   b.Err != nil,
		})
	}
	if decodeErr != nil {
		out.Error = decodeErr.Error()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return codecError{err}
	}
	if decodeErr != nil {
		return codecError{decodeErr}
	}
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
