// Package qrcode is the public entry point of the codec: Encode turns
// text into a QR code matrix, Decode and DecodeDiagnostic turn a matrix
// back into text, with the latter reporting every intermediate product of
// the pipeline including per-block error-correction statistics. It
// composes the internal packages (segment, interleave, qrmatrix, mask,
// format) into the two directions of the codec; all structural knowledge
// lives in internal/qrparams.
package qrcode

import (
	"errors"
	"fmt"

	"github.com/jalphad/qrcodec/internal/bitio"
	"github.com/jalphad/qrcodec/internal/format"
	"github.com/jalphad/qrcodec/internal/interleave"
	"github.com/jalphad/qrcodec/internal/mask"
	"github.com/jalphad/qrcodec/internal/qrmatrix"
	"github.com/jalphad/qrcodec/internal/qrparams"
	"github.com/jalphad/qrcodec/internal/rs"
	"github.com/jalphad/qrcodec/internal/segment"
)

// Re-export the level and mode types so callers don't need to import
// internal packages directly.
type (
	Level = qrparams.Level
	Mode  = segment.Mode
)

const (
	LevelL = qrparams.L
	LevelM = qrparams.M
	LevelQ = qrparams.Q
	LevelH = qrparams.H
)

const (
	ModeNumeric      = segment.ModeNumeric
	ModeAlphanumeric = segment.ModeAlphanumeric
	ModeByte         = segment.ModeByte
)

// Error taxonomy. Decode and Encode wrap one of these with context via
// fmt.Errorf's %w so callers can errors.Is against a stable sentinel.
var (
	ErrCapacityExceeded      = segment.ErrCapacityExceeded
	ErrInvalidCharacter      = segment.ErrInvalidCharacter
	ErrMalformedHeader       = segment.ErrMalformedHeader
	ErrInvalidVersion        = errors.New("qrcode: version out of range 1-40")
	ErrFormatInfoUndecodable = errors.New("qrcode: could not recover format information from either copy")
	ErrVersionInfoMismatch   = errors.New("qrcode: version information does not match symbol size")
	ErrUncorrectableBlock    = rs.ErrUncorrectable
)

// EncodeOptions configures Encode. The zero value auto-selects mode and
// version and fixes mask pattern 0; pass Mask: -1 to auto-select the
// lowest-penalty mask instead.
type EncodeOptions struct {
	Level     Level // defaults to LevelL (zero value)
	Mode      Mode  // ignored unless ForceMode is true
	ForceMode bool
	Version   int // 0 selects the smallest version that fits
	Mask      int // 0-7 fixes a pattern; negative auto-selects the lowest-penalty mask

	// SkipMask leaves data modules unmasked while still writing a mask
	// index of 0 into the format information, producing a symbol that
	// looks structurally valid but fails RS correction on decode. It
	// exists only so qr-generator's -s debug flag can show the
	// placement sweep's output directly; real encoders never set it.
	SkipMask bool
}

// Result is a successfully encoded symbol.
type Result struct {
	Matrix  *qrmatrix.Matrix
	Version int
	Level   Level
	Mask    int
	Mode    Mode
}

// levelFormatBits maps a Level to the 2-bit value ISO/IEC 18004 packs into
// format information: L=01, M=00, Q=11, H=10 (not the level's own ordinal
// order, which is why this table exists rather than using Level directly).
var levelFormatBits = map[Level]int{
	LevelL: 0b01,
	LevelM: 0b00,
	LevelQ: 0b11,
	LevelH: 0b10,
}

var formatBitsToLevel = map[int]Level{
	0b01: LevelL,
	0b00: LevelM,
	0b11: LevelQ,
	0b10: LevelH,
}

// ChooseMode picks the most compact mode that can represent data verbatim:
// Numeric if every character is a digit, Alphanumeric if every character
// is in the mode's 45-character alphabet, Byte otherwise.
func ChooseMode(data []byte) Mode {
	if segment.Validate(ModeNumeric, data) == nil {
		return ModeNumeric
	}
	if segment.Validate(ModeAlphanumeric, data) == nil {
		return ModeAlphanumeric
	}
	return ModeByte
}

// Encode builds a QR symbol encoding text under opts.
func Encode(text string, opts EncodeOptions) (*Result, error) {
	data := []byte(text)

	mode := ChooseMode(data)
	if opts.ForceMode {
		mode = opts.Mode
		if err := segment.Validate(mode, data); err != nil {
			return nil, err
		}
	}

	version := opts.Version
	if version == 0 {
		v, err := smallestFittingVersion(data, mode, opts.Level)
		if err != nil {
			return nil, err
		}
		version = v
	} else if version < qrparams.MinVersion || version > qrparams.MaxVersion {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, version)
	}

	layout := qrparams.Layout(version, opts.Level)

	w := bitio.NewWriter()
	if err := segment.Encode(w, mode, data, version); err != nil {
		return nil, err
	}
	if w.Len() > layout.DataCodewords*8 {
		return nil, fmt.Errorf("%w: %d bits of encoded data exceeds the %d-bit capacity of version %d level %s",
			ErrCapacityExceeded, w.Len(), layout.DataCodewords*8, version, opts.Level)
	}
	segment.Pad(w, layout.DataCodewords*8)

	blocks, err := interleave.Split(w.Bytes(), layout)
	if err != nil {
		return nil, err
	}
	raw := interleave.EncodeBlocks(blocks, layout)

	m := qrmatrix.New(version)
	m.DrawFunctionPatterns(version)
	m.PlaceCodewords(raw)

	maskPattern := opts.Mask
	switch {
	case opts.SkipMask:
		maskPattern = 0
	case maskPattern < 0:
		maskPattern = mask.BestPattern(m)
	default:
		mask.Apply(m, maskPattern)
	}

	formatWord := format.EncodeFormat(levelFormatBits[opts.Level], maskPattern)
	m.DrawFormat(formatWord)
	if version >= 7 {
		m.DrawVersion(format.EncodeVersion(version))
	}

	return &Result{
		Matrix:  m,
		Version: version,
		Level:   opts.Level,
		Mask:    maskPattern,
		Mode:    mode,
	}, nil
}

// smallestFittingVersion finds the smallest version whose capacity (at
// level) can hold mode's header and payload for data.
func smallestFittingVersion(data []byte, mode Mode, level Level) (int, error) {
	for v := qrparams.MinVersion; v <= qrparams.MaxVersion; v++ {
		layout := qrparams.Layout(v, level)
		capacityBits := layout.DataCodewords * 8
		needed := 4 + segment.CharacterCountBits(mode, v) + payloadBits(mode, len(data))
		if needed <= capacityBits {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: data too large for any version at this level", ErrCapacityExceeded)
}

func payloadBits(mode Mode, n int) int {
	switch mode {
	case ModeNumeric:
		full := n / 3
		rem := n % 3
		bits := full * 10
		switch rem {
		case 1:
			bits += 4
		case 2:
			bits += 7
		}
		return bits
	case ModeAlphanumeric:
		bits := (n / 2) * 11
		if n%2 == 1 {
			bits += 6
		}
		return bits
	default:
		return n * 8
	}
}

// BlockResult is one block's Reed-Solomon correction outcome.
type BlockResult = interleave.BlockResult

// Diagnostic reports decode details beyond the recovered text: the
// version/level/mask actually read from the symbol, every intermediate
// product of the pipeline as far as decoding got, and per-block error
// correction outcomes. The codeword streams exclude the version's
// remainder bits; those exist only in the physical module sweep.
type Diagnostic struct {
	Version          int
	Level            Level
	Mask             int
	Mode             Mode
	Text             string
	TotalErrorsFixed int
	UsedFormatCopy2  bool
	UsedVersionCopy2 bool

	RawCodewords      []byte        // interleaved codewords swept off the still-masked grid
	UnmaskedCodewords []byte        // the same sweep after removing the data mask
	CorrectedData     []byte        // concatenated data codewords after per-block correction
	Blocks            []BlockResult // per-block correction outcomes, in block order
	PayloadBits       int           // bits holding the mode indicator, length header, and payload; the rest of CorrectedData is terminator and padding
	Warnings          []string      // soft structural findings (timing, dark module, finder centers)
	FailedStage       string        // empty on success, else the pipeline stage that failed
}

// Decode recovers the text encoded in m. It is a thin wrapper over
// DecodeDiagnostic for callers that don't need the extra detail.
func Decode(m *qrmatrix.Matrix) (string, error) {
	diag, err := DecodeDiagnostic(m)
	if err != nil {
		return "", err
	}
	return diag.Text, nil
}

// DecodeDiagnostic recovers the text encoded in m along with diagnostic
// information about how much correction was needed. On failure the
// returned Diagnostic is still populated with everything decoded up to
// the failing stage, and FailedStage names that stage; an uncorrectable
// block additionally leaves the best-effort stream and a parse attempt
// over it in the Diagnostic so callers can inspect partial damage.
func DecodeDiagnostic(m *qrmatrix.Matrix) (*Diagnostic, error) {
	diag := &Diagnostic{Mask: -1}

	version := versionFromSize(m.Size())
	if version == 0 {
		diag.FailedStage = "version"
		return diag, fmt.Errorf("%w: size %d", ErrInvalidVersion, m.Size())
	}
	diag.Version = version

	levelBits, maskPattern, err := format.DecodeFormat(m.ReadFormatBits())
	if err != nil {
		levelBits, maskPattern, err = format.DecodeFormat(m.ReadFormatBitsCopy2())
		if err != nil {
			diag.FailedStage = "format"
			return diag, ErrFormatInfoUndecodable
		}
		diag.UsedFormatCopy2 = true
	}
	level, ok := formatBitsToLevel[levelBits]
	if !ok {
		diag.FailedStage = "format"
		return diag, ErrFormatInfoUndecodable
	}
	diag.Level = level
	diag.Mask = maskPattern

	if version >= 7 {
		readVersion, vErr := format.DecodeVersion(m.ReadVersionBits())
		if vErr != nil {
			readVersion, vErr = format.DecodeVersion(m.ReadVersionBitsCopy2())
			if vErr != nil {
				diag.FailedStage = "version-info"
				return diag, ErrVersionInfoMismatch
			}
			diag.UsedVersionCopy2 = true
		}
		if readVersion != version {
			diag.FailedStage = "version-info"
			return diag, fmt.Errorf("%w: size-derived version %d, decoded %d", ErrVersionInfoMismatch, version, readVersion)
		}
	}

	diag.Warnings = structuralWarnings(m)

	layout := qrparams.Layout(version, level)
	raw, err := m.ReadCodewords(layout.TotalCodewords)
	if err != nil {
		diag.FailedStage = "codewords"
		return diag, err
	}
	diag.RawCodewords = raw

	mask.Apply(m, maskPattern)       // unmask (XOR is self-inverse)
	defer mask.Apply(m, maskPattern) // restore the symbol's masked state

	unmasked, err := m.ReadCodewords(layout.TotalCodewords)
	if err != nil {
		diag.FailedStage = "codewords"
		return diag, err
	}
	diag.UnmaskedCodewords = unmasked

	blocks, err := interleave.Deinterleave(unmasked, layout)
	if err != nil {
		diag.FailedStage = "deinterleave"
		return diag, err
	}
	data, blockResults, decErr := interleave.DecodeBlocks(blocks, layout)
	diag.Blocks = blockResults
	diag.CorrectedData = data
	for _, b := range blockResults {
		diag.TotalErrorsFixed += b.ErrorsCorrected
	}
	if decErr != nil {
		diag.FailedStage = "error-correction"
		r := bitio.NewReader(data)
		if segMode, text, perr := segment.Decode(r, version); perr == nil {
			diag.Mode = segMode
			diag.Text = text
			diag.PayloadBits = len(data)*8 - r.Available()
		}
		return diag, decErr
	}

	r := bitio.NewReader(data)
	segMode, text, err := segment.Decode(r, version)
	if err != nil {
		diag.FailedStage = "segments"
		return diag, err
	}
	diag.Mode = segMode
	diag.Text = text
	diag.PayloadBits = len(data)*8 - r.Available()
	return diag, nil
}

// structuralWarnings validates the fixed patterns a well-formed symbol
// carries. Findings are soft signals, not fatal: the format information is
// the authoritative input and has already been BCH-verified by the time
// this runs.
func structuralWarnings(m *qrmatrix.Matrix) []string {
	var warnings []string
	size := m.Size()
	for i := 8; i < size-8; i++ {
		if m.Get(6, i) != (i%2 == 0) || m.Get(i, 6) != (i%2 == 0) {
			warnings = append(warnings, "timing pattern does not alternate cleanly")
			break
		}
	}
	if !m.Get(8, size-8) {
		warnings = append(warnings, "dark module is light")
	}
	for _, c := range [3][2]int{{3, 3}, {size - 4, 3}, {3, size - 4}} {
		if !m.Get(c[0], c[1]) {
			warnings = append(warnings, fmt.Sprintf("finder pattern center at (%d,%d) is light", c[0], c[1]))
		}
	}
	return warnings
}

func versionFromSize(size int) int {
	if (size-21)%4 != 0 {
		return 0
	}
	v := (size-21)/4 + 1
	if v < qrparams.MinVersion || v > qrparams.MaxVersion {
		return 0
	}
	return v
}
