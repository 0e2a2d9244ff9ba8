package qrcode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jalphad/qrcodec/internal/qrmatrix"
)

// S1: encode "HELLO WORLD" with (V1, ecc=Q, mode=Alphanumeric, mask=3).
func TestEncodeDecodeAlphanumericFixedMask(t *testing.T) {
	result, err := Encode("HELLO WORLD", EncodeOptions{
		Level: LevelQ, Mode: ModeAlphanumeric, ForceMode: true, Version: 1, Mask: 3,
	})
	require.NoError(t, err)
	require.Equal(t, 21, result.Matrix.Size())
	require.Equal(t, 1, result.Version)
	require.Equal(t, 3, result.Mask)

	text, err := Decode(result.Matrix)
	require.NoError(t, err)
	require.Equal(t, "HELLO WORLD", text)
}

// S2: encode "01234567" with (V1, ecc=M, mode=Numeric, mask=auto).
func TestEncodeDecodeNumericAutoMask(t *testing.T) {
	result, err := Encode("01234567", EncodeOptions{
		Level: LevelM, Mode: ModeNumeric, ForceMode: true, Version: 1, Mask: -1,
	})
	require.NoError(t, err)
	require.Equal(t, 21, result.Matrix.Size())

	diag, err := DecodeDiagnostic(result.Matrix)
	require.NoError(t, err)
	require.Equal(t, "01234567", diag.Text)
	require.Equal(t, ModeNumeric, diag.Mode)
	require.Equal(t, LevelM, diag.Level)
	require.Equal(t, 0, diag.TotalErrorsFixed)
}

// S3: byte mode, M-level URL text lands at V2 and survives a single flipped
// data module.
func TestEncodeDecodeByteSurvivesSingleBitFlip(t *testing.T) {
	text := "https://www.example.com/"
	result, err := Encode(text, EncodeOptions{Level: LevelM, Mask: -1})
	require.NoError(t, err)
	require.Equal(t, 2, result.Version)

	flipped := false
	size := result.Matrix.Size()
	for y := 0; y < size && !flipped; y++ {
		for x := 0; x < size && !flipped; x++ {
			if !result.Matrix.IsFunction(x, y) {
				result.Matrix.Set(x, y, !result.Matrix.Get(x, y))
				flipped = true
			}
		}
	}
	require.True(t, flipped)

	diag, err := DecodeDiagnostic(result.Matrix)
	require.NoError(t, err)
	require.Equal(t, text, diag.Text)
	require.GreaterOrEqual(t, diag.TotalErrorsFixed, 1)
}

func TestEncodeAutoModeSelectsSmallestRepresentation(t *testing.T) {
	require.Equal(t, ModeNumeric, ChooseMode([]byte("12345")))
	require.Equal(t, ModeAlphanumeric, ChooseMode([]byte("HELLO WORLD")))
	require.Equal(t, ModeByte, ChooseMode([]byte("hello world")))
}

func TestVersionFromSizeRejectsNonCanonicalSizes(t *testing.T) {
	require.Equal(t, 0, versionFromSize(22)) // not 17+4v for any v
	require.Equal(t, 0, versionFromSize(15)) // below version 1
	require.Equal(t, 1, versionFromSize(21))
	require.Equal(t, 40, versionFromSize(177))
}

func TestForceModeRejectsInvalidCharacters(t *testing.T) {
	_, err := Encode("not-numeric", EncodeOptions{Mode: ModeNumeric, ForceMode: true})
	require.ErrorIs(t, err, ErrInvalidCharacter)
}

func TestEncodeRejectsOversizedTextAtFixedVersion(t *testing.T) {
	big := make([]byte, 999)
	for i := range big {
		big[i] = 'A'
	}
	_, err := Encode(string(big), EncodeOptions{Level: LevelH, Version: 1, ForceMode: true, Mode: ModeAlphanumeric})
	require.Error(t, err)
}

// S4: overwhelm a V1-H block (corrects up to 8 codeword errors) by
// flipping one module in each of 9 distinct codewords.
func TestDecodeReportsUncorrectableBlock(t *testing.T) {
	result, err := Encode("AB", EncodeOptions{
		Level: LevelH, Mode: ModeAlphanumeric, ForceMode: true, Version: 1, Mask: 0,
	})
	require.NoError(t, err)

	raw, err := result.Matrix.ReadCodewords(26) // V1 carries 26 codewords total
	require.NoError(t, err)
	for i := 0; i < 9; i++ {
		raw[i] ^= 0x80
	}
	result.Matrix.PlaceCodewords(raw)

	diag, err := DecodeDiagnostic(result.Matrix)
	require.ErrorIs(t, err, ErrUncorrectableBlock)
	require.Equal(t, "error-correction", diag.FailedStage)
	require.Len(t, diag.Blocks, 1)
	require.Error(t, diag.Blocks[0].Err)
	require.Len(t, diag.CorrectedData, 9) // best-effort stream still present
}

// Re-encoding a decoded symbol with the same parameters reproduces the
// matrix bit for bit.
func TestReencodingDecodedSymbolIsStable(t *testing.T) {
	first, err := Encode("STABLE MATRIX 99", EncodeOptions{
		Level: LevelQ, Mode: ModeAlphanumeric, ForceMode: true, Mask: 6,
	})
	require.NoError(t, err)

	diag, err := DecodeDiagnostic(first.Matrix)
	require.NoError(t, err)

	second, err := Encode(diag.Text, EncodeOptions{
		Level: diag.Level, Mode: diag.Mode, ForceMode: true, Version: diag.Version, Mask: diag.Mask,
	})
	require.NoError(t, err)
	require.Equal(t, first.Matrix.Modules(), second.Matrix.Modules())
}

func TestDiagnosticReportsIntermediateProducts(t *testing.T) {
	result, err := Encode("HELLO WORLD", EncodeOptions{
		Level: LevelQ, Mode: ModeAlphanumeric, ForceMode: true, Version: 1, Mask: 3,
	})
	require.NoError(t, err)

	diag, err := DecodeDiagnostic(result.Matrix)
	require.NoError(t, err)
	require.Empty(t, diag.FailedStage)
	require.Empty(t, diag.Warnings)
	require.Len(t, diag.RawCodewords, 26)
	require.Len(t, diag.UnmaskedCodewords, 26)
	require.Len(t, diag.CorrectedData, 13) // V1-Q data codewords
	// 4-bit mode + 9-bit count + 11 chars packed as 5 pairs and a single.
	require.Equal(t, 4+9+5*11+6, diag.PayloadBits)
	require.NotEqual(t, diag.RawCodewords, diag.UnmaskedCodewords)
}

func TestDecodeBlankMatrixFailsAtFormatStage(t *testing.T) {
	m := qrmatrix.New(1)
	diag, err := DecodeDiagnostic(m) // blank 21x21: valid size, undecodable format
	require.ErrorIs(t, err, ErrFormatInfoUndecodable)
	require.Equal(t, "format", diag.FailedStage)
	require.Equal(t, 1, diag.Version) // size-derived version still reported
}

func TestVersion7EncodesAndChecksVersionInfo(t *testing.T) {
	result, err := Encode("version seven round trip test string", EncodeOptions{Level: LevelL, Version: 7})
	require.NoError(t, err)
	require.Equal(t, 45, result.Matrix.Size())

	diag, err := DecodeDiagnostic(result.Matrix)
	require.NoError(t, err)
	require.Equal(t, 7, diag.Version)
	require.False(t, diag.UsedVersionCopy2)
}
