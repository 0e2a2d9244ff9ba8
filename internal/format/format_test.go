package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeFormatRoundTrip(t *testing.T) {
	for level := 0; level < 4; level++ {
		for pattern := 0; pattern < 8; pattern++ {
			word := EncodeFormat(level, pattern)
			gotLevel, gotPattern, err := DecodeFormat(word)
			require.NoError(t, err)
			require.Equal(t, level, gotLevel)
			require.Equal(t, pattern, gotPattern)
		}
	}
}

func TestDecodeFormatCorrectsUpToThreeErrors(t *testing.T) {
	word := EncodeFormat(2, 5)
	damaged := word ^ 0b1010_0000_0000_001 // flip 3 bits
	level, pattern, err := DecodeFormat(damaged)
	require.NoError(t, err)
	require.Equal(t, 2, level)
	require.Equal(t, 5, pattern)
}

func TestEncodeDecodeVersionRoundTrip(t *testing.T) {
	for v := 7; v <= 40; v++ {
		word := EncodeVersion(v)
		got, err := DecodeVersion(word)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestDecodeVersionCorrectsErrors(t *testing.T) {
	word := EncodeVersion(21)
	damaged := word ^ 0b11 // flip 2 low bits
	got, err := DecodeVersion(damaged)
	require.NoError(t, err)
	require.Equal(t, 21, got)
}

func TestDecodeFormatKnownBits(t *testing.T) {
	// 111100010001111 decodes to level bits 01 (L) with mask pattern 3.
	level, pattern, err := DecodeFormat(0b111100010001111)
	require.NoError(t, err)
	require.Equal(t, 0b01, level)
	require.Equal(t, 3, pattern)
}

func TestDecodeFormatRejectsHeavyDamage(t *testing.T) {
	word := EncodeFormat(1, 2)
	_, _, err := DecodeFormat(word ^ 0b000_1111_0000_1111) // 8 flips
	require.ErrorIs(t, err, ErrUncorrectable)
}
