package qrmatrix

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jalphad/qrcodec/internal/qrparams"
)

func TestNewSizesMatchVersion(t *testing.T) {
	require.Equal(t, 21, New(1).Size())
	require.Equal(t, 25, New(2).Size())
	require.Equal(t, 177, New(40).Size())
}

func TestDrawFunctionPatternsMarksFinderCorners(t *testing.T) {
	m := New(1)
	m.DrawFunctionPatterns(1)
	require.True(t, m.IsFunction(0, 0))
	require.True(t, m.Get(0, 0)) // top-left finder's outer ring is dark
	require.True(t, m.IsFunction(m.Size()-1, 0))
	require.True(t, m.IsFunction(0, m.Size()-1))
	require.False(t, m.IsFunction(m.Size()-1, m.Size()-1)) // bottom-right has no finder
}

func TestTimingPatternAlternates(t *testing.T) {
	m := New(1)
	m.DrawFunctionPatterns(1)
	for i := 8; i < m.Size()-8; i++ {
		require.Equal(t, i%2 == 0, m.Get(6, i))
		require.Equal(t, i%2 == 0, m.Get(i, 6))
	}
}

func TestDarkModuleAlwaysSet(t *testing.T) {
	m := New(1)
	m.DrawFunctionPatterns(1)
	require.True(t, m.Get(8, m.Size()-8))
}

func TestVersionAreaReservedFromV7(t *testing.T) {
	m6 := New(6)
	m6.DrawFunctionPatterns(6)
	m7 := New(7)
	m7.DrawFunctionPatterns(7)
	require.False(t, m6.IsFunction(m6.Size()-9, 5))
	require.True(t, m7.IsFunction(m7.Size()-9, 5))
}

func TestPlaceAndReadCodewordsRoundTrip(t *testing.T) {
	m := New(1)
	m.DrawFunctionPatterns(1)

	data := make([]byte, 19) // version 1 has 19 data codewords before ECC
	for i := range data {
		data[i] = byte(i * 13)
	}
	m.PlaceCodewords(data)

	got, err := m.ReadCodewords(len(data))
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestDataModuleCountMatchesRawDataModules(t *testing.T) {
	// The zig-zag sweep visits exactly the non-function modules, so the
	// non-function count must equal the raw data-module formula: 8 bits per
	// codeword plus the version's remainder bits.
	for _, v := range []int{1, 2, 5, 7, 14, 26, 40} {
		m := New(v)
		m.DrawFunctionPatterns(v)
		count := 0
		for y := 0; y < m.Size(); y++ {
			for x := 0; x < m.Size(); x++ {
				if !m.IsFunction(x, y) {
					count++
				}
			}
		}
		require.Equal(t, qrparams.RawDataModules(v), count, "version %d", v)
	}
}

func TestDrawFormatRoundTripsThroughRead(t *testing.T) {
	m := New(1)
	m.DrawFunctionPatterns(1)
	m.DrawFormat(0x1234 & 0x7FFF)
	require.Equal(t, uint32(0x1234&0x7FFF), m.ReadFormatBits())
}

func TestDrawVersionRoundTripsThroughRead(t *testing.T) {
	m := New(7)
	m.DrawFunctionPatterns(7)
	m.DrawVersion(0x1F25 & 0x3FFFF)
	require.Equal(t, uint32(0x1F25&0x3FFFF), m.ReadVersionBits())
	require.Equal(t, uint32(0x1F25&0x3FFFF), m.ReadVersionBitsCopy2())
}
