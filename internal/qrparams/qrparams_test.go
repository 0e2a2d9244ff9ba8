package qrparams

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSize(t *testing.T) {
	require.Equal(t, 21, Size(1))
	require.Equal(t, 25, Size(2))
	require.Equal(t, 177, Size(40))
}

func TestAlignmentCentersV1Empty(t *testing.T) {
	require.Empty(t, AlignmentCenters(1))
}

func TestAlignmentCentersV7(t *testing.T) {
	require.Equal(t, []int{6, 22, 38}, AlignmentCenters(7))
}

func TestLayoutVersion1L(t *testing.T) {
	// Version 1-L: 26 total codewords, 19 data, 7 ECC, single block.
	layout := Layout(1, L)
	require.Equal(t, 26, layout.TotalCodewords)
	require.Equal(t, 19, layout.DataCodewords)
	require.Equal(t, 7, layout.ECCPerBlock)
	require.Equal(t, 1, layout.NumBlocks)
	require.Equal(t, 0, layout.RemainderBits)
}

func TestLayoutVersion5H(t *testing.T) {
	// Version 5-H: known to split into 2 blocks of 11 data codewords and
	// 2 blocks of 12 data codewords, 22 ECC codewords per block.
	layout := Layout(5, H)
	require.Equal(t, 4, layout.NumBlocks)
	require.Equal(t, 22, layout.ECCPerBlock)
	require.Equal(t, 2, layout.NumShortBlocks)
	require.Equal(t, 11, layout.ShortBlockData)
	require.Equal(t, 12, layout.LongBlockData)
}

func TestRawDataModulesVersion1(t *testing.T) {
	// Version 1: 26 codewords * 8 bits, no remainder.
	require.Equal(t, 208, RawDataModules(1))
}

func TestAllLayoutsSatisfyInvariant(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		for _, lvl := range []Level{L, M, Q, H} {
			layout := Layout(v, lvl)
			sum := layout.NumShortBlocks*layout.ShortBlockData +
				(layout.NumBlocks-layout.NumShortBlocks)*layout.LongBlockData
			require.Equal(t, layout.DataCodewords, sum, "version %d level %s", v, lvl)
		}
	}
}
