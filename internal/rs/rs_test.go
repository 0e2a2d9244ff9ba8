package rs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeNoErrors(t *testing.T) {
	data := []byte{0x10, 0x20, 0x0C, 0x56, 0x61, 0x80, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11}
	nsym := 10
	parity := Encode(data, nsym)
	require.Len(t, parity, nsym)

	received := append(append([]byte{}, data...), parity...)
	corrected, numErrors, err := Decode(received, nsym)
	require.NoError(t, err)
	require.Equal(t, 0, numErrors)
	require.Equal(t, data, corrected)
}

func TestDecodeCorrectsSingleError(t *testing.T) {
	data := []byte{0x40, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11, 0xEC}
	nsym := 10
	parity := Encode(data, nsym)
	received := append(append([]byte{}, data...), parity...)

	received[3] ^= 0xFF

	corrected, numErrors, err := Decode(received, nsym)
	require.NoError(t, err)
	require.Equal(t, 1, numErrors)
	require.Equal(t, data, corrected)
}

func TestDecodeCorrectsMaxErrors(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A}
	nsym := 10 // corrects up to 5 errors
	parity := Encode(data, nsym)
	received := append(append([]byte{}, data...), parity...)

	for _, idx := range []int{0, 2, 5, 9, 13} {
		received[idx] ^= 0x55
	}

	corrected, numErrors, err := Decode(received, nsym)
	require.NoError(t, err)
	require.Equal(t, 5, numErrors)
	require.Equal(t, data, corrected)
}

func TestDecodeUncorrectableReturnsError(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	nsym := 4 // corrects up to 2 errors
	parity := Encode(data, nsym)
	received := append(append([]byte{}, data...), parity...)

	for i := range received {
		received[i] ^= 0xFF
	}

	_, _, err := Decode(received, nsym)
	require.ErrorIs(t, err, ErrUncorrectable)
}

func TestEncodeKnownVector(t *testing.T) {
	// Documented worked example: message 32 91 11 98 56 with 10 parity
	// codewords. A wrong root convention (alpha^1 instead of alpha^0)
	// produces a different parity sequence here.
	parity := Encode([]byte{32, 91, 11, 98, 56}, 10)
	require.Equal(t, []byte{107, 33, 43, 244, 102, 30, 52, 87, 107, 207}, parity)
}

func TestGeneratorIsMonicAndDegreeNsym(t *testing.T) {
	g := NewGenerator(8)
	require.Len(t, g, 9)
	require.Equal(t, byte(1), g[0])
}
