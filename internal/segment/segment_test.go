package segment

import (
	"testing"

	"github.com/jalphad/qrcodec/internal/bitio"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeByteMode(t *testing.T) {
	w := bitio.NewWriter()
	require.NoError(t, Encode(w, ModeByte, []byte("Hello"), 1))
	w.PadToByte()

	r := bitio.NewReader(w.Bytes())
	mode, text, err := Decode(r, 1)
	require.NoError(t, err)
	require.Equal(t, ModeByte, mode)
	require.Equal(t, "Hello", text)
}

func TestEncodeDecodeNumericMode(t *testing.T) {
	for _, s := range []string{"12345", "1234", "123", "12", "1", ""} {
		w := bitio.NewWriter()
		require.NoError(t, Encode(w, ModeNumeric, []byte(s), 1))
		w.PadToByte()

		r := bitio.NewReader(w.Bytes())
		mode, text, err := Decode(r, 1)
		require.NoError(t, err)
		require.Equal(t, ModeNumeric, mode)
		require.Equal(t, s, text)
	}
}

func TestEncodeDecodeAlphanumericMode(t *testing.T) {
	for _, s := range []string{"HELLO WORLD", "AB", "A", "ABC123", ""} {
		w := bitio.NewWriter()
		require.NoError(t, Encode(w, ModeAlphanumeric, []byte(s), 1))
		w.PadToByte()

		r := bitio.NewReader(w.Bytes())
		mode, text, err := Decode(r, 1)
		require.NoError(t, err)
		require.Equal(t, ModeAlphanumeric, mode)
		require.Equal(t, s, text)
	}
}

func TestValidateRejectsInvalidCharacters(t *testing.T) {
	require.ErrorIs(t, Validate(ModeNumeric, []byte("12a")), ErrInvalidCharacter)
	require.ErrorIs(t, Validate(ModeAlphanumeric, []byte("hello")), ErrInvalidCharacter)
	require.NoError(t, Validate(ModeByte, []byte{0x00, 0xFF}))
}

func TestCharacterCountBitsVersionBands(t *testing.T) {
	require.Equal(t, 8, CharacterCountBits(ModeByte, 1))
	require.Equal(t, 16, CharacterCountBits(ModeByte, 10))
	require.Equal(t, 16, CharacterCountBits(ModeByte, 27))
	require.Equal(t, 9, CharacterCountBits(ModeAlphanumeric, 9))
	require.Equal(t, 11, CharacterCountBits(ModeAlphanumeric, 10))
}

func TestPadAppendsTerminatorAndAlternatingBytes(t *testing.T) {
	w := bitio.NewWriter()
	require.NoError(t, Encode(w, ModeByte, []byte("A"), 1))
	capacityBits := (3 + 8) * 8 // arbitrary capacity larger than payload
	Pad(w, capacityBits)
	require.Equal(t, capacityBits, w.Len())

	bytes := w.Bytes()
	last := bytes[len(bytes)-2:]
	require.Equal(t, byte(0xEC), last[0])
	require.Equal(t, byte(0x11), last[1])
}

func TestEncodeCapacityExceeded(t *testing.T) {
	w := bitio.NewWriter()
	huge := make([]byte, 300) // exceeds 8-bit byte-mode count field for version<=9
	for i := range huge {
		huge[i] = 'A'
	}
	err := Encode(w, ModeByte, huge, 1)
	require.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestDecodeTerminatorReturnsEmptyText(t *testing.T) {
	w := bitio.NewWriter()
	w.WriteBits(0, 4)
	w.PadToByte()
	r := bitio.NewReader(w.Bytes())
	_, text, err := Decode(r, 1)
	require.NoError(t, err)
	require.Equal(t, "", text)
}
