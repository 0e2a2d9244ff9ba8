// Package segment implements QR code data-segment encoding and decoding:
// mode indicators, version-bucketed character-count headers, and the
// Numeric/Alphanumeric/Byte payload packings of ISO/IEC 18004 section 7.4.
package segment

import (
	"errors"
	"fmt"

	"github.com/jalphad/qrcodec/internal/bitio"
)

// Mode is a QR code data encoding mode. Kanji, ECI, and Structured Append
// are out of scope.
type Mode int

const (
	ModeNumeric Mode = iota
	ModeAlphanumeric
	ModeByte
)

// indicator returns the 4-bit mode indicator value.
func (m Mode) indicator() uint32 {
	switch m {
	case ModeNumeric:
		return 0b0001
	case ModeAlphanumeric:
		return 0b0010
	case ModeByte:
		return 0b0100
	default:
		panic(fmt.Sprintf("segment: invalid mode %d", m))
	}
}

func (m Mode) String() string {
	switch m {
	case ModeNumeric:
		return "Numeric"
	case ModeAlphanumeric:
		return "Alphanumeric"
	case ModeByte:
		return "Byte"
	default:
		return "Unknown"
	}
}

// Errors returned by Encode and Decode.
var (
	ErrInvalidCharacter = errors.New("segment: character not valid for mode")
	ErrMalformedHeader  = errors.New("segment: malformed segment header")
	ErrUnsupportedMode  = errors.New("segment: unsupported mode indicator")
	ErrCapacityExceeded = errors.New("segment: data exceeds symbol capacity")
)

// CharacterCountBits returns the width of the character-count field for a
// mode at a given version, per ISO/IEC 18004 Table 3's three version
// bands (1-9, 10-26, 27-40).
func CharacterCountBits(mode Mode, version int) int {
	switch {
	case version <= 9:
		switch mode {
		case ModeNumeric:
			return 10
		case ModeAlphanumeric:
			return 9
		case ModeByte:
			return 8
		}
	case version <= 26:
		switch mode {
		case ModeNumeric:
			return 12
		case ModeAlphanumeric:
			return 11
		case ModeByte:
			return 16
		}
	default:
		switch mode {
		case ModeNumeric:
			return 14
		case ModeAlphanumeric:
			return 13
		case ModeByte:
			return 16
		}
	}
	panic(fmt.Sprintf("segment: invalid mode %d", mode))
}

const alphanumericChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

func alphanumericValue(c byte) (int, bool) {
	for i := 0; i < len(alphanumericChars); i++ {
		if alphanumericChars[i] == c {
			return i, true
		}
	}
	return 0, false
}

// Validate reports whether data consists only of characters valid for mode.
func Validate(mode Mode, data []byte) error {
	switch mode {
	case ModeNumeric:
		for _, c := range data {
			if c < '0' || c > '9' {
				return fmt.Errorf("%w: %q is not a digit", ErrInvalidCharacter, c)
			}
		}
	case ModeAlphanumeric:
		for _, c := range data {
			if _, ok := alphanumericValue(c); !ok {
				return fmt.Errorf("%w: %q is not a valid alphanumeric-mode character", ErrInvalidCharacter, c)
			}
		}
	case ModeByte:
		// Any byte value is valid.
	default:
		return fmt.Errorf("%w: mode %d", ErrUnsupportedMode, mode)
	}
	return nil
}

// Encode writes the mode indicator, character-count header, and payload
// for data into w, using version to size the character-count header.
func Encode(w *bitio.Writer, mode Mode, data []byte, version int) error {
	if err := Validate(mode, data); err != nil {
		return err
	}

	countBits := CharacterCountBits(mode, version)
	if len(data) >= (1 << uint(countBits)) {
		return fmt.Errorf("%w: %d characters exceeds %d-bit count field", ErrCapacityExceeded, len(data), countBits)
	}

	w.WriteBits(mode.indicator(), 4)
	w.WriteBits(uint32(len(data)), countBits)

	switch mode {
	case ModeNumeric:
		encodeNumeric(w, data)
	case ModeAlphanumeric:
		encodeAlphanumeric(w, data)
	case ModeByte:
		for _, b := range data {
			w.WriteBits(uint32(b), 8)
		}
	}
	return nil
}

func encodeNumeric(w *bitio.Writer, data []byte) {
	for i := 0; i < len(data); i += 3 {
		chunk := data[i:min(i+3, len(data))]
		value := 0
		for _, c := range chunk {
			value = value*10 + int(c-'0')
		}
		switch len(chunk) {
		case 3:
			w.WriteBits(uint32(value), 10)
		case 2:
			w.WriteBits(uint32(value), 7)
		case 1:
			w.WriteBits(uint32(value), 4)
		}
	}
}

func encodeAlphanumeric(w *bitio.Writer, data []byte) {
	for i := 0; i < len(data); i += 2 {
		if i+1 < len(data) {
			v1, _ := alphanumericValue(data[i])
			v2, _ := alphanumericValue(data[i+1])
			w.WriteBits(uint32(v1*45+v2), 11)
		} else {
			v1, _ := alphanumericValue(data[i])
			w.WriteBits(uint32(v1), 6)
		}
	}
}

// Pad appends the terminator, byte-alignment padding, and alternating
// 0xEC/0x11 pad codewords needed to fill a segment out to capacityBits.
func Pad(w *bitio.Writer, capacityBits int) {
	terminatorBits := capacityBits - w.Len()
	if terminatorBits > 4 {
		terminatorBits = 4
	}
	if terminatorBits > 0 {
		w.WriteBits(0, terminatorBits)
	}
	w.PadToByte()

	pad := byte(0xEC)
	for w.Len() < capacityBits {
		w.WriteBits(uint32(pad), 8)
		if pad == 0xEC {
			pad = 0x11
		} else {
			pad = 0xEC
		}
	}
}

// Decode reads a single segment from r and returns its mode and decoded
// text. Byte-mode payloads are returned as their raw bytes reinterpreted
// as a string (the codec does not assume a particular text encoding for
// byte mode, matching ISO/IEC 18004's treatment of it as 8-bit data).
func Decode(r *bitio.Reader, version int) (mode Mode, text string, err error) {
	indicator, err := r.ReadBits(4)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}

	switch indicator {
	case 0b0001:
		mode = ModeNumeric
	case 0b0010:
		mode = ModeAlphanumeric
	case 0b0100:
		mode = ModeByte
	case 0b0000:
		return mode, "", nil // terminator reached
	default:
		return 0, "", fmt.Errorf("%w: %w: indicator %04b", ErrMalformedHeader, ErrUnsupportedMode, indicator)
	}

	countBits := CharacterCountBits(mode, version)
	count, err := r.ReadBits(countBits)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}

	switch mode {
	case ModeNumeric:
		text, err = decodeNumeric(r, int(count))
	case ModeAlphanumeric:
		text, err = decodeAlphanumeric(r, int(count))
	case ModeByte:
		text, err = decodeByte(r, int(count))
	}
	return mode, text, err
}

func decodeNumeric(r *bitio.Reader, count int) (string, error) {
	out := make([]byte, 0, count)
	remaining := count
	for remaining > 0 {
		var bits, digits int
		switch {
		case remaining >= 3:
			bits, digits = 10, 3
		case remaining == 2:
			bits, digits = 7, 2
		default:
			bits, digits = 4, 1
		}
		value, err := r.ReadBits(bits)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
		group := fmt.Sprintf("%0*d", digits, value)
		if len(group) != digits {
			return "", fmt.Errorf("%w: numeric group %d overflows %d digits", ErrMalformedHeader, value, digits)
		}
		out = append(out, group...)
		remaining -= digits
	}
	return string(out), nil
}

func decodeAlphanumeric(r *bitio.Reader, count int) (string, error) {
	out := make([]byte, 0, count)
	remaining := count
	for remaining >= 2 {
		value, err := r.ReadBits(11)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
		if int(value) >= 45*45 {
			return "", fmt.Errorf("%w: alphanumeric pair %d out of range", ErrMalformedHeader, value)
		}
		out = append(out, alphanumericChars[value/45], alphanumericChars[value%45])
		remaining -= 2
	}
	if remaining == 1 {
		value, err := r.ReadBits(6)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
		if int(value) >= 45 {
			return "", fmt.Errorf("%w: alphanumeric value %d out of range", ErrMalformedHeader, value)
		}
		out = append(out, alphanumericChars[value])
	}
	return string(out), nil
}

func decodeByte(r *bitio.Reader, count int) (string, error) {
	out := make([]byte, count)
	for i := 0; i < count; i++ {
		b, err := r.ReadBits(8)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
		out[i] = byte(b)
	}
	return string(out), nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
