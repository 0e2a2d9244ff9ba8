package gf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpLogRoundTrip(t *testing.T) {
	for v := 1; v < Size; v++ {
		got := exp[Log(Element(v))]
		require.Equal(t, v, int(got))
	}
}

func TestMulDivInverse(t *testing.T) {
	for a := 1; a < Size; a++ {
		for b := 1; b < Size; b++ {
			prod := Mul(Element(a), Element(b))
			back := Div(prod, Element(b))
			require.Equal(t, Element(a), back)
		}
	}
}

func TestMulZero(t *testing.T) {
	require.Equal(t, Element(0), Mul(0, 42))
	require.Equal(t, Element(0), Mul(42, 0))
}

func TestInverse(t *testing.T) {
	for a := 1; a < Size; a++ {
		require.Equal(t, Element(1), Mul(Element(a), Inverse(Element(a))))
	}
}

func TestPowNegative(t *testing.T) {
	for i := -300; i < 300; i++ {
		got := Pow(i)
		want := Pow(((i % 255) + 255) % 255)
		require.Equal(t, want, got)
	}
}

func TestDivByZeroPanics(t *testing.T) {
	require.Panics(t, func() { Div(5, 0) })
}

func TestLogOfZeroPanics(t *testing.T) {
	require.Panics(t, func() { Log(0) })
}

func TestInverseOfZeroPanics(t *testing.T) {
	require.Panics(t, func() { Inverse(0) })
}
