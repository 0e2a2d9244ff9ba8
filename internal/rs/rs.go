// Package rs implements Reed-Solomon encoding and decoding over GF(256)
// for QR code error correction codewords: syndrome computation,
// Berlekamp-Massey, Chien search, and Forney's algorithm, specialized to
// the single field the codec needs rather than a generic GF(p^n)
// construction.
package rs

import (
	"errors"
	"fmt"

	"github.com/jalphad/qrcodec/internal/gf"
	"github.com/jalphad/qrcodec/internal/gfpoly"
)

// ErrUncorrectable is returned when a block has more errors than its error
// correction codewords can fix, or when the corrected codeword fails the
// post-correction syndrome check.
var ErrUncorrectable = errors.New("rs: uncorrectable block")

// NewGenerator builds the RS generator polynomial of degree nsym, with
// roots alpha^0, alpha^1, ..., alpha^(nsym-1). This is the root set ISO/IEC
// 18004 specifies: consecutive powers starting at alpha^0 (not alpha^1, as
// some "narrow sense" RS codes use elsewhere).
func NewGenerator(nsym int) gfpoly.Polynomial {
	g := gfpoly.Polynomial{1}
	for i := 0; i < nsym; i++ {
		// Multiply by (x - alpha^i) = (x + alpha^i) in characteristic 2.
		term := gfpoly.Polynomial{1, gf.Pow(i)}
		g = gfpoly.Mul(g, term)
	}
	return g
}

// Encode returns the nsym parity codewords for data, computed via
// systematic polynomial division: the remainder of (data padded with nsym
// zero bytes) divided by the degree-nsym generator polynomial.
func Encode(data []byte, nsym int) []byte {
	generator := NewGenerator(nsym)
	dividend := make(gfpoly.Polynomial, len(data)+nsym)
	copy(dividend, data)
	remainder := gfpoly.RemainderMod(dividend, generator)

	parity := make([]byte, nsym)
	copy(parity[nsym-len(remainder):], remainder)
	return parity
}

// Decode corrects up to nsym/2 symbol errors in received (data codewords
// followed by nsym parity codewords, highest-degree-first) and returns the
// data codewords with any errors fixed, plus the number of errors found.
// It returns ErrUncorrectable if the block cannot be corrected.
func Decode(received []byte, nsym int) (corrected []byte, numErrors int, err error) {
	numData := len(received) - nsym
	if numData < 0 {
		return nil, 0, fmt.Errorf("rs: block shorter than parity length")
	}

	poly := gfpoly.Polynomial(received)
	syndromes := make([]gf.Element, nsym)
	hasErrors := false
	for i := 0; i < nsym; i++ {
		syndromes[i] = poly.Eval(gf.Pow(i))
		if syndromes[i] != 0 {
			hasErrors = true
		}
	}

	if !hasErrors {
		out := make([]byte, numData)
		copy(out, received[:numData])
		return out, 0, nil
	}

	lambda := berlekampMassey(syndromes)
	errCount := len(lambda) - 1
	if errCount > nsym/2 || errCount == 0 {
		return nil, errCount, fmt.Errorf("%w: %d errors exceeds correction capacity %d", ErrUncorrectable, errCount, nsym/2)
	}

	omega := computeOmega(syndromes, lambda)

	// Chien search: find roots of lambda, i.e. positions j (0-indexed from
	// the start of the codeword polynomial, matching array index) such that
	// lambda(alpha^-(n-1-j)) == 0. Equivalently, evaluate lambda at
	// alpha^-m for every power m in [0, n) and translate m to the array
	// index n-1-m.
	n := len(received)
	var positions []int
	for m := 0; m < n; m++ {
		x := gf.Inverse(gf.Pow(m))
		if evalLow(lambda, x) == 0 {
			positions = append(positions, n-1-m)
		}
	}
	if len(positions) != errCount {
		return nil, errCount, fmt.Errorf("%w: located %d error positions, expected %d", ErrUncorrectable, len(positions), errCount)
	}

	lambdaDeriv := formalDerivativeLow(lambda)

	fixed := make([]byte, n)
	copy(fixed, received)
	for _, pos := range positions {
		m := n - 1 - pos
		xInv := gf.Inverse(gf.Pow(m))
		num := gf.Mul(gf.Pow(m), evalLow(omega, xInv))
		den := evalLow(lambdaDeriv, xInv)
		if den == 0 {
			return nil, errCount, fmt.Errorf("%w: zero derivative at error position %d", ErrUncorrectable, pos)
		}
		magnitude := gf.Div(num, den)
		fixed[pos] = gf.Add(fixed[pos], magnitude)
	}

	verify := gfpoly.Polynomial(fixed)
	for i := 0; i < nsym; i++ {
		if verify.Eval(gf.Pow(i)) != 0 {
			return nil, errCount, fmt.Errorf("%w: syndromes nonzero after correction", ErrUncorrectable)
		}
	}

	out := make([]byte, numData)
	copy(out, fixed[:numData])
	return out, errCount, nil
}

// berlekampMassey computes the error locator polynomial (lowest-degree-first,
// constant term 1) from the syndrome sequence S_0, S_1, ..., S_{nsym-1},
// following the standard linear-feedback-shift-register formulation: C(x)
// is the current locator candidate, B(x) the locator from the last length
// change, L the current LFSR length, and m the gap since B(x) was recorded.
func berlekampMassey(syndromes []gf.Element) []gf.Element {
	c := []gf.Element{1}
	b := []gf.Element{1}
	l := 0
	m := 1
	bCoeff := gf.Element(1)

	for n := 0; n < len(syndromes); n++ {
		delta := syndromes[n]
		for i := 1; i <= l; i++ {
			if i < len(c) {
				delta = gf.Add(delta, gf.Mul(c[i], syndromes[n-i]))
			}
		}

		if delta == 0 {
			m++
			continue
		}

		scale := gf.Div(delta, bCoeff)
		shifted := make([]gf.Element, len(b)+m)
		for i, coeff := range b {
			shifted[i+m] = gf.Mul(coeff, scale)
		}
		t := make([]gf.Element, len(c))
		copy(t, c)

		newC := make([]gf.Element, max(len(c), len(shifted)))
		copy(newC, c)
		for i, coeff := range shifted {
			newC[i] = gf.Add(newC[i], coeff)
		}
		c = newC

		if 2*l <= n {
			l = n + 1 - l
			b = t
			bCoeff = delta
			m = 1
		} else {
			m++
		}
	}

	return c
}

// computeOmega returns the error evaluator polynomial
// Omega(x) = S(x)*Lambda(x) mod x^nu, nu = deg Lambda, lowest-degree-first.
func computeOmega(syndromes []gf.Element, lambda []gf.Element) []gf.Element {
	product := mulLow(syndromes, lambda)
	degOmega := len(lambda) - 1
	if degOmega > len(product) {
		degOmega = len(product)
	}
	omega := make([]gf.Element, degOmega)
	copy(omega, product[:degOmega])
	return omega
}

// formalDerivativeLow computes p' for a lowest-degree-first polynomial: the
// coefficient of x^i in p' is (i+1)*p_{i+1}, and since we're in
// characteristic 2, (i+1) is either 0 or 1 depending on its parity.
func formalDerivativeLow(p []gf.Element) []gf.Element {
	if len(p) <= 1 {
		return []gf.Element{}
	}
	deriv := make([]gf.Element, len(p)-1)
	for i := 1; i < len(p); i++ {
		if i%2 == 1 {
			deriv[i-1] = p[i]
		}
	}
	return deriv
}

// evalLow evaluates a lowest-degree-first polynomial at x via Horner's
// method applied from the high-degree end.
func evalLow(p []gf.Element, x gf.Element) gf.Element {
	var result gf.Element
	for i := len(p) - 1; i >= 0; i-- {
		result = gf.Add(gf.Mul(result, x), p[i])
	}
	return result
}

// mulLow multiplies two lowest-degree-first polynomials.
func mulLow(a, b []gf.Element) []gf.Element {
	if len(a) == 0 || len(b) == 0 {
		return []gf.Element{}
	}
	result := make([]gf.Element, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			result[i+j] = gf.Add(result[i+j], gf.Mul(av, bv))
		}
	}
	return result
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
