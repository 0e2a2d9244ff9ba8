// Package gfpoly implements polynomials over GF(256), coefficients stored
// highest-degree-first to match the QR codeword-stream convention: the
// first byte of a message or codeword block is the highest-order term.
package gfpoly

import "github.com/jalphad/qrcodec/internal/gf"

// Polynomial holds coefficients from highest degree to lowest. A codeword
// block of length n is the polynomial of degree n-1 whose coefficients are
// exactly those bytes in order.
type Polynomial []gf.Element

// Degree returns the polynomial's degree, or -1 for the zero polynomial.
func (p Polynomial) Degree() int {
	for i, c := range p {
		if c != 0 {
			return len(p) - 1 - i
		}
	}
	return -1
}

// Eval evaluates p(x) via Horner's method, leading (highest-degree) term first.
func (p Polynomial) Eval(x gf.Element) gf.Element {
	var result gf.Element
	for _, c := range p {
		result = gf.Add(gf.Mul(result, x), c)
	}
	return result
}

// Mul returns the product p*q.
func Mul(p, q Polynomial) Polynomial {
	if len(p) == 0 || len(q) == 0 {
		return Polynomial{}
	}
	result := make(Polynomial, len(p)+len(q)-1)
	for i, a := range p {
		if a == 0 {
			continue
		}
		for j, b := range q {
			result[i+j] = gf.Add(result[i+j], gf.Mul(a, b))
		}
	}
	return result
}

// Scale returns p with every coefficient multiplied by s.
func Scale(p Polynomial, s gf.Element) Polynomial {
	result := make(Polynomial, len(p))
	for i, c := range p {
		result[i] = gf.Mul(c, s)
	}
	return result
}

// Add returns the sum of two polynomials (XOR of coefficients, padded to
// the longer length on the high-degree side).
func Add(p, q Polynomial) Polynomial {
	if len(p) < len(q) {
		p, q = q, p
	}
	result := make(Polynomial, len(p))
	copy(result, p)
	offset := len(p) - len(q)
	for i, c := range q {
		result[offset+i] = gf.Add(result[offset+i], c)
	}
	return result
}

// RemainderMod performs the systematic Reed-Solomon division used by
// encoding: it divides dividend (data followed by degree(divisor) zero
// coefficients) by divisor and returns the remainder, which is exactly the
// parity codewords. dividend and divisor are both in the highest-degree-
// first convention; divisor must be monic (leading coefficient 1), which
// every RS generator polynomial is by construction.
func RemainderMod(dividend, divisor Polynomial) Polynomial {
	remainder := make(Polynomial, len(dividend))
	copy(remainder, dividend)

	for i := 0; i <= len(remainder)-len(divisor); i++ {
		coeff := remainder[i]
		if coeff == 0 {
			continue
		}
		for j, d := range divisor {
			if d == 0 {
				continue
			}
			remainder[i+j] = gf.Add(remainder[i+j], gf.Mul(coeff, d))
		}
	}

	if len(remainder) < len(divisor)-1 {
		return remainder
	}
	return remainder[len(remainder)-(len(divisor)-1):]
}

// FormalDerivative computes p' in characteristic 2, where only the
// odd-power terms of p survive (every even coefficient's multiplier is
// even and vanishes). p is highest-degree-first; the result is as well.
func FormalDerivative(p Polynomial) Polynomial {
	deg := len(p) - 1
	if deg <= 0 {
		return Polynomial{}
	}
	result := make(Polynomial, deg)
	for i, c := range p[:deg] {
		power := deg - i
		if power%2 == 1 {
			result[i] = c
		} else {
			result[i] = 0
		}
	}
	return result
}
