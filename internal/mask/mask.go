// Package mask implements the eight QR code data-masking patterns of
// ISO/IEC 18004 Table 10, the four-rule penalty score used to pick the
// best one, and Apply/BestPattern helpers that operate on a
// qrmatrix.Matrix. Pattern 5's condition requires both of its terms to be
// zero; only patterns 6 and 7 take the sum modulo 2.
package mask

import "github.com/jalphad/qrcodec/internal/qrmatrix"

const (
	penaltyN1 = 3
	penaltyN2 = 3
	penaltyN3 = 40
	penaltyN4 = 10
)

// NumPatterns is the number of defined mask patterns (0-7).
const NumPatterns = 8

// Invert reports whether mask pattern p inverts the module at (x,y),
// per ISO/IEC 18004 Table 10's eight formulas.
func Invert(pattern, x, y int) bool {
	switch pattern {
	case 0:
		return (x+y)%2 == 0
	case 1:
		return y%2 == 0
	case 2:
		return x%3 == 0
	case 3:
		return (x+y)%3 == 0
	case 4:
		return (x/3+y/2)%2 == 0
	case 5:
		return x*y%2+x*y%3 == 0
	case 6:
		return (x*y%2+x*y%3)%2 == 0
	case 7:
		return ((x+y)%2+x*y%3)%2 == 0
	default:
		panic("mask: invalid pattern")
	}
}

// Apply XORs mask pattern into every non-function module of m. Calling it
// twice with the same pattern undoes it, since XOR is self-inverse.
func Apply(m *qrmatrix.Matrix, pattern int) {
	size := m.Size()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if m.IsFunction(x, y) {
				continue
			}
			if Invert(pattern, x, y) {
				m.Set(x, y, !m.Get(x, y))
			}
		}
	}
}

// Score computes the four-rule penalty score for m's current module
// state: rule 1 penalizes runs of 5+ same-colored modules in a row or
// column (and flags 1:1:3:1:1 finder-like patterns via the run-history
// helper below), rule 2 penalizes 2x2 same-colored blocks, rule 3
// penalizes finder-like patterns, and rule 4 penalizes imbalance between
// dark and light modules.
func Score(m *qrmatrix.Matrix) int {
	size := m.Size()
	result := 0

	for y := 0; y < size; y++ {
		var runColor bool
		var runLen int
		history := newFinderPenalty(size)
		for x := 0; x < size; x++ {
			if m.Get(x, y) == runColor {
				runLen++
				if runLen == 5 {
					result += penaltyN1
				} else if runLen > 5 {
					result++
				}
			} else {
				history.addHistory(runLen)
				if !runColor {
					result += history.countPatterns() * penaltyN3
				}
				runColor = m.Get(x, y)
				runLen = 1
			}
		}
		result += history.terminateAndCount(runColor, runLen) * penaltyN3
	}

	for x := 0; x < size; x++ {
		var runColor bool
		var runLen int
		history := newFinderPenalty(size)
		for y := 0; y < size; y++ {
			if m.Get(x, y) == runColor {
				runLen++
				if runLen == 5 {
					result += penaltyN1
				} else if runLen > 5 {
					result++
				}
			} else {
				history.addHistory(runLen)
				if !runColor {
					result += history.countPatterns() * penaltyN3
				}
				runColor = m.Get(x, y)
				runLen = 1
			}
		}
		result += history.terminateAndCount(runColor, runLen) * penaltyN3
	}

	for y := 0; y < size-1; y++ {
		for x := 0; x < size-1; x++ {
			c := m.Get(x, y)
			if c == m.Get(x+1, y) && c == m.Get(x, y+1) && c == m.Get(x+1, y+1) {
				result += penaltyN2
			}
		}
	}

	dark := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if m.Get(x, y) {
				dark++
			}
		}
	}
	total := size * size
	k := (abs(dark*20-total*10)+total-1)/total - 1
	result += k * penaltyN4

	return result
}

// BestPattern tries all 8 mask patterns against m (which must already have
// its data codewords placed and function modules marked) and returns the
// pattern with the lowest penalty score, leaving m masked with that
// pattern.
func BestPattern(m *qrmatrix.Matrix) int {
	best := -1
	bestScore := 0
	for p := 0; p < NumPatterns; p++ {
		Apply(m, p)
		score := Score(m)
		if best == -1 || score < bestScore {
			best = p
			bestScore = score
		}
		Apply(m, p) // undo
	}
	Apply(m, best)
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// finderPenalty tracks run-length history to detect the 1:1:3:1:1
// dark:light:dark:light:dark proportion that mimics a finder pattern,
// which rule 3 penalizes even when it occurs outside an actual finder.
type finderPenalty struct {
	size    int
	history [7]int
}

func newFinderPenalty(size int) *finderPenalty {
	return &finderPenalty{size: size}
}

func (p *finderPenalty) addHistory(runLen int) {
	if p.history[0] == 0 {
		runLen += p.size
	}
	for i := len(p.history) - 2; i >= 0; i-- {
		p.history[i+1] = p.history[i]
	}
	p.history[0] = runLen
}

func (p *finderPenalty) countPatterns() int {
	n := p.history[1]
	core := n > 0 && p.history[2] == n && p.history[3] == n*3 && p.history[4] == n && p.history[5] == n
	count := 0
	if core && p.history[0] >= n*4 && p.history[6] >= n {
		count++
	}
	if core && p.history[6] >= n*4 && p.history[0] >= n {
		count++
	}
	return count
}

func (p *finderPenalty) terminateAndCount(runColor bool, runLen int) int {
	if runColor {
		p.addHistory(runLen)
		runLen = 0
	}
	runLen += p.size
	p.addHistory(runLen)
	return p.countPatterns()
}
