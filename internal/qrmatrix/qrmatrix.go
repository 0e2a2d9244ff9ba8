// Package qrmatrix builds and reads the module grid of a QR code symbol:
// finder, separator, timing, and alignment patterns; the always-dark
// module; format- and version-information placement; and the zig-zag
// codeword placement/extraction sweep of ISO/IEC 18004 section 7.7.3.
// The function-module predicate is computed exactly once, when the
// patterns are drawn, and every placement or read consults that single
// mask rather than re-deriving which coordinates are reserved.
package qrmatrix

import (
	"fmt"

	"github.com/jalphad/qrcodec/internal/qrparams"
)

// Matrix is a square grid of modules. true means dark.
type Matrix struct {
	size     int
	modules  []bool
	function []bool // true if this module belongs to a function pattern
}

// New returns a matrix sized for version, with every module light and
// unmarked.
func New(version int) *Matrix {
	size := qrparams.Size(version)
	return &Matrix{
		size:     size,
		modules:  make([]bool, size*size),
		function: make([]bool, size*size),
	}
}

// Size returns the module grid's width/height.
func (m *Matrix) Size() int { return m.size }

func (m *Matrix) index(x, y int) int { return y*m.size + x }

// Get returns whether the module at (x,y) is dark.
func (m *Matrix) Get(x, y int) bool { return m.modules[m.index(x, y)] }

// IsFunction returns whether the module at (x,y) belongs to a function
// pattern (finder, separator, timing, alignment, dark module, or
// format/version info), as opposed to a data/ECC codeword module.
func (m *Matrix) IsFunction(x, y int) bool { return m.function[m.index(x, y)] }

// Set sets the module at (x,y) without marking it as a function module
// (used for data/ECC codeword bits and mask XOR).
func (m *Matrix) Set(x, y int, dark bool) {
	m.modules[m.index(x, y)] = dark
}

// setFunction sets a module's color and marks it as a function module.
func (m *Matrix) setFunction(x, y int, dark bool) {
	if x < 0 || x >= m.size || y < 0 || y >= m.size {
		return
	}
	m.modules[m.index(x, y)] = dark
	m.function[m.index(x, y)] = true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// drawFinderPattern draws the 9x9 finder+separator block centered at
// (x,y); out-of-bounds modules (the separator's outer edge near the
// symbol border) are silently skipped.
func (m *Matrix) drawFinderPattern(x, y int) {
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			xx, yy := x+dx, y+dy
			if xx < 0 || xx >= m.size || yy < 0 || yy >= m.size {
				continue
			}
			dist := maxInt(abs(dx), abs(dy))
			m.setFunction(xx, yy, dist != 2 && dist != 4)
		}
	}
}

// drawAlignmentPattern draws a 5x5 alignment pattern centered at (x,y).
func (m *Matrix) drawAlignmentPattern(x, y int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			m.setFunction(x+dx, y+dy, maxInt(abs(dx), abs(dy)) != 1)
		}
	}
}

// DrawFunctionPatterns draws timing patterns, the three finder patterns,
// and the alignment patterns for version, and reserves (but does not yet
// fill with real bits) the format-information and version-information
// areas by writing zero into them and marking them as function modules.
// DrawFormat and DrawVersion overwrite the reserved areas with real bits
// once the format/version codes are known.
func (m *Matrix) DrawFunctionPatterns(version int) {
	size := m.size
	for i := 0; i < size; i++ {
		m.setFunction(6, i, i%2 == 0)
		m.setFunction(i, 6, i%2 == 0)
	}

	m.drawFinderPattern(3, 3)
	m.drawFinderPattern(size-4, 3)
	m.drawFinderPattern(3, size-4)

	positions := qrparams.AlignmentCenters(version)
	n := len(positions)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == 0 && j == 0 || i == 0 && j == n-1 || i == n-1 && j == 0 {
				continue // overlaps a finder pattern corner
			}
			m.drawAlignmentPattern(positions[i], positions[j])
		}
	}

	m.reserveFormatArea()
	if version >= 7 {
		m.reserveVersionArea()
	}
}

func (m *Matrix) reserveFormatArea() {
	for i := 0; i < 6; i++ {
		m.setFunction(8, i, false)
	}
	m.setFunction(8, 7, false)
	m.setFunction(8, 8, false)
	m.setFunction(7, 8, false)
	for i := 9; i < 15; i++ {
		m.setFunction(14-i, 8, false)
	}
	size := m.size
	for i := 0; i < 8; i++ {
		m.setFunction(size-1-i, 8, false)
	}
	for i := 8; i < 15; i++ {
		m.setFunction(8, size-15+i, false)
	}
	m.setFunction(8, size-8, true) // dark module, fixed regardless of mask/level
}

func (m *Matrix) reserveVersionArea() {
	size := m.size
	for i := 0; i < 18; i++ {
		a := size - 11 + i%3
		b := i / 3
		m.setFunction(a, b, false)
		m.setFunction(b, a, false)
	}
}

// DrawFormat writes the 15-bit BCH-encoded format word (already XOR-masked
// by the format package) into both copies of the format information area.
func (m *Matrix) DrawFormat(bits uint32) {
	bit := func(i int) bool { return (bits>>uint(i))&1 != 0 }

	for i := 0; i < 6; i++ {
		m.setFunction(8, i, bit(i))
	}
	m.setFunction(8, 7, bit(6))
	m.setFunction(8, 8, bit(7))
	m.setFunction(7, 8, bit(8))
	for i := 9; i < 15; i++ {
		m.setFunction(14-i, 8, bit(i))
	}

	size := m.size
	for i := 0; i < 8; i++ {
		m.setFunction(size-1-i, 8, bit(i))
	}
	for i := 8; i < 15; i++ {
		m.setFunction(8, size-15+i, bit(i))
	}
	m.setFunction(8, size-8, true)
}

// DrawVersion writes the 18-bit BCH-encoded version word into both copies
// of the version information area (version 7 and above only).
func (m *Matrix) DrawVersion(bits uint32) {
	size := m.size
	for i := 0; i < 18; i++ {
		bit := (bits>>uint(i))&1 != 0
		a := size - 11 + i%3
		b := i / 3
		m.setFunction(a, b, bit)
		m.setFunction(b, a, bit)
	}
}

// ReadFormatBits reads the first format-information copy's 15 raw bits
// (not yet BCH-corrected or unmasked) in the same bit order DrawFormat
// writes them.
func (m *Matrix) ReadFormatBits() uint32 {
	var bits uint32
	get := func(x, y, i int) {
		if m.Get(x, y) {
			bits |= 1 << uint(i)
		}
	}
	for i := 0; i < 6; i++ {
		get(8, i, i)
	}
	get(8, 7, 6)
	get(8, 8, 7)
	get(7, 8, 8)
	for i := 9; i < 15; i++ {
		get(14-i, 8, i)
	}
	return bits
}

// ReadFormatBitsCopy2 reads the second format-information copy (running
// along the bottom-left and top-right edges), used when the first copy
// fails BCH correction.
func (m *Matrix) ReadFormatBitsCopy2() uint32 {
	var bits uint32
	size := m.size
	get := func(x, y, i int) {
		if m.Get(x, y) {
			bits |= 1 << uint(i)
		}
	}
	for i := 0; i < 8; i++ {
		get(size-1-i, 8, i)
	}
	for i := 8; i < 15; i++ {
		get(8, size-15+i, i)
	}
	return bits
}

// ReadVersionBits reads the first version-information copy's 18 raw bits.
func (m *Matrix) ReadVersionBits() uint32 {
	var bits uint32
	size := m.size
	for i := 0; i < 18; i++ {
		a := size - 11 + i%3
		b := i / 3
		if m.Get(a, b) {
			bits |= 1 << uint(i)
		}
	}
	return bits
}

// ReadVersionBitsCopy2 reads the second version-information copy.
func (m *Matrix) ReadVersionBitsCopy2() uint32 {
	var bits uint32
	size := m.size
	for i := 0; i < 18; i++ {
		a := size - 11 + i%3
		b := i / 3
		if m.Get(b, a) {
			bits |= 1 << uint(i)
		}
	}
	return bits
}

// PlaceCodewords writes data's bits into the non-function modules of the
// matrix following ISO/IEC 18004's zig-zag scan: two-module-wide column
// pairs sweeping bottom-to-top then top-to-bottom, right to left, skipping
// the vertical timing column. DrawFunctionPatterns must be called first so
// this method knows which modules to skip.
func (m *Matrix) PlaceCodewords(data []byte) {
	var bitIndex int
	totalBits := len(data) * 8
	right := m.size - 1
	for right >= 1 {
		if right == 6 {
			right = 5
		}
		for vert := 0; vert < m.size; vert++ {
			for j := 0; j < 2; j++ {
				x := right - j
				upward := (right+1)&2 == 0
				var y int
				if upward {
					y = m.size - 1 - vert
				} else {
					y = vert
				}
				if !m.IsFunction(x, y) && bitIndex < totalBits {
					bit := (data[bitIndex>>3] >> uint(7-(bitIndex&7))) & 1
					m.Set(x, y, bit != 0)
					bitIndex++
				}
			}
		}
		right -= 2
	}
}

// FromExternal builds a Matrix for version whose modules are populated by
// calling get(x,y) for every coordinate, rather than by PlaceCodewords. The
// function-module mask is still derived the normal way (DrawFunctionPatterns
// first computes which coordinates are finders/timing/alignment/format/
// version, ignoring get's values for those positions), so IsFunction
// reflects the symbol's nominal structure even when get's source is a
// decoded image that may have noise or corruption at those coordinates.
// Its caller, internal/imaging.Load (used by the analyzer, noise, and diff
// tools), hands it a thresholded module grid; this package never touches
// pixels itself.
func FromExternal(version int, get func(x, y int) bool) *Matrix {
	m := New(version)
	m.DrawFunctionPatterns(version)
	size := m.size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			m.Set(x, y, get(x, y))
		}
	}
	return m
}

// Modules returns a row-major snapshot of every module's color, including
// function modules, for callers that need to rasterize or diff a matrix
// without reaching into its internals.
func (m *Matrix) Modules() [][]bool {
	out := make([][]bool, m.size)
	for y := 0; y < m.size; y++ {
		row := make([]bool, m.size)
		for x := 0; x < m.size; x++ {
			row[x] = m.Get(x, y)
		}
		out[y] = row
	}
	return out
}

// ReadCodewords reads numBytes bytes' worth of bits from the non-function
// modules, in the same zig-zag order PlaceCodewords writes them.
func (m *Matrix) ReadCodewords(numBytes int) ([]byte, error) {
	out := make([]byte, numBytes)
	var bitIndex int
	totalBits := numBytes * 8

	right := m.size - 1
	for right >= 1 {
		if right == 6 {
			right = 5
		}
		for vert := 0; vert < m.size; vert++ {
			for j := 0; j < 2; j++ {
				x := right - j
				upward := (right+1)&2 == 0
				var y int
				if upward {
					y = m.size - 1 - vert
				} else {
					y = vert
				}
				if !m.IsFunction(x, y) && bitIndex < totalBits {
					if m.Get(x, y) {
						out[bitIndex>>3] |= 1 << uint(7-(bitIndex&7))
					}
					bitIndex++
				}
			}
		}
		right -= 2
	}

	if bitIndex < totalBits {
		return nil, fmt.Errorf("qrmatrix: symbol has only %d data-area bits, need %d", bitIndex, totalBits)
	}
	return out, nil
}
