// Package interleave splits data codewords into Reed-Solomon blocks,
// attaches parity, and weaves blocks together in the column-sweep order
// ISO/IEC 18004 specifies, so that physical damage concentrated in one
// area of the symbol spreads its effect across every block instead of
// destroying one block outright.
package interleave

import (
	"fmt"

	"github.com/jalphad/qrcodec/internal/qrparams"
	"github.com/jalphad/qrcodec/internal/rs"
)

// Split partitions data into layout.NumBlocks chunks, short blocks first,
// matching the order blocks are read off the wire.
func Split(data []byte, layout qrparams.BlockLayout) ([][]byte, error) {
	if len(data) != layout.DataCodewords {
		return nil, fmt.Errorf("interleave: data has %d codewords, layout expects %d", len(data), layout.DataCodewords)
	}
	blocks := make([][]byte, layout.NumBlocks)
	offset := 0
	for i := 0; i < layout.NumBlocks; i++ {
		n := layout.ShortBlockData
		if i >= layout.NumShortBlocks {
			n = layout.LongBlockData
		}
		blocks[i] = data[offset : offset+n]
		offset += n
	}
	return blocks, nil
}

// EncodeBlocks appends Reed-Solomon parity to each data block and
// interleaves the result (data codewords column-swept, then parity
// codewords column-swept, then any trailing remainder bits belong to the
// caller to append separately).
func EncodeBlocks(dataBlocks [][]byte, layout qrparams.BlockLayout) []byte {
	parityBlocks := make([][]byte, len(dataBlocks))
	for i, block := range dataBlocks {
		parityBlocks[i] = rs.Encode(block, layout.ECCPerBlock)
	}

	result := make([]byte, 0, layout.TotalCodewords)
	maxDataLen := layout.LongBlockData
	for i := 0; i < maxDataLen; i++ {
		for _, block := range dataBlocks {
			if i < len(block) {
				result = append(result, block[i])
			}
		}
	}
	for i := 0; i < layout.ECCPerBlock; i++ {
		for _, block := range parityBlocks {
			result = append(result, block[i])
		}
	}
	return result
}

// Deinterleave reverses the column-sweep: it splits raw codewords (data
// then parity, as read straight off the module grid) back into per-block
// byte slices of length ShortBlockData/LongBlockData+ECCPerBlock.
func Deinterleave(raw []byte, layout qrparams.BlockLayout) ([][]byte, error) {
	if len(raw) != layout.TotalCodewords {
		return nil, fmt.Errorf("interleave: raw codewords has %d bytes, layout expects %d", len(raw), layout.TotalCodewords)
	}

	blocks := make([][]byte, layout.NumBlocks)
	for i := range blocks {
		n := layout.ShortBlockData
		if i >= layout.NumShortBlocks {
			n = layout.LongBlockData
		}
		blocks[i] = make([]byte, n+layout.ECCPerBlock)
	}

	idx := 0
	maxDataLen := layout.LongBlockData
	for i := 0; i < maxDataLen; i++ {
		for j := range blocks {
			dataLen := len(blocks[j]) - layout.ECCPerBlock
			if i < dataLen {
				blocks[j][i] = raw[idx]
				idx++
			}
		}
	}
	for i := 0; i < layout.ECCPerBlock; i++ {
		for j := range blocks {
			dataLen := len(blocks[j]) - layout.ECCPerBlock
			blocks[j][dataLen+i] = raw[idx]
			idx++
		}
	}
	return blocks, nil
}

// BlockResult records one block's Reed-Solomon correction outcome.
type BlockResult struct {
	DataCodewords   int
	ECCCodewords    int
	ErrorsCorrected int
	Err             error // non-nil if the block exceeded correction capacity
}

// DecodeBlocks runs Reed-Solomon correction on each deinterleaved block and
// concatenates the data codewords back into one stream. A block that fails
// correction contributes its uncorrected data codewords and a non-nil Err
// in its BlockResult; the remaining blocks are still decoded, so the
// caller gets a best-effort stream plus every block's outcome. If any
// block failed, the returned error wraps rs.ErrUncorrectable and names the
// first failed block.
func DecodeBlocks(blocks [][]byte, layout qrparams.BlockLayout) (data []byte, results []BlockResult, err error) {
	data = make([]byte, 0, layout.DataCodewords)
	results = make([]BlockResult, len(blocks))
	for i, block := range blocks {
		dataLen := len(block) - layout.ECCPerBlock
		results[i] = BlockResult{DataCodewords: dataLen, ECCCodewords: layout.ECCPerBlock}
		corrected, numErrors, decErr := rs.Decode(block, layout.ECCPerBlock)
		if decErr != nil {
			results[i].Err = decErr
			data = append(data, block[:dataLen]...)
			if err == nil {
				err = fmt.Errorf("interleave: block %d: %w", i, decErr)
			}
			continue
		}
		results[i].ErrorsCorrected = numErrors
		data = append(data, corrected...)
	}
	return data, results, err
}
