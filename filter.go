package main

import "fmt"

// Scanline filter types.
const (
	ftNone    = 0
	ftSub     = 1
	ftUp      = 2
	ftAverage = 3
	ftPaeth   = 4
)

// paeth implements the Paeth predictor: the neighbour closest to a+b-c,
// ties resolved in the order a (left), b (above), c (upper left).
func paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// unfilterRow reverses one scanline in place. prev is the previous
// reconstructed row (all zeros for the first row) and bpp the distance to the
// left neighbour in bytes. It reports false for an unknown filter type.
func unfilterRow(ft byte, cur, prev []byte, bpp int) bool {
	switch ft {
	case ftNone:
	case ftSub:
		for i := bpp; i < len(cur); i++ {
			cur[i] += cur[i-bpp]
		}
	case ftUp:
		for i, p := range prev {
			cur[i] += p
		}
	case ftAverage:
		for i := 0; i < bpp; i++ {
			cur[i] += prev[i] / 2
		}
		for i := bpp; i < len(cur); i++ {
			cur[i] += uint8((int(cur[i-bpp]) + int(prev[i])) / 2)
		}
	case ftPaeth:
		for i := 0; i < bpp; i++ {
			cur[i] += paeth(0, prev[i], 0)
		}
		for i := bpp; i < len(cur); i++ {
			cur[i] += paeth(cur[i-bpp], prev[i], prev[i-bpp])
		}
	default:
		return false
	}
	return true
}

// reconstruct reverses the per-row filters of a decompressed IDAT stream and
// returns the pixels as RGBA. Rows depend on the previous reconstructed row,
// so they are processed strictly top to bottom.
func reconstruct(h Header, data []byte) (*Raster, error) {
	bpp := h.bytesPerPixel()
	rowLen := h.rowBytes()
	if want := h.Height * (rowLen + 1); len(data) != want {
		return nil, CorruptDataError(fmt.Sprintf("scanline data is %d bytes, want %d", len(data), want))
	}

	dst := NewRaster(h.Width, h.Height)
	prev := make([]byte, rowLen)
	cur := make([]byte, rowLen)
	for y := 0; y < h.Height; y++ {
		row := data[y*(rowLen+1) : (y+1)*(rowLen+1)]
		copy(cur, row[1:])
		if !unfilterRow(row[0], cur, prev, bpp) {
			return nil, CorruptDataError(fmt.Sprintf("row %d: unknown filter type %d", y, row[0]))
		}

		out := dst.Pix[y*dst.Stride : (y+1)*dst.Stride]
		if bpp == 4 {
			copy(out, cur)
		} else {
			for x, s := 0, 0; x < h.Width; x, s = x+1, s+3 {
				o := x * 4
				out[o+0] = cur[s+0]
				out[o+1] = cur[s+1]
				out[o+2] = cur[s+2]
				out[o+3] = 0xff
			}
		}
		prev, cur = cur, prev
	}
	return dst, nil
}
