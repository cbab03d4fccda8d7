package main

// Fallback character cell size when the terminal does not report pixels.
const (
	defaultCellWidth  = 8
	defaultCellHeight = 16
)

// Geometry describes the controlling terminal: its size in character cells and,
// when the terminal reports it, the window size in pixels.
type Geometry struct {
	Cols        int
	Rows        int
	PixelWidth  int
	PixelHeight int
}

// CellSize returns the pixel size of one character cell, falling back to
// 8x16 when the pixel dimensions are unknown.
func (g Geometry) CellSize() (w, h int) {
	if g.Cols > 0 && g.Rows > 0 && g.PixelWidth > 0 && g.PixelHeight > 0 {
		w, h = g.PixelWidth/g.Cols, g.PixelHeight/g.Rows
		if w > 0 && h > 0 {
			return w, h
		}
	}
	return defaultCellWidth, defaultCellHeight
}

// fitSize returns the output size for an w x h image. budget overrides the
// terminal-derived pixel width when positive; with no budget and no terminal
// the size is left alone. Images are only ever scaled down, keeping the
// aspect ratio.
func fitSize(w, h int, geo Geometry, haveGeo bool, budget int) (int, int) {
	if budget <= 0 {
		if !haveGeo || geo.Cols <= 0 {
			return w, h
		}
		cellW, _ := geo.CellSize()
		budget = geo.Cols * cellW
	}
	if w <= budget {
		return w, h
	}
	scale := float32(budget) / float32(w)
	nh := int(float32(h) * scale)
	if nh < 1 {
		nh = 1
	}
	return budget, nh
}

// resample scales src to w x h by nearest neighbour: output pixel (x, y) is
// taken from input pixel (x*oldW/w, y*oldH/h). The same raster is returned when
// the size does not change. Rows are distributed over workers.
func resample(src *Raster, w, h, workers int) *Raster {
	if w == src.Width && h == src.Height {
		return src
	}
	dst := NewRaster(w, h)

	xmap := make([]int, w)
	for x := range xmap {
		xmap[x] = x * src.Width / w * 4
	}

	parallelStripes(h, workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			srow := src.Pix[(y*src.Height/h)*src.Stride:]
			drow := dst.Pix[y*dst.Stride : (y+1)*dst.Stride]
			for x, sx := range xmap {
				copy(drow[x*4:x*4+4], srow[sx:sx+4])
			}
		}
	})
	return dst
}
