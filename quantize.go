package main

import (
	"fmt"
	"math"
)

// Policy selects how true-colour pixels are reduced to the palette.
type Policy int

const (
	// PolicyDirect rounds every channel independently.
	PolicyDirect Policy = iota
	// PolicyDiffuse applies Floyd-Steinberg error diffusion.
	PolicyDiffuse
)

func (p Policy) String() string {
	switch p {
	case PolicyDirect:
		return "direct"
	case PolicyDiffuse:
		return "floyd-steinberg"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// quantize returns a new raster whose colours are all palette entries. Alpha
// is copied unchanged. PolicyDiffuse runs on a single goroutine and has
// finished when quantize returns.
func quantize(src *Raster, pal *Palette, policy Policy, workers int) *Raster {
	dst := NewRaster(src.Width, src.Height)
	if policy == PolicyDiffuse {
		diffuse(src, dst, pal)
		return dst
	}
	parallelStripes(src.Height, workers, func(y0, y1 int) {
		quantizeRows(src, dst, pal, y0, y1)
	})
	return dst
}

func quantizeRows(src, dst *Raster, pal *Palette, y0, y1 int) {
	for y := y0; y < y1; y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+src.Width*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+dst.Width*4]
		for i := 0; i < len(s); i += 4 {
			e := pal.Entry(pal.Index(s[i], s[i+1], s[i+2]))
			d[i+0] = e.R
			d[i+1] = e.G
			d[i+2] = e.B
			d[i+3] = s[i+3]
		}
	}
}

// Floyd-Steinberg weights.
const (
	fsRight      = 7.0 / 16
	fsBelowLeft  = 3.0 / 16
	fsBelow      = 5.0 / 16
	fsBelowRight = 1.0 / 16
)

// errorAccumulator holds per-channel residuals for height rows of width+2
// cells; column x of the image lives at cell x+1 so the left and right pads
// absorb (and drop) error pushed past the image edges.
type errorAccumulator struct {
	width int
	cells [][3]float32
}

func newErrorAccumulator(w, h int) *errorAccumulator {
	return &errorAccumulator{width: w + 2, cells: make([][3]float32, (w+2)*h)}
}

func (a *errorAccumulator) at(x, y int) *[3]float32 {
	return &a.cells[y*a.width+x+1]
}

func diffuse(src, dst *Raster, pal *Palette) {
	w, h := src.Width, src.Height
	acc := newErrorAccumulator(w, h)
	levels := [3]int{redLevels, greenLevels, blueLevels}

	for y := 0; y < h; y++ {
		lastRow := y == h-1
		for x := 0; x < w; x++ {
			o := y*src.Stride + x*4
			carried := acc.at(x, y)

			var lv [3]int
			var residual [3]float32
			for c := 0; c < 3; c++ {
				v := float32(src.Pix[o+c]) + carried[c]
				lv[c] = quantizeFloat(v, levels[c])
				residual[c] = v - float32(levelValue(lv[c], levels[c]))
			}

			e := pal.Entry(lv[0]<<5 | lv[1]<<2 | lv[2])
			dst.Pix[o+0] = e.R
			dst.Pix[o+1] = e.G
			dst.Pix[o+2] = e.B
			dst.Pix[o+3] = src.Pix[o+3]

			acc.spread(x, y, residual, lastRow)
		}
	}
}

// spread distributes the residual of pixel (x, y) to its unvisited
// neighbours. Nothing is pushed below the last row; shares that fall off the
// left or right edge land in the pad columns and are never read.
func (a *errorAccumulator) spread(x, y int, residual [3]float32, lastRow bool) {
	right := a.at(x+1, y)
	for c := 0; c < 3; c++ {
		right[c] += residual[c] * fsRight
	}
	if lastRow {
		return
	}
	bl, b, br := a.at(x-1, y+1), a.at(x, y+1), a.at(x+1, y+1)
	for c := 0; c < 3; c++ {
		bl[c] += residual[c] * fsBelowLeft
		b[c] += residual[c] * fsBelow
		br[c] += residual[c] * fsBelowRight
	}
}

// quantizeFloat is quantizeLevel for an accumulated value, clamped to 0..255.
func quantizeFloat(v float32, levels int) int {
	if v < 0 {
		v = 0
	} else if v > 255 {
		v = 255
	}
	return int(math.Floor(float64(v)*float64(levels-1)/255 + 0.5))
}
