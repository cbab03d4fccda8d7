package main

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

const (
	sixelIntroducer = "\x1bPq"
	sixelTerminator = "\x1b\\"

	bandHeight = 6
	// Pixels with alpha at or below this are not drawn.
	alphaThreshold = 128
	// Runs longer than this are written as a repeat introducer.
	minRepeat = 4
)

// Encoder writes quantized rasters as DEC sixel streams. It holds no
// per-image state and is safe for concurrent use.
type Encoder struct {
	pal     *Palette
	workers int
}

// NewEncoder returns an encoder that splits bands over workers goroutines
// (0 means one per CPU).
func NewEncoder(pal *Palette, workers int) *Encoder {
	return &Encoder{pal: pal, workers: workers}
}

// encodedBand is one band's contribution to the stream together with the
// colour registers it selected.
type encodedBand struct {
	data []byte
	used [paletteSize]bool
}

// Encode writes the sixel stream for r. Bands are encoded concurrently into
// indexed slots and joined in row order, so the output does not depend on the
// number of workers.
func (e *Encoder) Encode(w io.Writer, r *Raster) error {
	nbands := (r.Height + bandHeight - 1) / bandHeight
	bands := make([]encodedBand, nbands)

	parallelStripes(nbands, e.workers, func(b0, b1 int) {
		var layers bandLayers
		for b := b0; b < b1; b++ {
			layers.reset(r.Width)
			e.encodeBand(&bands[b], &layers, r, b*bandHeight)
		}
	})

	var used [paletteSize]bool
	for i := range bands {
		for c, ok := range bands[i].used {
			used[c] = used[c] || ok
		}
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(sixelIntroducer)
	var num []byte
	for c, ok := range used {
		if !ok {
			continue
		}
		ent := e.pal.Entry(c)
		num = append(num[:0], '#')
		num = strconv.AppendInt(num, int64(c), 10)
		num = append(num, ";2;"...)
		num = strconv.AppendInt(num, int64(ent.PR), 10)
		num = append(num, ';')
		num = strconv.AppendInt(num, int64(ent.PG), 10)
		num = append(num, ';')
		num = strconv.AppendInt(num, int64(ent.PB), 10)
		bw.Write(num)
	}
	for i := range bands {
		bw.Write(bands[i].data)
	}
	bw.WriteString(sixelTerminator)
	return bw.Flush()
}

// bandLayers is the scratch bitmap of one band: for every palette index one
// byte per column with bit k set when row k of the band has that colour. It is
// owned by a single worker and reused between that worker's bands.
type bandLayers struct {
	width int
	bits  []byte
	any   [paletteSize]bool
}

func (l *bandLayers) reset(width int) {
	n := paletteSize * width
	if cap(l.bits) < n {
		l.bits = make([]byte, n)
	} else {
		l.bits = l.bits[:n]
		clear(l.bits)
	}
	l.width = width
	l.any = [paletteSize]bool{}
}

func (l *bandLayers) layer(c int) []byte {
	return l.bits[c*l.width : (c+1)*l.width]
}

func (e *Encoder) encodeBand(dst *encodedBand, layers *bandLayers, r *Raster, y0 int) {
	y1 := min(y0+bandHeight, r.Height)
	for y := y0; y < y1; y++ {
		bit := byte(1) << uint(y-y0)
		row := r.Pix[y*r.Stride:]
		for x := 0; x < r.Width; x++ {
			p := row[x*4 : x*4+4]
			if p[3] <= alphaThreshold {
				continue
			}
			c := e.pal.Index(p[0], p[1], p[2])
			layers.bits[c*layers.width+x] |= bit
			layers.any[c] = true
		}
	}

	var buf bytes.Buffer
	for c := 0; c < paletteSize; c++ {
		if !layers.any[c] {
			continue
		}
		dst.used[c] = true
		buf.WriteByte('#')
		buf.WriteString(strconv.Itoa(c))
		writeRuns(&buf, layers.layer(c))
		buf.WriteByte('$')
	}
	buf.WriteByte('-')
	dst.data = buf.Bytes()
}

// writeRuns writes one colour layer as sixel characters, folding runs of more
// than three equal characters into "!<count><char>".
func writeRuns(buf *bytes.Buffer, layer []byte) {
	for x := 0; x < len(layer); {
		v := layer[x]
		n := 1
		for x+n < len(layer) && layer[x+n] == v {
			n++
		}
		ch := v + 63
		if n >= minRepeat {
			buf.WriteByte('!')
			buf.WriteString(strconv.Itoa(n))
			buf.WriteByte(ch)
		} else {
			for i := 0; i < n; i++ {
				buf.WriteByte(ch)
			}
		}
		x += n
	}
}
