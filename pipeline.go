package main

import (
	"bytes"
	"io"
	"time"

	"github.com/juju/errors"
)

// Options configures one render.
type Options struct {
	// Policy selects direct rounding or Floyd-Steinberg dithering.
	Policy Policy
	// Workers bounds the goroutines used by the parallel stages; 0 means one
	// per CPU.
	Workers int
	// MaxWidth overrides the terminal-derived pixel width budget when > 0.
	MaxWidth int
	// SavePath, when set, also writes the finished stream to this file.
	SavePath string

	// geometry reports the terminal size; nil means queryGeometry.
	geometry func() (Geometry, bool)
}

// render runs the whole pipeline: decode, fit to the terminal, quantize and
// encode. The stream is assembled in memory and written to out with a single
// Write, so a failure at any stage leaves out untouched.
func render(opts Options, in io.Reader, out io.Writer) error {
	start := time.Now()
	img, err := Decode(in)
	if err != nil {
		return errors.Annotate(err, "decode")
	}
	log.Debugf("decoded %dx%d in %v", img.Width, img.Height, time.Since(start))

	geometry := opts.geometry
	if geometry == nil {
		geometry = queryGeometry
	}
	geo, ok := geometry()
	if ok {
		cw, ch := geo.CellSize()
		log.Debugf("terminal %dx%d cells, cell %dx%d px", geo.Cols, geo.Rows, cw, ch)
	}
	w, h := fitSize(img.Width, img.Height, geo, ok, opts.MaxWidth)

	t := time.Now()
	img = resample(img, w, h, opts.Workers)
	log.Debugf("resampled to %dx%d in %v", w, h, time.Since(t))

	pal := NewPalette()

	// Diffusion is sequential; it completes before encoding starts.
	t = time.Now()
	img = quantize(img, pal, opts.Policy, opts.Workers)
	log.Debugf("quantized (%v) in %v", opts.Policy, time.Since(t))

	t = time.Now()
	var stream bytes.Buffer
	if err := NewEncoder(pal, opts.Workers).Encode(&stream, img); err != nil {
		return errors.Annotate(err, "encode")
	}
	log.Debugf("encoded %d bytes in %v", stream.Len(), time.Since(t))

	if opts.SavePath != "" {
		if err := saveStream(opts.SavePath, stream.Bytes()); err != nil {
			return errors.Trace(err)
		}
	}

	if _, err := out.Write(stream.Bytes()); err != nil {
		return errors.Annotate(err, "write")
	}
	log.Debugf("total %v", time.Since(start))
	return nil
}
