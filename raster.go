package main

import (
	"image"
	"io"
)

// Raster is a row-major, non-premultiplied RGBA pixel buffer. Each pipeline
// stage either returns its input unchanged or a freshly allocated Raster;
// buffers are never shared between concurrently running stages.
type Raster struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NewRaster allocates a zeroed w x h raster.
func NewRaster(w, h int) *Raster {
	return &Raster{
		Width:  w,
		Height: h,
		Stride: w * 4,
		Pix:    make([]byte, w*h*4),
	}
}

// Decode reads an 8-bit RGB or RGBA PNG from r.
func Decode(r io.Reader) (*Raster, error) {
	hdr, payload, err := parseContainer(r)
	if err != nil {
		return nil, err
	}
	plain, err := inflate(payload)
	if err != nil {
		return nil, err
	}
	return reconstruct(hdr, plain)
}

// DecodeConfig returns the dimensions of a PNG image without reading its
// pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	hdr, err := readHeader(&chunkReader{r: r})
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		Width:      hdr.Width,
		Height:     hdr.Height,
		ColorModel: hdr.colorModel(),
	}, nil
}
