package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/color"
	"io"
	"math"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

// Color types accepted in IHDR.
const (
	ctTrueColor      = 2
	ctTrueColorAlpha = 6
)

const (
	maxChunkLen = 1<<31 - 1
	ihdrLen     = 13
)

// Header holds the IHDR fields.
type Header struct {
	Width             int
	Height            int
	BitDepth          byte
	ColorType         byte
	CompressionMethod byte
	FilterMethod      byte
	InterlaceMethod   byte
}

// bytesPerPixel returns the number of bytes one pixel occupies in a scanline.
func (h Header) bytesPerPixel() int {
	if h.ColorType == ctTrueColor {
		return 3
	}
	return 4
}

func (h Header) colorModel() color.Model {
	if h.ColorType == ctTrueColor {
		return color.RGBAModel
	}
	return color.NRGBAModel
}

// rowBytes is the filtered scanline length without the leading filter byte.
func (h Header) rowBytes() int {
	return h.Width * h.bytesPerPixel()
}

type chunkReader struct {
	r   io.Reader
	tmp [8]byte
}

// next reads the length and type of the next chunk. want names the chunk that
// is still required, for the error returned when the input ends cleanly here.
func (cr *chunkReader) next(want string) (uint32, string, error) {
	if _, err := io.ReadFull(cr.r, cr.tmp[:8]); err != nil {
		switch err {
		case io.EOF:
			return 0, "", StructureError("missing " + want + " chunk")
		case io.ErrUnexpectedEOF:
			return 0, "", TruncatedError("chunk header")
		}
		return 0, "", err
	}
	n := binary.BigEndian.Uint32(cr.tmp[:4])
	if n > maxChunkLen {
		return 0, "", FormatError(fmt.Sprintf("chunk length %d out of range", n))
	}
	return n, string(cr.tmp[4:8]), nil
}

// payload appends the chunk payload of length n to dst and consumes the CRC.
// The payload is copied rather than preallocated so that a bogus length on a
// short file fails with TruncatedError instead of a huge allocation.
func (cr *chunkReader) payload(dst *bytes.Buffer, name string, n uint32) error {
	if got, err := io.CopyN(dst, cr.r, int64(n)); err != nil {
		if err == io.EOF {
			return TruncatedError(fmt.Sprintf("%s chunk: got %d of %d bytes", name, got, n))
		}
		return err
	}
	return cr.skip(name, 0)
}

// skip discards n payload bytes plus the 4-byte CRC trailer.
func (cr *chunkReader) skip(name string, n uint32) error {
	want := int64(n) + 4
	if got, err := io.CopyN(io.Discard, cr.r, want); err != nil {
		if err == io.EOF {
			return TruncatedError(fmt.Sprintf("%s chunk: got %d of %d bytes", name, got, want))
		}
		return err
	}
	return nil
}

// readHeader checks the signature and parses the mandatory leading IHDR.
func readHeader(cr *chunkReader) (Header, error) {
	var sig [len(pngSignature)]byte
	if _, err := io.ReadFull(cr.r, sig[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Header{}, FormatError("not a PNG file")
		}
		return Header{}, err
	}
	if string(sig[:]) != pngSignature {
		return Header{}, FormatError("not a PNG file")
	}

	n, name, err := cr.next("IHDR")
	if err != nil {
		return Header{}, err
	}
	if name != "IHDR" {
		return Header{}, StructureError("first chunk is " + name + ", want IHDR")
	}
	if n != ihdrLen {
		return Header{}, StructureError(fmt.Sprintf("IHDR length %d, want %d", n, ihdrLen))
	}
	var buf bytes.Buffer
	if err := cr.payload(&buf, name, n); err != nil {
		return Header{}, err
	}
	return parseIHDR(buf.Bytes())
}

func parseIHDR(b []byte) (Header, error) {
	w := binary.BigEndian.Uint32(b[0:4])
	h := binary.BigEndian.Uint32(b[4:8])
	if w == 0 || h == 0 || w > maxChunkLen || h > maxChunkLen {
		return Header{}, FormatError(fmt.Sprintf("invalid dimensions %dx%d", w, h))
	}
	hdr := Header{
		Width:             int(w),
		Height:            int(h),
		BitDepth:          b[8],
		ColorType:         b[9],
		CompressionMethod: b[10],
		FilterMethod:      b[11],
		InterlaceMethod:   b[12],
	}
	if hdr.BitDepth != 8 {
		return Header{}, UnsupportedError(fmt.Sprintf("bit depth %d", hdr.BitDepth))
	}
	if hdr.ColorType != ctTrueColor && hdr.ColorType != ctTrueColorAlpha {
		return Header{}, UnsupportedError(fmt.Sprintf("color type %d", hdr.ColorType))
	}
	if hdr.CompressionMethod != 0 {
		return Header{}, UnsupportedError(fmt.Sprintf("compression method %d", hdr.CompressionMethod))
	}
	if hdr.FilterMethod != 0 {
		return Header{}, UnsupportedError(fmt.Sprintf("filter method %d", hdr.FilterMethod))
	}
	if hdr.InterlaceMethod != 0 {
		return Header{}, UnsupportedError("interlaced images")
	}
	// The RGBA output buffer and the filtered stream must both be addressable.
	if uint64(w)*uint64(h) > uint64(math.MaxInt/4)-uint64(h) {
		return Header{}, UnsupportedError(fmt.Sprintf("image too large (%dx%d)", w, h))
	}
	return hdr, nil
}

// parseContainer reads a PNG chunk stream and returns its header together with
// the concatenated IDAT payload. Ancillary chunks are skipped.
func parseContainer(r io.Reader) (Header, []byte, error) {
	cr := &chunkReader{r: r}
	hdr, err := readHeader(cr)
	if err != nil {
		return Header{}, nil, err
	}

	var idat bytes.Buffer
	seenData := false
	for {
		n, name, err := cr.next("IEND")
		if err != nil {
			return Header{}, nil, err
		}
		switch name {
		case "IDAT":
			seenData = true
			if err := cr.payload(&idat, name, n); err != nil {
				return Header{}, nil, err
			}
		case "IHDR":
			return Header{}, nil, StructureError("duplicate IHDR chunk")
		case "IEND":
			if !seenData {
				return Header{}, nil, StructureError("no IDAT chunk before IEND")
			}
			if err := cr.skip(name, n); err != nil {
				return Header{}, nil, err
			}
			return hdr, idat.Bytes(), nil
		default:
			if err := cr.skip(name, n); err != nil {
				return Header{}, nil, err
			}
		}
	}
}
