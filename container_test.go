package main

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"testing"
)

func TestParseContainer_SkipsAncillaryAndJoinsIDAT(t *testing.T) {
	raw, stream := filterImage(3, 2, 4, func(y int) byte { return ftUp })
	z := zlibBytes(t, stream)

	var buf bytes.Buffer
	buf.WriteString(pngSignature)
	writeChunk(&buf, "IHDR", ihdrPayload(3, 2, 8, ctTrueColorAlpha, 0))
	writeChunk(&buf, "gAMA", []byte{0, 1, 0x86, 0xa0})
	writeChunk(&buf, "IDAT", z[:5])
	writeChunk(&buf, "tEXt", []byte("Comment\x00split idat"))
	writeChunk(&buf, "IDAT", z[5:])
	writeChunk(&buf, "IEND", nil)

	hdr, payload, err := parseContainer(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("parseContainer: %v", err)
	}
	if hdr.Width != 3 || hdr.Height != 2 || hdr.ColorType != ctTrueColorAlpha {
		t.Fatalf("header = %+v", hdr)
	}
	if !bytes.Equal(payload, z) {
		t.Fatalf("IDAT payload not concatenated in order")
	}

	img, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(img.Pix, raw) {
		t.Fatalf("pixels differ")
	}
}

func TestParseContainer_Errors(t *testing.T) {
	scan := make([]byte, 2*(2*4+1))
	valid := buildPNG(t, 2, 2, ctTrueColorAlpha, scan)

	withChunks := func(chunks ...func(*bytes.Buffer)) []byte {
		var buf bytes.Buffer
		buf.WriteString(pngSignature)
		for _, c := range chunks {
			c(&buf)
		}
		return buf.Bytes()
	}
	chunk := func(name string, data []byte) func(*bytes.Buffer) {
		return func(buf *bytes.Buffer) { writeChunk(buf, name, data) }
	}
	ihdr := func(bitDepth, colorType, interlace byte) func(*bytes.Buffer) {
		return chunk("IHDR", ihdrPayload(2, 2, bitDepth, colorType, interlace))
	}
	idat := chunk("IDAT", zlibBytes(t, scan))
	iend := chunk("IEND", nil)

	hugeLen := append([]byte(nil), valid[:33]...)
	hugeLen = binary.BigEndian.AppendUint32(hugeLen, 0x80000000)
	hugeLen = append(hugeLen, "IDAT"...)

	lyingLen := append([]byte(nil), valid[:33]...)
	lyingLen = binary.BigEndian.AppendUint32(lyingLen, 1<<30)
	lyingLen = append(lyingLen, "IDAT"...)
	lyingLen = append(lyingLen, 1, 2, 3)

	for _, tc := range []struct {
		name  string
		input []byte
		want  string
	}{
		{"empty", nil, "format"},
		{"bad_signature", append([]byte("\x89PNX\r\n\x1a\n"), valid[8:]...), "format"},
		{"first_chunk_not_ihdr", withChunks(idat, ihdr(8, 6, 0), iend), "structure"},
		{"duplicate_ihdr", withChunks(ihdr(8, 6, 0), ihdr(8, 6, 0), idat, iend), "structure"},
		{"no_idat", withChunks(ihdr(8, 6, 0), iend), "structure"},
		{"signature_only", []byte(pngSignature), "structure"},
		{"ihdr_wrong_length", withChunks(chunk("IHDR", ihdrPayload(2, 2, 8, 6, 0)[:12]), idat, iend), "structure"},
		{"missing_iend", valid[:len(valid)-12], "structure"},
		{"partial_chunk_header", valid[:len(valid)-8], "truncated"},
		{"truncated_crc", valid[:len(valid)-2], "truncated"},
		{"truncated_ihdr", valid[:20], "truncated"},
		{"chunk_length_out_of_range", hugeLen, "format"},
		{"chunk_length_past_eof", lyingLen, "truncated"},
		{"zero_width", withChunks(chunk("IHDR", ihdrPayload(0, 2, 8, 6, 0)), idat, iend), "format"},
		{"bit_depth_16", withChunks(ihdr(16, 6, 0), idat, iend), "unsupported"},
		{"grayscale", withChunks(ihdr(8, 0, 0), idat, iend), "unsupported"},
		{"palette", withChunks(ihdr(8, 3, 0), idat, iend), "unsupported"},
		{"interlaced", withChunks(ihdr(8, 6, 1), idat, iend), "unsupported"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := parseContainer(bytes.NewReader(tc.input))
			var got string
			switch err.(type) {
			case FormatError:
				got = "format"
			case StructureError:
				got = "structure"
			case TruncatedError:
				got = "truncated"
			case UnsupportedError:
				got = "unsupported"
			}
			if got != tc.want {
				t.Fatalf("got %T (%v), want %s error", err, err, tc.want)
			}
		})
	}
}

func TestDecode_CorruptCompressedData(t *testing.T) {
	scan := make([]byte, 2*(2*4+1))
	z := zlibBytes(t, scan)

	badChecksum := append([]byte(nil), z...)
	badChecksum[len(badChecksum)-1] ^= 0xff

	for _, tc := range []struct {
		name string
		idat []byte
	}{
		{"bad_header", []byte{0x00, 0x00, 0x01, 0x02}},
		{"bad_checksum", badChecksum},
		{"truncated_stream", z[:len(z)-6]},
		{"wrong_size", zlibBytes(t, scan[:len(scan)-1])},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			buf.WriteString(pngSignature)
			writeChunk(&buf, "IHDR", ihdrPayload(2, 2, 8, ctTrueColorAlpha, 0))
			writeChunk(&buf, "IDAT", tc.idat)
			writeChunk(&buf, "IEND", nil)

			_, err := Decode(&buf)
			if _, ok := err.(CorruptDataError); !ok {
				t.Fatalf("got %T (%v), want CorruptDataError", err, err)
			}
		})
	}
}

func TestDecodeConfig(t *testing.T) {
	for _, tc := range []struct {
		colorType byte
		model     color.Model
	}{
		{ctTrueColorAlpha, color.NRGBAModel},
		{ctTrueColor, color.RGBAModel},
	} {
		data := buildPNG(t, 5, 3, tc.colorType, make([]byte, 3*(5*4+1)))
		cfg, err := DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("DecodeConfig: %v", err)
		}
		if cfg.Width != 5 || cfg.Height != 3 || cfg.ColorModel != tc.model {
			t.Fatalf("config = %+v", cfg)
		}
	}
}
