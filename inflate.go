package main

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// --- zlib helpers ---

// zlibReaderPool holds readers that have already seen one stream; a fresh
// reader needs a valid header to be constructed, so the pool has no New.
var zlibReaderPool sync.Pool

// inflate decompresses a zlib-wrapped deflate stream. Header, deflate and
// Adler-32 failures are all reported as CorruptDataError.
func inflate(data []byte) ([]byte, error) {
	src := bytes.NewReader(data)

	var zr io.ReadCloser
	if pooled, ok := zlibReaderPool.Get().(io.ReadCloser); ok {
		if err := pooled.(zlib.Resetter).Reset(src, nil); err != nil {
			return nil, CorruptDataError("zlib: " + err.Error())
		}
		zr = pooled
	} else {
		r, err := zlib.NewReader(src)
		if err != nil {
			return nil, CorruptDataError("zlib: " + err.Error())
		}
		zr = r
	}

	plain, err := io.ReadAll(zr)
	if err != nil {
		return nil, CorruptDataError("zlib: " + err.Error())
	}
	if err := zr.Close(); err != nil {
		return nil, CorruptDataError("zlib: " + err.Error())
	}
	zlibReaderPool.Put(zr)
	return plain, nil
}
