package main

import (
	"os"
	"strings"
	"sync"

	"github.com/juju/errors"
	"github.com/klauspost/compress/zstd"
)

// streamEncoders holds zstd encoders for saved streams. Sixel output is
// highly repetitive, so the slower "better compression" level pays off.
var streamEncoders sync.Pool

func compressStream(stream []byte) ([]byte, error) {
	enc, ok := streamEncoders.Get().(*zstd.Encoder)
	if !ok {
		var err error
		enc, err = zstd.NewWriter(nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		)
		if err != nil {
			return nil, errors.Annotate(err, "zstd encoder")
		}
	}
	defer streamEncoders.Put(enc)
	return enc.EncodeAll(stream, nil), nil
}

// saveStream writes a finished sixel stream to path so it can be replayed
// later with cat (or zstdcat for a ".zst" path).
func saveStream(path string, stream []byte) error {
	data := stream
	if strings.HasSuffix(strings.ToLower(path), ".zst") {
		var err error
		if data, err = compressStream(stream); err != nil {
			return errors.Trace(err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Annotatef(err, "save %s", path)
	}
	log.Debugf("saved %d bytes to %s", len(data), path)
	return nil
}
