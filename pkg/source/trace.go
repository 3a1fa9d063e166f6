package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression identifies how a trace file was stored on disk.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Trace is a trace file held fully in memory.
type Trace struct {
	Path        string
	Data        []byte
	Compression Compression
}

// ReadTrace reads a trace file, decompressing gzip or zstd content
// detected by its magic bytes.
func ReadTrace(ctx context.Context, path string) (*Trace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("reading trace file %s: %w", path, err)
	}

	data, comp, err := Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}

	return &Trace{Path: path, Data: data, Compression: comp}, nil
}

// Decompress returns raw unchanged unless it starts with a gzip or zstd
// header, in which case the decoded content is returned.
func Decompress(raw []byte) ([]byte, Compression, error) {
	switch {
	case bytes.HasPrefix(raw, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, CompressionGzip, err
		}
		defer zr.Close()
		data, err := io.ReadAll(zr)
		if err != nil {
			return nil, CompressionGzip, err
		}
		return data, CompressionGzip, nil

	case bytes.HasPrefix(raw, zstdMagic):
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, CompressionZstd, err
		}
		defer dec.Close()
		data, err := dec.DecodeAll(raw, nil)
		if err != nil {
			return nil, CompressionZstd, err
		}
		return data, CompressionZstd, nil

	default:
		return raw, CompressionNone, nil
	}
}
