package main

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// decompressors maps the values of --decompress to stream constructors.
var decompressors = map[string]func(src io.Reader) (io.ReadCloser, error){
	"gzip": decompressGzipStream,
	"zlib": decompressZlibStream,
	"zstd": decompressZstdStream,
}

func decompressGzipStream(src io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(src)
}

func decompressZlibStream(src io.Reader) (io.ReadCloser, error) {
	return zlib.NewReader(src)
}

func decompressZstdStream(src io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

// decode applies the named decompression to the extracted configuration.
// "none" (or an empty name) returns the data unchanged.
func decode(algorithm string, data []byte) ([]byte, error) {
	if algorithm == "" || algorithm == "none" {
		return data, nil
	}
	newStream, ok := decompressors[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported decompression %q", algorithm)
	}

	r, err := newStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", algorithm, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", algorithm, err)
	}
	return out, nil
}
