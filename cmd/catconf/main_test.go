package main

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeExe(t *testing.T, parts ...[]byte) string {
	path := filepath.Join(t.TempDir(), "app")
	require.NoError(t, os.WriteFile(path, bytes.Join(parts, nil), 0o755))
	return path
}

func TestRun(t *testing.T) {
	path := writeExe(t, []byte("HELLO"), []byte(defaultMarker), []byte("key=value"))

	for _, stream := range []bool{false, true} {
		out := new(bytes.Buffer)
		code := run(CLI{File: path, Marker: defaultMarker, Decompress: "none", Stream: stream}, out, discard)
		assert.Equal(t, exitOK, code)
		assert.Equal(t, "key=value", out.String())
	}
}

func TestRun_hexMarker(t *testing.T) {
	path := writeExe(t, []byte("exe"), []byte{0xca, 0xfe, 0x00}, []byte("conf"))

	out := new(bytes.Buffer)
	code := run(CLI{File: path, Marker: "cafe00", Hex: true}, out, discard)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "conf", out.String())

	code = run(CLI{File: path, Marker: "not hex", Hex: true}, out, discard)
	assert.Equal(t, exitFailure, code)
}

func TestRun_noConfig(t *testing.T) {
	path := writeExe(t, []byte("nomarkerhere"))

	for _, stream := range []bool{false, true} {
		out := new(bytes.Buffer)
		code := run(CLI{File: path, Marker: defaultMarker, Stream: stream}, out, discard)
		assert.Equal(t, exitNoConfig, code)
		assert.Zero(t, out.Len())
	}
}

func TestRun_self(t *testing.T) {
	// The test executable has no configuration appended and must not contain the default marker.
	for _, stream := range []bool{false, true} {
		out := new(bytes.Buffer)
		code := run(CLI{Marker: defaultMarker, Decompress: "none", Stream: stream}, out, discard)
		assert.Equal(t, exitNoConfig, code, "stream: %v", stream)
		assert.Zero(t, out.Len(), "stream: %v", stream)
	}
}

func TestRun_errors(t *testing.T) {
	out := new(bytes.Buffer)

	code := run(CLI{File: "./:this file does not exist!", Marker: defaultMarker}, out, discard)
	assert.Equal(t, exitFailure, code)

	code = run(CLI{File: "./:this file does not exist!", Marker: defaultMarker, Stream: true}, out, discard)
	assert.Equal(t, exitFailure, code)

	path := writeExe(t, []byte(defaultMarker + "data"))
	code = run(CLI{File: path, Marker: ""}, out, discard)
	assert.Equal(t, exitFailure, code)

	code = run(CLI{File: path, Marker: defaultMarker, Decompress: "gzip"}, out, discard)
	assert.Equal(t, exitFailure, code)

	assert.Zero(t, out.Len())
}

func TestRun_decompress(t *testing.T) {
	var compressed bytes.Buffer
	w := gzip.NewWriter(&compressed)
	_, err := w.Write([]byte("key: value\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := writeExe(t, []byte("exe"), []byte(defaultMarker), compressed.Bytes())

	out := new(bytes.Buffer)
	code := run(CLI{File: path, Marker: defaultMarker, Decompress: "gzip"}, out, discard)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "key: value\n", out.String())
}

func TestDecode(t *testing.T) {
	plain := []byte("server:\n  url: https://example.com\n")

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write(plain)
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	var zl bytes.Buffer
	zw := zlib.NewWriter(&zl)
	_, err = zw.Write(plain)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zs := enc.EncodeAll(plain, nil)
	require.NoError(t, enc.Close())

	cases := []struct {
		algorithm string
		input     []byte
	}{
		{"", plain},
		{"none", plain},
		{"gzip", gz.Bytes()},
		{"zlib", zl.Bytes()},
		{"zstd", zs},
	}
	for _, tc := range cases {
		got, err := decode(tc.algorithm, tc.input)
		require.NoError(t, err, tc.algorithm)
		assert.Equal(t, plain, got, tc.algorithm)
	}
}

func TestDecode_errors(t *testing.T) {
	_, err := decode("brotli", []byte("data"))
	assert.EqualError(t, err, `unsupported decompression "brotli"`)

	for _, algorithm := range []string{"gzip", "zlib", "zstd"} {
		_, err := decode(algorithm, []byte("definitely not compressed"))
		assert.Error(t, err, algorithm)
	}
}
