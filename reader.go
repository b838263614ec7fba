package catconf

import (
	"io"
	"os"
	"path/filepath"

	"github.com/maja42/catconf/internal"
)

// streamWindow is the chunk size used by Scan when scanning backwards.
const streamWindow = 64 * 1024

// Source provides access to the file backing the running process.
type Source interface {
	// Executable returns the path of the running executable.
	Executable() (string, error)
	// ReadFile returns the full contents of the file at path.
	ReadFile(path string) ([]byte, error)
	// Open opens the file at path for reading.
	Open(path string) (io.ReadSeekCloser, error)
}

// osSource resolves and reads the executable via the operating system.
type osSource struct{}

func (osSource) Executable() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", err
	}
	if p, err := filepath.EvalSymlinks(path); err == nil {
		// Resolving links is best-effort only: on Windows it fails for
		// binaries started from a domain controller's SYSVOL share.
		path = p
	}
	return path, nil
}

func (osSource) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osSource) Open(path string) (io.ReadSeekCloser, error) {
	return os.Open(path)
}

// logger is satisfied by *slog.Logger.
type logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Option adjusts a Reader.
type Option func(*Reader)

// WithSource replaces the way the running executable is located and read.
func WithSource(src Source) Option {
	return func(r *Reader) {
		r.source = src
	}
}

// WithLogger sets a logger for debug output. Errors are returned, never logged.
func WithLogger(l logger) Option {
	return func(r *Reader) {
		r.logger = l
	}
}

// Reader extracts configuration that was appended to an executable after a marker.
//
// The expected file layout is
//
//	<executable><marker><configuration>
//
// Only the last occurrence of the marker is relevant,
// so the marker may also appear in the code or data of the executable itself.
//
// A Reader holds no mutable state and can be used concurrently.
type Reader struct {
	marker []byte
	source Source
	logger logger
}

// New returns a Reader searching for the given marker.
// The marker is copied and must not be empty.
func New(marker []byte, opts ...Option) (*Reader, error) {
	if len(marker) == 0 {
		return nil, ErrEmptyMarker
	}
	r := &Reader{
		marker: append([]byte(nil), marker...),
		source: osSource{},
		logger: noopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ReadFromExe returns the configuration appended to the running executable.
func ReadFromExe(marker []byte) ([]byte, error) {
	r, err := New(marker)
	if err != nil {
		return nil, err
	}
	return r.ReadFromExe()
}

// Marker returns a copy of the marker.
func (r *Reader) Marker() []byte {
	return append([]byte(nil), r.marker...)
}

// ReadFromExe returns the configuration appended to the running executable.
// The executable is re-read on every call.
func (r *Reader) ReadFromExe() ([]byte, error) {
	path, err := r.source.Executable()
	if err != nil {
		return nil, newConfErr(ErrPathResolution, "", err)
	}
	return r.ReadFile(path)
}

// ReadFile returns the configuration appended to an arbitrary file.
func (r *Reader) ReadFile(path string) ([]byte, error) {
	contents, err := r.source.ReadFile(path)
	if err != nil {
		return nil, newConfErr(ErrRead, path, err)
	}
	r.logger.Debug("scanning file", "path", path, "size", len(contents))

	conf, err := r.Extract(contents)
	if err != nil {
		if cErr, ok := err.(*ConfErr); ok {
			cErr.Path = path
		}
		return nil, err
	}
	return conf, nil
}

// Extract returns everything after the last occurrence of the marker within contents.
// The result does not share memory with contents.
// If the marker is located at the very end, an empty (non-nil) slice is returned.
func (r *Reader) Extract(contents []byte) ([]byte, error) {
	offset := internal.LastIndex(contents, r.marker)
	if offset < 0 {
		return nil, newConfErr(ErrMarkerNotFound, "", nil)
	}
	r.logger.Debug("marker found", "offset", offset, "configSize", len(contents)-offset)

	conf := make([]byte, len(contents)-offset)
	copy(conf, contents[offset:])
	return conf, nil
}

// Scan returns everything after the last occurrence of the marker within in.
// In contrast to Extract, the input is scanned backwards in chunks and is not loaded into memory at once.
func (r *Reader) Scan(in io.ReadSeeker) ([]byte, error) {
	offset, err := internal.SeekLastPattern(in, r.marker, streamWindow)
	if err != nil {
		return nil, newConfErr(ErrRead, "", err)
	}
	if offset < 0 {
		return nil, newConfErr(ErrMarkerNotFound, "", nil)
	}
	r.logger.Debug("marker found", "offset", offset)

	conf, err := io.ReadAll(in)
	if err != nil {
		return nil, newConfErr(ErrRead, "", err)
	}
	return conf, nil
}

// ScanExe is like ReadFromExe, but scans the executable with Scan.
func (r *Reader) ScanExe() ([]byte, error) {
	path, err := r.source.Executable()
	if err != nil {
		return nil, newConfErr(ErrPathResolution, "", err)
	}
	return r.ScanFile(path)
}

// ScanFile is like ReadFile, but scans the file with Scan.
func (r *Reader) ScanFile(path string) ([]byte, error) {
	file, err := r.source.Open(path)
	if err != nil {
		return nil, newConfErr(ErrRead, path, err)
	}
	defer file.Close()
	r.logger.Debug("scanning file", "path", path)

	conf, err := r.Scan(file)
	if err != nil {
		if cErr, ok := err.(*ConfErr); ok {
			cErr.Path = path
		}
		return nil, err
	}
	return conf, nil
}
