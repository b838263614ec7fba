package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/maja42/catconf"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// defaultMarker is assembled at runtime, otherwise catconf would find it within its own executable.
var defaultMarker = strings.ReplaceAll("CAT~CONF", "~", "")

const (
	exitOK       = 0
	exitFailure  = 1
	exitNoConfig = 2
)

// CLI are the command line parameters of catconf.
type CLI struct {
	File       string           `arg:"" optional:"" name:"file" help:"Executable to inspect. Defaults to catconf itself." type:"path"`
	Marker     string           `short:"m" default:"${marker}" help:"Marker separating the executable from its configuration."`
	Hex        bool             `help:"Interpret the marker as hex string."`
	Decompress string           `short:"d" enum:"none,gzip,zlib,zstd" default:"none" help:"Decompress the configuration after extraction (${enum})."`
	Stream     bool             `short:"s" help:"Scan the file backwards in chunks instead of reading it at once."`
	Verbose    bool             `short:"v" help:"Verbose logging."`
	Version    kong.VersionFlag `short:"V" help:"Print release version information."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Description("Print the configuration appended to an executable"),
		kong.UsageOnError(),
		kong.Vars{
			"marker":  defaultMarker,
			"version": fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
		},
	)

	logLevel := slog.LevelError
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	os.Exit(run(cli, os.Stdout, logger))
}

// run executes the command and returns the process exit code.
func run(cli CLI, out io.Writer, logger *slog.Logger) int {
	marker, err := parseMarker(cli.Marker, cli.Hex)
	if err != nil {
		logger.Error("invalid marker", "err", err)
		return exitFailure
	}

	r, err := catconf.New(marker, catconf.WithLogger(logger))
	if err != nil {
		logger.Error("invalid marker", "err", err)
		return exitFailure
	}

	conf, err := extract(r, cli.File, cli.Stream)
	if errors.Is(err, catconf.ErrMarkerNotFound) {
		logger.Error("no configuration found", "err", err)
		return exitNoConfig
	}
	if err != nil {
		logger.Error("extraction failed", "err", err)
		return exitFailure
	}

	conf, err = decode(cli.Decompress, conf)
	if err != nil {
		logger.Error("decompression failed", "err", err)
		return exitFailure
	}
	logger.Debug("configuration extracted", "size", len(conf))

	if _, err := out.Write(conf); err != nil {
		logger.Error("writing output failed", "err", err)
		return exitFailure
	}
	return exitOK
}

func parseMarker(marker string, isHex bool) ([]byte, error) {
	if !isHex {
		return []byte(marker), nil
	}
	return hex.DecodeString(marker)
}

func extract(r *catconf.Reader, path string, stream bool) ([]byte, error) {
	switch {
	case stream && path == "":
		return r.ScanExe()
	case stream:
		return r.ScanFile(path)
	case path == "":
		return r.ReadFromExe()
	default:
		return r.ReadFile(path)
	}
}
