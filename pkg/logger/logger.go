// Package logger builds the zerolog logger shared by the API process.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

type Options struct {
	// Level is a zerolog level name. Empty means info.
	Level string
	// Format is FormatJSON or FormatConsole. Empty means FormatJSON.
	Format string
	// Output defaults to os.Stdout.
	Output io.Writer

	Service     string
	Version     string
	Environment string
}

// New returns a logger stamped with the service, version and environment of
// the process. It does not touch zerolog globals.
func New(opts Options) (zerolog.Logger, error) {
	lvl, err := parseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	switch strings.ToLower(opts.Format) {
	case "", FormatJSON:
	case FormatConsole:
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), fmt.Errorf("logger: unknown format %q", opts.Format)
	}

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	if opts.Version != "" {
		ctx = ctx.Str("version", opts.Version)
	}
	if opts.Environment != "" {
		ctx = ctx.Str("env", opts.Environment)
	}
	return ctx.Logger(), nil
}

// Init builds the process logger and installs it as the zerolog default, so
// zerolog.Ctx on a context without a logger still writes somewhere useful.
func Init(opts Options) (zerolog.Logger, error) {
	log, err := New(opts)
	if err != nil {
		return log, err
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(log.GetLevel())
	zerolog.DefaultContextLogger = &log
	return log, nil
}

// Component returns a child logger tagged with the subsystem name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func parseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logger: %w", err)
	}
	return lvl, nil
}
