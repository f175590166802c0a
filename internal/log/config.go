package log

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Format represents the output format for logs
type Format int

const (
	// FormatText outputs logs in human-readable text format
	FormatText Format = iota
	// FormatJSON outputs logs in JSON format
	FormatJSON
)

// String returns the string representation of the format
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// ParseFormat parses a string into a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "console", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown log format %q (supported: text, json)", s)
	}
}

// Config holds configuration for the logger
type Config struct {
	// Level is the minimum log level to output
	Level Level

	// Format is the output format (JSON or Text)
	Format Format

	// Output is where logs are written. Defaults to stderr so that
	// plan output on stdout stays machine-readable.
	Output io.Writer

	// AddSource includes source file and line number in logs
	AddSource bool

	// ServiceName is attached to every record as "service"
	ServiceName string
}

// DefaultConfig returns the CLI configuration: warnings and above,
// text format, stderr.
func DefaultConfig() Config {
	return Config{
		Level:       LevelWarn,
		Format:      FormatText,
		Output:      os.Stderr,
		ServiceName: "taskplan",
	}
}

// ServerConfig returns the configuration used by 'taskplan serve':
// info level JSON records on stdout.
func ServerConfig() Config {
	return Config{
		Level:       LevelInfo,
		Format:      FormatJSON,
		Output:      os.Stdout,
		ServiceName: "taskplan",
	}
}

// ConfigFromFlags builds a Config from the string values of the
// --log-level and --log-format flags, starting from base.
func ConfigFromFlags(base Config, level, format string) (Config, error) {
	cfg := base
	if level != "" {
		l, err := ParseLevel(level)
		if err != nil {
			return base, err
		}
		cfg.Level = l
	}
	if format != "" {
		f, err := ParseFormat(format)
		if err != nil {
			return base, err
		}
		cfg.Format = f
	}
	return cfg, nil
}
