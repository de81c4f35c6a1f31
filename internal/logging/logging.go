// Package logging configures scenarist's diagnostics on top of
// charmbracelet/log.
//
// All log output goes to stderr. Stdout carries the scenario listing, the
// planned order, run summaries and JSON reports, so piping those never mixes
// in log lines.
//
//	logging.Setup(verbose, quiet, logging.ParseFormat(os.Getenv("SCENARIST_LOG_FORMAT")))
//	logger := logging.New("runner")
//	logger.Info("run started", "tests", 11)
//
// Setup must run before New: charmbracelet/log copies the default logger's
// state into each child at creation time.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Level aliases for charmbracelet/log levels.
const (
	LevelDebug = log.DebugLevel
	LevelInfo  = log.InfoLevel
	LevelWarn  = log.WarnLevel
	LevelError = log.ErrorLevel
)

// Format selects the log line encoding.
type Format string

const (
	// FormatText is the human-readable default.
	FormatText Format = "text"
	// FormatJSON emits one JSON object per line, for CI log collectors.
	FormatJSON Format = "json"
	// FormatLogfmt emits key=value lines.
	FormatLogfmt Format = "logfmt"
)

// ParseFormat maps a user-supplied name to a Format. Unknown or empty
// names select FormatText.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON
	case FormatLogfmt:
		return FormatLogfmt
	default:
		return FormatText
	}
}

// Setup configures the default logger. Quiet wins over verbose so scripted
// runs stay silent. Verbose runs also get timestamps.
func Setup(verbose, quiet bool, format Format) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	if quiet {
		level = log.ErrorLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(verbose && !quiet)

	switch format {
	case FormatJSON:
		log.SetFormatter(log.JSONFormatter)
	case FormatLogfmt:
		log.SetFormatter(log.LogfmtFormatter)
	default:
		log.SetFormatter(log.TextFormatter)
	}
}

// New returns a child of the default logger prefixed with component.
func New(component string) *log.Logger {
	return log.WithPrefix(component)
}

// SetOutput redirects the default logger, mainly for tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}
