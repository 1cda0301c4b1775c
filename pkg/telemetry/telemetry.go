// Package telemetry builds aidwarf's structured logger: a slog.Logger
// fanned out to stderr (human-readable text) and, optionally, a JSON audit
// file, via samber/slog-multi.
package telemetry

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Options configures New's handler fan-out.
type Options struct {
	// AuditFile, when non-nil, receives a JSON-formatted copy of every log
	// record in addition to the human-readable stderr stream.
	AuditFile io.Writer

	// Level sets the minimum level both handlers emit.
	Level slog.Level

	// Component is attached to every record as the "component" attribute,
	// tagging which subsystem emitted it.
	Component string
}

// New builds the process logger. With no AuditFile set, this is
// equivalent to a single text handler to stderr; slog-multi's Fanout still
// wraps it so a caller can always rely on the returned logger degrading to
// single-handler output without changing call sites.
func New(opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, handlerOpts),
	}
	if opts.AuditFile != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.AuditFile, handlerOpts))
	}

	logger := slog.New(slogmulti.Fanout(handlers...))
	if opts.Component != "" {
		logger = logger.With("component", opts.Component)
	}
	return logger
}

// OpenAuditFile opens (creating if necessary) the JSON audit log at path,
// truncating nothing: records append across process runs. Callers close
// the returned file once the logger built from it is no longer needed.
func OpenAuditFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening audit log %q: %w", path, err)
	}
	return f, nil
}
