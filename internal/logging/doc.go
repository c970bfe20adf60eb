// Package logging provides the minimal Logger interface used across
// model-mapper and adapters over log/slog.
//
// The engine depends only on Logger; the command line builds a concrete
// slog-backed logger from configuration with New:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json", Output: "stderr"})
//	tr := transform.New(index, transform.WithLogger(logger))
package logging
