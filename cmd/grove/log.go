package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// newLogger returns a logger writing human readable lines to w. An
// explicit level takes precedence over verbose, which selects debug
// level instead of info.
func newLogger(w io.Writer, level string, verbose bool) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if verbose {
		lvl = zerolog.DebugLevel
	}
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parsing log level: %v", err)
		}
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}
