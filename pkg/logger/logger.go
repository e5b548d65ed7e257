package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Log is the process-wide logger. Setup also installs it as zerolog's
// package logger so library code can use zerolog/log directly.
var Log zerolog.Logger

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Setup("info", true)
}

// Writer picks human-readable console output or JSON lines on out.
func Writer(out io.Writer, console bool) io.Writer {
	if !console {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}
}

// Setup rebuilds Log on stdout at the given level.
func Setup(level string, console bool) {
	Log = zerolog.New(Writer(os.Stdout, console)).
		With().
		Timestamp().
		Caller().
		Logger()
	SetLevel(level)
}

// SetLevel applies level globally. Empty means info; anything unparsable
// falls back to info with a warning.
func SetLevel(level string) {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			Log.Warn().Str("level", level).Msg("unknown log level, using info")
		} else {
			lvl = parsed
		}
	}

	zerolog.SetGlobalLevel(lvl)
	Log = Log.Level(lvl)
	log.Logger = Log
}
