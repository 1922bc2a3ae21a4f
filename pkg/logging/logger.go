package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	L zerolog.Logger
)

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	L = zerolog.New(output).With().Caller().Timestamp().Logger()
}

// SetOutput rebinds L to the given writers. Console writers keep the
// human-readable format, anything else (log files) receives JSON lines.
func SetOutput(console io.Writer, files ...io.Writer) {
	writers := make([]io.Writer, 0, len(files)+1)
	if console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339})
	}
	writers = append(writers, files...)

	if len(writers) == 0 {
		L = zerolog.Nop()
		return
	}

	L = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Caller().Timestamp().Logger()
}
