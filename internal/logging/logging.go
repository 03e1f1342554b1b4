// Package logging configures the logrus logger used by hf for diagnostics.
// User-facing command output does not go through the logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Params controls logger setup.
type Params struct {
	Level   string    // trace, debug, info, warn, error; defaults to warn
	JSON    bool      // use the JSON formatter
	File    string    // optional log file, rotated by size
	Console io.Writer // defaults to os.Stderr; nil-able in tests
}

// New builds a logger from params. When File is set, entries go both to the
// rotating file and to the console writer.
func New(params Params) *logrus.Logger {
	log := logrus.New()
	if params.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	log.SetLevel(Level(params.Level))

	console := params.Console
	if console == nil {
		console = os.Stderr
	}

	if params.File == "" {
		log.SetOutput(console)
		return log
	}

	file := params.File
	if !strings.HasSuffix(file, ".log") {
		file += ".log"
	}
	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		Compress:   true,
	}
	log.SetOutput(&combinedWriter{writers: []io.Writer{console, rotating}})
	return log
}

// Level maps a config string to a logrus level. Unknown values give warn,
// which keeps normal CLI runs quiet.
func Level(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}

// combinedWriter writes to every writer, continuing past failures.
type combinedWriter struct {
	writers []io.Writer
}

func (cw *combinedWriter) Write(p []byte) (n int, err error) {
	for _, w := range cw.writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		if written > n {
			n = written
		}
	}
	return n, err
}
