package carousel

import (
	"io"
	"log"
	"os"
)

// logger receives warnings (failed image loads, failed screenshots) and,
// in debug mode, per-frame stats.
var logger = log.New(os.Stderr, "[carousel] ", log.LstdFlags)

// SetLogOutput redirects the package logger. Pass io.Discard to silence it.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

func warnf(format string, args ...any) {
	logger.Printf("warning: "+format, args...)
}
