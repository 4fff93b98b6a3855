package dsv

import (
	"io"
	"log"
	"os"
)

var debug = false
var debugLogger = log.New(os.Stdout, "[dsv] [DEBUG] ", log.LstdFlags)
var errorLogger = log.New(os.Stdout, "[dsv] [ERROR] ", log.LstdFlags)

// Debug enables or disables debug logging for the package. If out is not
// nil all debug output is written to it, otherwise the current output is
// kept. Debug logging covers separator detection, header resolution,
// continuation joins and skipped lines; the per-field path is never logged.
func Debug(enabled bool, out io.Writer) {
	debug = enabled
	if out != nil {
		debugLogger.SetOutput(out)
		errorLogger.SetOutput(out)
	}
}

func debugf(format string, v ...interface{}) {
	if debug {
		debugLogger.Printf(format, v...)
	}
}

func errorf(format string, v ...interface{}) {
	if debug {
		errorLogger.Printf(format, v...)
	}
}
