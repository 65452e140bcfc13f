package shrepl

import (
	"io"
	"log"
	"os"
)

// newLogger returns the engine's logger for one Session.
// Quiet by default; the Verbose option routes it to stderr.
func newLogger(verbose bool) *log.Logger {
	w := io.Discard
	if verbose {
		w = os.Stderr
	}
	return log.New(w, "SHREPL: ", log.Ldate|log.Ltime|log.Lshortfile)
}

const abbrevMaxLen = 65

func abbrev(x string) string {
	if len(x) > abbrevMaxLen {
		return x[0:abbrevMaxLen-1] + "..."
	}
	return x
}
