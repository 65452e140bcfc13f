package main

import (
	_ "embed"
	"flag"
	"fmt"
	"os"

	"github.com/halfduplex/shrepl/winkle/internal"
)

//go:embed README.md
var readMeMd string

type argSack struct {
	noEcho        bool
	failOnStartup bool
}

// main reads commands from stdin, pretending to be an interactive
// shell that echoes its input, for use in tests of the session
// engine.
func main() {
	var args argSack
	flag.BoolVar(
		&args.noEcho,
		internal.FlagNoEcho, false,
		"Don't echo input lines to stdout.")
	flag.BoolVar(
		&args.failOnStartup,
		internal.FlagFailOnStartup, false,
		"Exit with error on startup, before processing any commands.")
	flag.Parse()
	if len(flag.Args()) > 0 {
		fmt.Fprintln(os.Stderr, "unrecognized args: ", flag.Args())
		fmt.Fprintln(os.Stderr)
		fmt.Fprint(os.Stderr, readMeMd)
		os.Exit(1)
	}
	if args.failOnStartup {
		fmt.Fprintln(os.Stderr, "Ordered to fail on startup.")
		os.Exit(1)
	}
	shell := internal.NewShell(!args.noEcho)
	if err := shell.Run(); err != nil {
		os.Exit(1)
	}
}
