package shrepl_test

import (
	"context"

	. "github.com/halfduplex/shrepl"
)

// Helpers for the Example functions, which can't use testing.T.

func assertNoErr(err error) {
	if err != nil {
		panic("example failure: unexpected err: " + err.Error())
	}
}

// run submits a command and waits for its result, panicking on any
// failure.
func run(s *Session, text string) string {
	oc, err := s.Exec(text, 0)
	assertNoErr(err)
	out, err := oc.Wait(context.Background())
	assertNoErr(err)
	return out
}

// runErr submits a command and waits for the rejection it is expected
// to produce.
func runErr(s *Session, text string) error {
	oc, err := s.Exec(text, 0)
	assertNoErr(err)
	_, err = oc.Wait(context.Background())
	if err == nil {
		panic("example failure: expected an error")
	}
	return err
}
