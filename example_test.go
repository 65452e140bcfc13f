package shrepl_test

import (
	"context"
	"fmt"

	. "github.com/halfduplex/shrepl"
)

// The examples drive the winkle demo shell that ships in this
// repository, so they work anywhere `go run` does.

func Example() {
	session := NewSession(WinkleOptions())
	assertNoErr(session.Open())
	defer session.Close()

	fmt.Println(run(session, "2 + 2"))
	fmt.Println(run(session, "emit pink elephants"))
	fmt.Println(run(session, "(3 + 4) * 5"))

	// Output:
	// 4
	// pink elephants
	// 35
}

func ExampleSession_Exec_stderr() {
	session := NewSession(WinkleOptions())
	assertNoErr(session.Open())
	defer session.Close()

	err := runErr(session, "complain out of cheese")
	fmt.Println(err)

	// The session stays usable after a failed command.
	fmt.Println(run(session, "emit still here"))

	// Output:
	// out of cheese
	// still here
}

func ExampleSession_Exec_pipeline() {
	session := NewSession(WinkleOptions())
	assertNoErr(session.Open())
	defer session.Close()

	// Commands submitted back to back settle strictly in order.
	first, err := session.Exec("emit one", 0)
	assertNoErr(err)
	second, err := session.Exec("emit two", 0)
	assertNoErr(err)

	for _, oc := range []*Outcome{first, second} {
		out, err := oc.Wait(context.Background())
		assertNoErr(err)
		fmt.Println(out)
	}

	// Output:
	// one
	// two
}
