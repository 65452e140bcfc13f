package spawner

// Handle owns a live subprocess and all the channels needed to talk
// to it. Exactly one Handle exists per subprocess; the session engine
// holds it exclusively for the life of the session.
//
// All fields are plain channels and functions so that tests can build
// a Handle around a scripted fake instead of a real subprocess.
type Handle struct {
	// Stdin accepts command lines. A "command line" is opaque; it
	// might be a complex multi-line script. It is forwarded to the
	// subprocess with a terminating newline appended if absent.
	// Close Stdin to send EOF, the graceful-shutdown path.
	Stdin chan<- string

	// Stdout and Stderr deliver raw output chunks with arbitrary
	// split points. Each is closed when its pipe reaches EOF.
	Stdout <-chan []byte
	Stderr <-chan []byte

	// Events delivers lifecycle signals. EventExit is always the
	// last one, and arrives only after Stdout and Stderr have been
	// closed, so a consumer may drain both to completion on exit.
	Events <-chan Event

	// Kill signals the subprocess, reporting whether a live process
	// was there to signal. Second and later calls return false.
	Kill func() bool
}
