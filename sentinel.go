package shrepl

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sentinel is the framing marker for one Session.
//
// The guest shell's prompt is reconfigured at spawn time to emit
// exactly this token, so "the shell is idle and awaiting input" can be
// recognized purely from byte content of the output stream. If genuine
// command output ends with the token, the engine will misidentify a
// boundary; the randomized suffix from NewSentinel makes that
// maximally unlikely, but it remains a probabilistic guarantee, not an
// absolute one.
type Sentinel string

const (
	sentinelPrefix = "SHREPL-EOC-"

	// sentinelLenMin is used in Sentinel validation.
	// The longer the sentinel value, the less the chance of
	// confusing it with valid output.
	sentinelLenMin = 6
)

// NewSentinel returns a sentinel with a random suffix, unique per
// Session.
func NewSentinel() Sentinel {
	return Sentinel(sentinelPrefix + uuid.NewString()[:8])
}

// Validate returns an error if there's a problem in the Sentinel.
// This validation is critical; an empty sentinel would match the
// output stream everywhere and the engine would never frame anything.
func (s Sentinel) Validate() error {
	if s == "" {
		return fmt.Errorf("must specify a sentinel value")
	}
	if len(s) < sentinelLenMin {
		return fmt.Errorf(
			"sentinel value %q too short at len=%d; must be >= %d chars long",
			string(s), len(s), sentinelLenMin)
	}
	if strings.ContainsAny(string(s), " \t\r\n") {
		return fmt.Errorf(
			"sentinel value %q must not contain whitespace", string(s))
	}
	return nil
}
