package shrepl

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// RunOnce runs a single command to completion in a fresh shell
// subprocess: no session state, no queue, no sentinel framing. The
// command text is fed to the shell's stdin and the shell is expected
// to exit at EOF, so args must not pin the shell open the way an
// interactive session profile does.
//
// Classification mirrors Session.Exec: stderr content rejects with an
// ExecError regardless of stdout; a clean run resolves with the
// trimmed stdout. A shell that could not start yields a SpawnError; a
// non-zero exit with silent stderr yields an ExitError.
func RunOnce(ctx context.Context, path string, args []string, commandText string) (string, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	var out, errs bytes.Buffer
	cmd.Stdin = strings.NewReader(strings.TrimSpace(commandText) + "\n")
	cmd.Stdout = &out
	cmd.Stderr = &errs
	runErr := cmd.Run()
	if errText := strings.TrimSpace(errs.String()); errText != "" {
		return "", &ExecError{Stderr: errText}
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return "", &ExitError{Code: exitErr.ExitCode()}
		}
		return "", &SpawnError{Path: path, Err: runErr}
	}
	return strings.TrimSpace(out.String()), nil
}
