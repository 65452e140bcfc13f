package internal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Program flags needed for tests.
const (
	FlagNoEcho        = "no-echo"
	FlagFailOnStartup = "fail-on-startup"
)

// All individual commands.
const (
	CmdPrompt   = "prompt"
	CmdEmit     = "emit"
	CmdJSON     = "json"
	CmdComplain = "complain"
	CmdSleep    = "sleep"
	CmdCrash    = "crash"
	CmdQuit     = "quit"
)

const defaultPrompt = "winkle? "

// Shell parses stdin, executing anything that validates as a command
// and falling back to arithmetic evaluation. This code exists to
// drive tests of the session engine.
type Shell struct {
	echo    bool
	prompt  string
	stdOut  io.Writer
	stdErr  io.Writer
	scanner *bufio.Scanner
}

// NewShell returns a new instance.
func NewShell(echo bool) *Shell {
	return &Shell{
		echo:    echo,
		prompt:  defaultPrompt,
		stdOut:  os.Stdout,
		stdErr:  os.Stderr,
		scanner: bufio.NewScanner(os.Stdin),
	}
}

// Run starts a loop to drain the shell's input stream, executing
// commands. Like a real interactive host, it echoes the raw input
// line before acting on it, and shows its prompt when idle.
func (s *Shell) Run() error {
	s.showPrompt()
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if s.echo {
			fmt.Fprintln(s.stdOut, line)
		}
		done, err := s.handleCommand(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(s.stdErr, err.Error())
		}
		if done {
			return nil
		}
		s.showPrompt()
	}
	return s.scanner.Err()
}

// showPrompt writes the prompt with no trailing newline, the way
// interactive hosts do.
func (s *Shell) showPrompt() {
	fmt.Fprint(s.stdOut, s.prompt)
}

func (s *Shell) handleCommand(cmd string) (done bool, err error) {
	if cmd == "" {
		// Ignore empty commands.
		return
	}
	if cmd == CmdQuit {
		return true, nil
	}
	if cmd == CmdCrash {
		os.Exit(2)
	}
	if rest, ok := strings.CutPrefix(cmd, CmdPrompt+" "); ok {
		return false, s.setPrompt(rest)
	}
	if rest, ok := strings.CutPrefix(cmd, CmdEmit+" "); ok {
		fmt.Fprintln(s.stdOut, rest)
		return
	}
	if cmd == CmdEmit {
		// Emitting nothing is legal; produces no output at all.
		return
	}
	if rest, ok := strings.CutPrefix(cmd, CmdJSON+" "); ok {
		var b []byte
		if b, err = json.Marshal(rest); err != nil {
			return
		}
		fmt.Fprintln(s.stdOut, string(b))
		return
	}
	if rest, ok := strings.CutPrefix(cmd, CmdComplain+" "); ok {
		fmt.Fprintln(s.stdErr, rest)
		return
	}
	if rest, ok := strings.CutPrefix(cmd, CmdSleep+" "); ok {
		var d time.Duration
		if d, err = time.ParseDuration(rest); err != nil {
			return
		}
		// For use in tests; simulates a long-running command.
		<-time.After(d)
		return
	}
	var n int
	if n, err = Eval(cmd); err == nil {
		fmt.Fprintln(s.stdOut, n)
		return
	}
	return false, fmt.Errorf("unrecognized command: %q", cmd)
}

func (s *Shell) setPrompt(rest string) error {
	words := strings.Fields(rest)
	if len(words) != 2 || words[0] != "set" {
		return fmt.Errorf("usage: %s set TOKEN", CmdPrompt)
	}
	s.prompt = words[1]
	return nil
}
