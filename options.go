package shrepl

import (
	"fmt"
	"os"

	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"
)

// Options is a bag of parameters for a Session.
// It is immutable once the Session is opened.
// See individual fields for their explanation.
type Options struct {
	// Path is either the absolute path to the shell executable, or a
	// $PATH relative command name.
	Path string

	// Args has the arguments, flags and flag arguments for the
	// shell invocation.
	Args []string

	// Dir is the working directory of the shell process.
	Dir string

	// Sentinel frames command boundaries in the shell's output.
	// Left empty, a randomized sentinel is generated at Open.
	Sentinel Sentinel

	// Init is written once to the shell's stdin at spawn time, before
	// any command. It must (a) reroute guest error records to the
	// error stream as bare human-readable messages, and (b)
	// reconfigure the interactive prompt to emit exactly the
	// Sentinel and nothing else.
	Init []string

	// Verbose enables detailed logging to stderr, from both the
	// session engine and the subprocess plumbing.
	Verbose bool
}

// Validate fills in defaults and returns an error if there's a
// problem in the Options.
func (o *Options) Validate() error {
	if o.Sentinel == "" {
		o.Sentinel = NewSentinel()
	}
	if o.Path == "" {
		return fmt.Errorf("must specify Path to the shell to run")
	}
	return o.Sentinel.Validate()
}

// PowerShellOptions returns Options for driving a PowerShell Core
// subprocess. The init payload traps thrown error records, writes
// only their message to stderr, and replaces the prompt with the
// sentinel token.
func PowerShellOptions() Options {
	sen := NewSentinel()
	return Options{
		Path:     "pwsh",
		Args:     []string{"-NoLogo", "-NoProfile", "-NoExit", "-Command", "-"},
		Sentinel: sen,
		Init: []string{
			`$ErrorActionPreference = 'Continue'`,
			`trap { [Console]::Error.WriteLine($_.Exception.Message); continue }`,
			fmt.Sprintf(`function prompt { "%s" }`, sen),
		},
	}
}

// WinkleOptions returns Options for the winkle demo shell that ships
// in this repository. It is run via `go run`, so these Options only
// work with the repository root as the current directory.
func WinkleOptions() Options {
	sen := NewSentinel()
	return Options{
		Path:     "go",
		Args:     []string{"run", "."},
		Dir:      "./winkle",
		Sentinel: sen,
		Init: []string{
			"prompt set " + string(sen),
		},
	}
}

// optionsFile mirrors the YAML layout accepted by LoadOptions.
type optionsFile struct {
	Command  string   `yaml:"command"`
	Path     string   `yaml:"path"`
	Args     []string `yaml:"args"`
	Dir      string   `yaml:"dir"`
	Sentinel string   `yaml:"sentinel"`
	Init     []string `yaml:"init"`
	Verbose  bool     `yaml:"verbose"`
}

// LoadOptions reads Options from a YAML file. The command field holds
// the whole invocation as one shell-quoted string; it is mutually
// exclusive with path/args.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading options file; %w", err)
	}
	var f optionsFile
	if err = yaml.Unmarshal(data, &f); err != nil {
		return Options{}, fmt.Errorf("parsing options file %q; %w", path, err)
	}
	opts := Options{
		Path:     f.Path,
		Args:     f.Args,
		Dir:      f.Dir,
		Sentinel: Sentinel(f.Sentinel),
		Init:     f.Init,
		Verbose:  f.Verbose,
	}
	if f.Command != "" {
		if f.Path != "" {
			return Options{}, fmt.Errorf(
				"options file %q sets both command and path", path)
		}
		words, err := shellquote.Split(f.Command)
		if err != nil {
			return Options{}, fmt.Errorf(
				"parsing command %q; %w", f.Command, err)
		}
		if len(words) == 0 {
			return Options{}, fmt.Errorf(
				"options file %q has an empty command", path)
		}
		opts.Path, opts.Args = words[0], words[1:]
	}
	return opts, nil
}
