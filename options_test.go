package shrepl_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/halfduplex/shrepl"
)

func TestOptions_Validate(t *testing.T) {
	o := Options{}
	err := o.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must specify Path to the shell to run")

	o.Path = "/bin/sh"
	require.NoError(t, o.Validate())
	// An absent sentinel is filled in with a randomized one.
	assert.NoError(t, o.Sentinel.Validate())

	o.Sentinel = "nope"
	err = o.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestShellProfiles(t *testing.T) {
	ps := PowerShellOptions()
	assert.Equal(t, "pwsh", ps.Path)
	require.NoError(t, ps.Validate())
	assert.Contains(t, strings.Join(ps.Init, "\n"), string(ps.Sentinel))

	wk := WinkleOptions()
	assert.Equal(t, "go", wk.Path)
	require.NoError(t, wk.Validate())
	assert.Contains(t, wk.Init[0], string(wk.Sentinel))
}

func writeOptionsFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadOptions(t *testing.T) {
	path := writeOptionsFile(t, `
command: pwsh -NoLogo -NoProfile -NoExit -Command -
dir: /tmp
sentinel: SHREPL-EOC-fromfile
init:
  - function prompt { "SHREPL-EOC-fromfile" }
verbose: true
`)
	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, "pwsh", opts.Path)
	assert.Equal(t,
		[]string{"-NoLogo", "-NoProfile", "-NoExit", "-Command", "-"},
		opts.Args)
	assert.Equal(t, "/tmp", opts.Dir)
	assert.Equal(t, Sentinel("SHREPL-EOC-fromfile"), opts.Sentinel)
	assert.Len(t, opts.Init, 1)
	assert.True(t, opts.Verbose)
}

func TestLoadOptions_QuotedCommandWords(t *testing.T) {
	path := writeOptionsFile(t, `command: /opt/my shell/bin/sh -c 'echo "hi there"'`)
	_, err := LoadOptions(path)
	// The unquoted space splits; that's shell quoting doing its job.
	require.NoError(t, err)

	path = writeOptionsFile(t, `command: "'/opt/my shell/bin/sh' -i"`)
	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/my shell/bin/sh", opts.Path)
	assert.Equal(t, []string{"-i"}, opts.Args)
}

func TestLoadOptions_CommandAndPathAreExclusive(t *testing.T) {
	path := writeOptionsFile(t, "command: /bin/sh\npath: /bin/sh\n")
	_, err := LoadOptions(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sets both command and path")
}

func TestLoadOptions_BadFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeOptionsFile(t, "init: [unterminated\n")
	_, err = LoadOptions(path)
	assert.Error(t, err)
}
