package spawner

import (
	"fmt"
	"os"
	"path/filepath"
)

// Spec captures all parameters to spawner.Start: the subprocess
// identity plus channel-orchestration knobs.
type Spec struct {
	// Path is either the absolute path to the executable, or a $PATH
	// relative command name. This is the shell being run.
	Path string

	// Args has the arguments, flags and flag arguments for the
	// shell invocation.
	Args []string

	// Dir is the working directory of the shell process.
	// Empty means the current directory.
	Dir string

	// BuffSizeIn is how many command lines can be enqueued before
	// sends on Stdin block.
	BuffSizeIn int

	// BuffSizeOut is how many output chunks can sit unconsumed per
	// stream before back pressure reaches the subprocess.
	BuffSizeOut int

	// ChunkSize is the read size for the output pipes.
	ChunkSize int
}

const (
	defaultBuffSizeIn  = 100
	defaultBuffSizeOut = 64
	defaultChunkSize   = 4096
)

// Validate fills in defaults and returns an error if there's a
// problem in the Spec.
func (s *Spec) Validate() error {
	s.setDefaults()
	if s.Path == "" {
		return fmt.Errorf("must specify Path to the executable to run")
	}
	return s.validateDir()
}

func (s *Spec) setDefaults() {
	if s.BuffSizeIn < 1 {
		s.BuffSizeIn = defaultBuffSizeIn
	}
	if s.BuffSizeOut < 1 {
		s.BuffSizeOut = defaultBuffSizeOut
	}
	if s.ChunkSize < 1 {
		s.ChunkSize = defaultChunkSize
	}
}

func (s *Spec) validateDir() (err error) {
	if s.Dir == "" {
		return nil
	}
	s.Dir, err = filepath.Abs(s.Dir)
	if err != nil {
		return fmt.Errorf("bad working dir path; %w", err)
	}
	info, err := os.Stat(s.Dir)
	if err != nil {
		return fmt.Errorf("bad working dir stat; %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory that exists", s.Dir)
	}
	return nil
}
