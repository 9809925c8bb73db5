package ytdlp

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandRunner abstracts subprocess execution so tests can stub the
// yt-dlp binary.
type CommandRunner interface {
	// Run executes name with args in dir (process cwd when dir is empty)
	// and returns captured stdout and stderr.
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecCommandRunner is the production implementation using os/exec.
type ExecCommandRunner struct{}

func (ExecCommandRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	err := cmd.Run()
	return out.Bytes(), errOut.Bytes(), err
}
