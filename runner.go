package mmd2svg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/alnah/go-mmd2svg/internal/process"
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// Compile-time interface check.
var _ CommandRunner = (*ExecRunner)(nil)

// waitDelay bounds how long Run waits for output pipes after the process
// group was killed.
const waitDelay = 2 * time.Second

// ExecRunner implements CommandRunner using os/exec.
// The command runs in its own process group; when ctx ends the whole group
// is killed, which also stops the headless Chromium mmdc launches.
type ExecRunner struct{}

// Run executes name with args and returns its captured output.
// A non-zero exit is reported as an error alongside the captured stderr.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary is operator-configured
	process.Isolate(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		return stdout.String(), stderr.String(), fmt.Errorf("%s: %w", name, ctxErr)
	}
	return stdout.String(), stderr.String(), err
}
