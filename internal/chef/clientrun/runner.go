package clientrun

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes a full command line as a single shell invocation and
// returns its captured standard output. Implementations block until the
// process exits; cancellation rides on the context.
type CommandRunner interface {
	Run(ctx context.Context, command string) (string, error)
}

// ShellRunner runs command lines through the system shell.
type ShellRunner struct{}

// Run executes command via /bin/sh -c and returns stdout with the trailing
// newline stripped. On a non-zero exit the error carries the captured stderr.
func (ShellRunner) Run(ctx context.Context, command string) (string, error) {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := strings.TrimRight(stdout.String(), "\n")

	if err != nil {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%w: %s", err, msg)
		}
		return out, err
	}

	return out, nil
}
