package clientrun

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellRunnerCapturesStdout(t *testing.T) {
	out, err := ShellRunner{}.Run(context.Background(), "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestShellRunnerMultipleLines(t *testing.T) {
	out, err := ShellRunner{}.Run(context.Background(), "printf 'one\\ntwo\\n'")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", out)
}

func TestShellRunnerNonZeroExit(t *testing.T) {
	_, err := ShellRunner{}.Run(context.Background(), "echo oops >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oops")
}

func TestShellRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ShellRunner{}.Run(ctx, "sleep 10")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCommandLineRender(t *testing.T) {
	cmd := newCommandLine("/usr/bin/chef-client")
	cmd.addFlag("--environment", "testing")
	cmd.addSwitch("--why-run")

	assert.Equal(t, "/usr/bin/chef-client --environment testing --why-run", cmd.Render())
}

func TestCommandLineRenderQuotesValues(t *testing.T) {
	cmd := newCommandLine("/usr/bin/chef-client")
	cmd.addFlag("--node-name", "node with space")

	assert.Equal(t, "/usr/bin/chef-client --node-name 'node with space'", cmd.Render())
}
