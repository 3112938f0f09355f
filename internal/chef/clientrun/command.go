package clientrun

import (
	"github.com/kballard/go-shellquote"
)

// commandLine accumulates the chef-client invocation as an ordered list of
// arguments, rendered to a shell command string exactly once. Flag order is
// part of the observable contract and follows insertion order.
type commandLine struct {
	exe  string
	args []string
}

func newCommandLine(exe string) *commandLine {
	return &commandLine{exe: exe}
}

// addFlag appends a flag that takes a value.
func (c *commandLine) addFlag(name, value string) {
	c.args = append(c.args, name, value)
}

// addSwitch appends a bare flag.
func (c *commandLine) addSwitch(name string) {
	c.args = append(c.args, name)
}

// Render joins the executable and arguments into a single shell-quoted
// command line.
func (c *commandLine) Render() string {
	return shellquote.Join(append([]string{c.exe}, c.args...)...)
}
