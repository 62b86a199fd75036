package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command is an external program invocation
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner runs external commands
type Runner interface {
	// Run runs cmd attached to the terminal and waits for it to exit
	Run(ctx context.Context, cmd Command) error

	// Output runs cmd and returns its combined stdout and stderr
	Output(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands as child processes
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner attached to the process's own stdio
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Stdin = r.Stdin
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	if err := c.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", cmd.Name, err)
	}
	return nil
}

func (r *ExecRunner) Output(ctx context.Context, cmd Command) ([]byte, error) {
	out, err := exec.CommandContext(ctx, cmd.Name, cmd.Args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s failed: %w", cmd.Name, err)
	}
	return out, nil
}
