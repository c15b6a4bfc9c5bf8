package commandexecutor

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"syscall"

	"github.com/pkg/errors"
)

// CommandExecutor is an interface to execute commands towards the os
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) (*Output, error)
}

// Output of a command that was started. A nonzero ExitCode is not an error.
type Output struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

type OsCommandExecutor struct {
}

// Execute runs the command and waits for it. An error is only returned when the command
// could not be started or was killed because ctx ended. A command terminated by a signal
// gets exit code 128+signal, as a shell reports it.
func (OsCommandExecutor) Execute(ctx context.Context, name string, args ...string) (*Output, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, errors.Wrapf(ctxErr, "command %s did not finish", name)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
	default:
		return nil, errors.Wrapf(err, "failed to start command %s", name)
	}

	return &Output{
		ExitCode: exitCode(cmd.ProcessState),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}, nil
}

func exitCode(state *os.ProcessState) int {
	if status, ok := state.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}

	return state.ExitCode()
}
