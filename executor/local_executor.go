package executor

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"
)

// waitDelay bounds how long Execute waits for output pipes after the process
// is gone, since grandchildren may keep them open.
const waitDelay = 10 * time.Second

// localExecutor implements the Executor interface for the local machine.
type localExecutor struct{}

// NewLocalExecutor creates a new Executor for local operations.
func NewLocalExecutor() Executor {
	return &localExecutor{}
}

type exitCoder interface {
	ExitCode() int
}

func (l *localExecutor) Execute(ctx context.Context, command Command) (string, string, int, error) {
	if command.Name == "" {
		return "", "", -1, errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir
	cmd.WaitDelay = waitDelay
	if len(command.Env) > 0 {
		cmd.Env = append(os.Environ(), command.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), stderr.String(), 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stdout.String(), stderr.String(), -1, errors.Wrapf(ctxErr, "command '%s' interrupted", command.Name)
	}

	var ec exitCoder
	if errors.As(err, &ec) {
		if code := ec.ExitCode(); code >= 0 {
			return stdout.String(), stderr.String(), code, nil
		}
	}
	return stdout.String(), stderr.String(), -1, errors.Wrapf(err, "failed to run command '%s'", command)
}
