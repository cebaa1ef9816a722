package executor

import (
	"context"
	"strings"
)

//go:generate mockgen -destination=../engine/mock_executor_test.go -package=engine . Executor

// Command describes a process to start on the local machine.
type Command struct {
	// Name is looked up in PATH unless it contains a path separator.
	Name string
	Args []string
	// Env is appended to the current process environment.
	Env []string
	Dir string
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Executor runs commands.
//
// A non-zero exit is not an error: the code is returned and err is nil. err
// is set when the process could not be started or was stopped by ctx.
type Executor interface {
	Execute(ctx context.Context, cmd Command) (stdout string, stderr string, exitCode int, err error)
}
