package playbook

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies why a run failed.
type ErrorKind string

const (
	KindFilesystem      ErrorKind = "filesystem"
	KindConfiguration   ErrorKind = "configuration"
	KindMissingPlaybook ErrorKind = "missing-playbook"
	KindEngine          ErrorKind = "engine"
)

// ErrMissingPlaybook is wrapped by strict-mode errors for absent playbooks.
var ErrMissingPlaybook = errors.New("playbook does not exist")

// RunError is the error returned by New and Runner.Run.
type RunError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *RunError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a *RunError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var runErr *RunError
	return errors.As(err, &runErr) && runErr.Kind == kind
}

func newRunError(kind ErrorKind, op string, err error) *RunError {
	return &RunError{Kind: kind, Op: op, Err: err}
}
