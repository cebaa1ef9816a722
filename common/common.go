package common

import (
	"io/fs"
	"os"
	"path/filepath"
)

const (
	AppName = "xmansible"
)

// GetTmpDir returns the directory used for per-run scratch files
// (generated hosts files, extra-vars files).
func GetTmpDir() string {
	return filepath.Join(os.TempDir(), AppName)
}

// Log field keys, in display order.
const (
	RunID        = "Run"
	PlaybookName = "Playbook"
	PlayName     = "Play"
	TaskName     = "Task"
	HostName     = "Host"
)

const (
	// FileMode0755 represents rwxr-xr-x
	FileMode0755 fs.FileMode = 0755
	// FileMode0644 represents rw-r--r--
	FileMode0644 fs.FileMode = 0644
	// FileMode0600 represents rw-------
	FileMode0600 fs.FileMode = 0600
	// FileMode0700 represents rwx------
	FileMode0700 fs.FileMode = 0700
)

const (
	// DefaultPlaybookBinary is the engine entry point looked up in PATH.
	DefaultPlaybookBinary = "ansible-playbook"
	// PlaybookBinaryEnv overrides DefaultPlaybookBinary.
	PlaybookBinaryEnv     = "ANSIBLE_PLAYBOOK_BIN"
)

// Exit codes of ansible-playbook. Current releases report unreachable hosts
// as 4, which collides with the parser error code; a parser error never
// produces a JSON document on stdout so the two are told apart there.
const (
	ExitOK                    = 0
	ExitError                 = 1
	ExitHostFailed            = 2
	ExitHostUnreachableLegacy = 3
	ExitHostUnreachable       = 4
	ExitParserError           = 4
	ExitBadOptions            = 5
	ExitInterrupted           = 99
	ExitUnexpected            = 250
)

// CompletedExitCode reports whether an engine exit code means the run went
// through to the end, leaving per-host outcomes to the callback.
func CompletedExitCode(code int) bool {
	switch code {
	case ExitOK, ExitHostFailed, ExitHostUnreachableLegacy, ExitHostUnreachable:
		return true
	default:
		return false
	}
}

// DescribeExitCode names the failure class of an exit code that
// CompletedExitCode rejects.
func DescribeExitCode(code int) string {
	switch code {
	case ExitError:
		return "error"
	case ExitBadOptions:
		return "bad or incomplete options"
	case ExitInterrupted:
		return "interrupted"
	case ExitUnexpected:
		return "unexpected error"
	default:
		return "unknown error"
	}
}

type OperationState int

const (
	StatePending OperationState = iota // 0
	StateRunning                       // 1
	StateSuccess                       // 2
	StateFailed                        // 3
)

func (s OperationState) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateRunning:
		return "Running"
	case StateSuccess:
		return "Success"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
