package callback

import (
	"fmt"

	"github.com/pkg/errors"
)

// Status is the outcome of one task on one host.
type Status int

const (
	StatusOK Status = iota
	StatusFailed
	StatusIgnored
	StatusUnreachable
	StatusItemFailed
	StatusSkipped
)

var statusNames = map[Status]string{
	StatusOK:          "ok",
	StatusFailed:      "failed",
	StatusIgnored:     "ignored",
	StatusUnreachable: "unreachable",
	StatusItemFailed:  "item_failed",
	StatusSkipped:     "skipped",
}

// String returns a string representation of the Status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// IsFailed reports whether the status counts against the host.
// Ignored failures do not.
func (s Status) IsFailed() bool {
	switch s {
	case StatusFailed, StatusUnreachable, StatusItemFailed:
		return true
	default:
		return false
	}
}

func (s Status) MarshalText() ([]byte, error) {
	if _, ok := statusNames[s]; !ok {
		return nil, errors.Errorf("unknown status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return errors.Errorf("unknown status %q", string(text))
}
