package playbook

import (
	"time"

	"github.com/mensylisir/xmansible/callback"
	"github.com/mensylisir/xmansible/common"
	"github.com/mensylisir/xmansible/config"
	"github.com/mensylisir/xmansible/engine"
)

// Report is what a completed run leaves behind.
type Report struct {
	RunID     string                      `yaml:"run_id"`
	Playbooks []string                    `yaml:"playbooks"`
	Sources   []string                    `yaml:"sources"`
	Options   *config.Options             `yaml:"options"`
	State     common.OperationState       `yaml:"-"`
	ExitCode  int                         `yaml:"exit_code"`
	Duration  time.Duration               `yaml:"duration"`
	Records   []callback.Record           `yaml:"records,omitempty"`
	Stats     map[string]engine.HostStats `yaml:"stats,omitempty"`
	Listing   string                      `yaml:"listing,omitempty"`
	// LastResult and ErrorMsg are the collector's views at the end of the run.
	LastResult callback.Result `yaml:"last_result,omitempty"`
	ErrorMsg   string          `yaml:"error_msg,omitempty"`
}

// Failed returns the records that count against their host.
func (r *Report) Failed() []callback.Record {
	var out []callback.Record
	for _, rec := range r.Records {
		if rec.Status.IsFailed() {
			out = append(out, rec)
		}
	}
	return out
}

// Summary counts records per host and status name.
func (r *Report) Summary() map[string]map[string]int {
	out := make(map[string]map[string]int)
	for _, rec := range r.Records {
		if out[rec.Host] == nil {
			out[rec.Host] = make(map[string]int)
		}
		out[rec.Host][rec.Status.String()]++
	}
	return out
}

// OK reports whether no host failed or was unreachable.
func (r *Report) OK() bool {
	return len(r.Failed()) == 0
}
