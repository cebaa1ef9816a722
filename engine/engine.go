package engine

import (
	"context"

	"github.com/mensylisir/xmansible/callback"
	"github.com/mensylisir/xmansible/config"
)

//go:generate mockgen -destination=../playbook/mock_engine_test.go -package=playbook . Engine

// Request is everything one engine run needs.
type Request struct {
	RunID     string
	Playbooks []string
	// Sources are inventory sources, passed to the engine in order.
	Sources []string
	Options *config.Options
	// ExtraVarsFile, when set, is passed as "--extra-vars @file".
	ExtraVarsFile string
}

// HostStats is the per-host recap the engine prints at the end of a run.
type HostStats struct {
	OK          int `json:"ok" yaml:"ok"`
	Changed     int `json:"changed" yaml:"changed"`
	Failures    int `json:"failures" yaml:"failures"`
	Ignored     int `json:"ignored" yaml:"ignored"`
	Rescued     int `json:"rescued" yaml:"rescued"`
	Skipped     int `json:"skipped" yaml:"skipped"`
	Unreachable int `json:"unreachable" yaml:"unreachable"`
}

// Outcome describes a run that went through to the end. Per-task results
// are delivered to the callback, not here.
type Outcome struct {
	ExitCode int
	Stats    map[string]HostStats
	// Listing holds the raw engine output of list and syntax-check runs,
	// which do not produce task events.
	Listing string
}

// Engine runs playbooks and reports every task result to cb in order.
// A run whose hosts failed is not an error; err is reserved for runs the
// engine could not carry out.
type Engine interface {
	Run(ctx context.Context, req *Request, cb callback.Callback) (*Outcome, error)
}
