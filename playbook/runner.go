package playbook

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mensylisir/xmansible/callback"
	"github.com/mensylisir/xmansible/common"
	"github.com/mensylisir/xmansible/config"
	"github.com/mensylisir/xmansible/engine"
	"github.com/mensylisir/xmansible/file"
	"github.com/mensylisir/xmansible/hook"
	"github.com/mensylisir/xmansible/inventory"
	"github.com/mensylisir/xmansible/logger"
	xmtime "github.com/mensylisir/xmansible/time"
)

const extraVarsFilePattern = "extra-vars-*.yaml"

// Runner runs playbooks against a fixed host list with fixed options.
// It holds no per-run state and may be used by several goroutines.
type Runner struct {
	hosts   []string
	options *config.Options

	engine           engine.Engine
	binary           string
	strict           bool
	forwardExtraVars bool
	sources          []string
	log              *logger.XMLog
	tmpDir           string
}

// New validates opts and returns a Runner. A nil opts means config.Default().
// The options are copied; later changes by the caller have no effect.
func New(hosts []string, opts *config.Options, options ...Option) (*Runner, error) {
	if opts == nil {
		opts = config.Default()
	}
	if err := opts.Validate(); err != nil {
		return nil, newRunError(KindConfiguration, "new", err)
	}

	r := &Runner{
		hosts:   append([]string(nil), hosts...),
		options: opts.Clone(),
		tmpDir:  common.GetTmpDir(),
	}
	for _, o := range options {
		o(r)
	}
	if r.log == nil {
		r.log = logger.Log
	}
	if r.engine == nil {
		pb := engine.NewAnsiblePlaybook(r.binary, nil)
		pb.Log = r.log
		r.engine = pb
	}
	return r, nil
}

// Hosts returns the hosts written to every run's hosts file.
func (r *Runner) Hosts() []string {
	return append([]string(nil), r.hosts...)
}

// Options returns a copy of the options every run uses.
func (r *Runner) Options() *config.Options {
	return r.options.Clone()
}

// Run executes playbooks in one engine invocation. Failed or unreachable
// hosts are not errors; they show up in the report's records.
//
// extraVars are only handed to the engine when the Runner was built with
// WithForwardExtraVars.
func (r *Runner) Run(ctx context.Context, playbooks []string, extraVars map[string]interface{}) (*Report, error) {
	runID := uuid.NewString()
	start := time.Now()
	report := &Report{
		RunID:     runID,
		Playbooks: append([]string(nil), playbooks...),
		Options:   r.options.Clone(),
		State:     common.StatePending,
	}

	if len(playbooks) == 0 {
		return nil, newRunError(KindConfiguration, "run", errors.New("no playbooks given"))
	}
	if err := r.checkPlaybooks(runID, playbooks); err != nil {
		return nil, err
	}

	var (
		hostsFile     *inventory.HostsFile
		extraVarsFile string
		outcome       *engine.Outcome
	)
	collector := callback.NewCollector()

	report.State = common.StateRunning
	r.log.InfofRun(runID, "running %d playbook(s) on %d host(s)", len(playbooks), len(r.hosts))

	err := hook.Call(hook.Funcs{
		TryFunc: func() error {
			var err error
			hostsFile, err = inventory.WriteHostsFileIn(r.tmpDir, r.hosts)
			if err != nil {
				return newRunError(KindFilesystem, "write hosts file", err)
			}
			r.log.Run(runID).Debugf("hosts file %s", hostsFile.Path())

			extraVarsFile, err = r.writeExtraVars(runID, extraVars)
			if err != nil {
				return newRunError(KindFilesystem, "write extra vars", err)
			}

			report.Sources = inventory.NewContext(r.sources, hostsFile.Path()).Sources
			outcome, err = r.engine.Run(ctx, &engine.Request{
				RunID:         runID,
				Playbooks:     report.Playbooks,
				Sources:       report.Sources,
				Options:       r.options.Clone(),
				ExtraVarsFile: extraVarsFile,
			}, collector)
			return err
		},
		CatchFunc: func(err error) error {
			var runErr *RunError
			if errors.As(err, &runErr) {
				return err
			}
			return newRunError(KindEngine, "run", err)
		},
		FinallyFunc: func() {
			if hostsFile != nil {
				if err := hostsFile.Close(); err != nil {
					r.log.Run(runID).WithError(err).Warn("failed to remove hosts file")
				}
			}
			if err := file.RemoveIfExists(extraVarsFile); err != nil {
				r.log.Run(runID).WithError(err).Warn("failed to remove extra vars file")
			}
		},
	})
	report.Duration = time.Since(start)
	if err != nil {
		report.State = common.StateFailed
		r.log.ErrorfRun(runID, err, "run failed after %s", xmtime.Round(report.Duration))
		return nil, err
	}
	if outcome == nil {
		outcome = &engine.Outcome{}
	}

	report.State = common.StateSuccess
	report.ExitCode = outcome.ExitCode
	report.Stats = outcome.Stats
	report.Listing = outcome.Listing
	report.Records = collector.Records()
	report.LastResult = collector.LastResult()
	report.ErrorMsg = collector.ErrorMsg()

	if failed := report.Failed(); len(failed) > 0 {
		r.log.Run(runID).Warnf("finished in %s with %d failed task result(s)", xmtime.Round(report.Duration), len(failed))
	} else {
		r.log.InfofRun(runID, "finished in %s", xmtime.Round(report.Duration))
	}
	return report, nil
}

func (r *Runner) checkPlaybooks(runID string, playbooks []string) error {
	for _, pb := range playbooks {
		exists, err := file.PathExists(pb)
		if err != nil {
			return newRunError(KindFilesystem, "check playbook", errors.Wrapf(err, "failed to stat %s", pb))
		}
		if exists {
			continue
		}
		if r.strict {
			return newRunError(KindMissingPlaybook, "check playbook", errors.Wrap(ErrMissingPlaybook, pb))
		}
		r.log.WarnfPlaybook(runID, pb, "playbook %s does not exist", pb)
	}
	return nil
}

// writeExtraVars returns the path of a YAML file holding extraVars, or ""
// when there is nothing to forward.
func (r *Runner) writeExtraVars(runID string, extraVars map[string]interface{}) (string, error) {
	if len(extraVars) == 0 {
		return "", nil
	}
	if !r.forwardExtraVars {
		r.log.Run(runID).Debugf("%d extra var(s) not forwarded", len(extraVars))
		return "", nil
	}
	content, err := yaml.Marshal(extraVars)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal extra vars")
	}
	return file.WriteTempFile(r.tmpDir, extraVarsFilePattern, content, common.FileMode0600)
}
