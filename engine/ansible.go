package engine

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/mensylisir/xmansible/callback"
	"github.com/mensylisir/xmansible/common"
	"github.com/mensylisir/xmansible/executor"
	"github.com/mensylisir/xmansible/inventory"
	"github.com/mensylisir/xmansible/logger"
	"github.com/mensylisir/xmansible/util"
)

// maxStderrInError caps how much engine stderr is carried in an error.
const maxStderrInError = 4096

// AnsiblePlaybook runs the ansible-playbook program.
type AnsiblePlaybook struct {
	Binary   string
	Executor executor.Executor
	Log      *logger.XMLog
	// TmpDir holds the per-run callback plugin directory.
	TmpDir string
}

var _ Engine = (*AnsiblePlaybook)(nil)

// NewAnsiblePlaybook returns an engine running binary through exec. An empty
// binary falls back to $ANSIBLE_PLAYBOOK_BIN, then to "ansible-playbook". A
// nil exec runs commands locally.
func NewAnsiblePlaybook(binary string, exec executor.Executor) *AnsiblePlaybook {
	if binary == "" {
		binary = util.GetenvOrDefault(common.PlaybookBinaryEnv, common.DefaultPlaybookBinary)
	}
	if exec == nil {
		exec = executor.NewLocalExecutor()
	}
	return &AnsiblePlaybook{Binary: binary, Executor: exec, TmpDir: common.GetTmpDir()}
}

func (a *AnsiblePlaybook) log() *logger.XMLog {
	if a.Log != nil {
		return a.Log
	}
	return logger.Log
}

// Command builds the process the request runs as, loading the stdout
// callback plugin from pluginDir.
func (a *AnsiblePlaybook) Command(req *Request, pluginDir string) (executor.Command, error) {
	if req == nil || req.Options == nil {
		return executor.Command{}, errors.New("request has no options")
	}
	if len(req.Playbooks) == 0 {
		return executor.Command{}, errors.New("request has no playbooks")
	}

	args := (&inventory.Context{Sources: req.Sources}).Args()
	optArgs, err := req.Options.Args()
	if err != nil {
		return executor.Command{}, err
	}
	args = append(args, optArgs...)
	if req.ExtraVarsFile != "" {
		args = append(args, "--extra-vars", "@"+req.ExtraVarsFile)
	}
	args = append(args, req.Playbooks...)

	env := append(callbackEnv(pluginDir), req.Options.Env()...)
	return executor.Command{Name: a.Binary, Args: args, Env: env}, nil
}

func (a *AnsiblePlaybook) Run(ctx context.Context, req *Request, cb callback.Callback) (*Outcome, error) {
	if req == nil {
		return nil, errors.New("request is nil")
	}
	log := a.log()
	pluginDir, err := writeCallbackPlugin(a.TmpDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(pluginDir); err != nil {
			log.Run(req.RunID).WithError(err).Warn("failed to remove callback plugin directory")
		}
	}()

	cmd, err := a.Command(req, pluginDir)
	if err != nil {
		return nil, err
	}
	log.Run(req.RunID).Debugf("running %s", cmd)

	stdout, stderr, exitCode, err := a.Executor.Execute(ctx, cmd)
	if err != nil {
		return nil, errors.Wrapf(err, "%s did not run%s", a.Binary, stderrSuffix(stderr))
	}
	if !common.CompletedExitCode(exitCode) {
		return nil, errors.Errorf("%s exited with code %d (%s)%s",
			a.Binary, exitCode, common.DescribeExitCode(exitCode), stderrSuffix(stderr))
	}

	outcome := &Outcome{ExitCode: exitCode}
	if listingOnly(req) {
		outcome.Listing = stdout
		return outcome, nil
	}

	out, err := decodeOutput(stdout)
	if err != nil {
		if exitCode == common.ExitParserError {
			return nil, errors.Wrapf(err, "%s exited with code %d (parser error)%s", a.Binary, exitCode, stderrSuffix(stderr))
		}
		return nil, errors.Wrapf(err, "%s exited with code %d%s", a.Binary, exitCode, stderrSuffix(stderr))
	}
	outcome.Stats = out.Stats
	dispatch(out, cb, func(host, task string, status callback.Status) {
		entry := log.Host(req.RunID, task, host)
		if status.IsFailed() {
			entry.Warnf("task %s", status)
			return
		}
		entry.Debugf("task %s", status)
	})
	log.Run(req.RunID).Debugf("%s exited with code %d", a.Binary, exitCode)
	return outcome, nil
}

// listingOnly reports whether the run only lists or checks playbooks, in
// which case the engine prints text instead of task events.
func listingOnly(req *Request) bool {
	o := req.Options
	return o.ListTags || o.ListTasks || o.ListHosts || o.Syntax
}

func stderrSuffix(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	if len(stderr) > maxStderrInError {
		stderr = "..." + stderr[len(stderr)-maxStderrInError:]
	}
	return ": " + stderr
}
