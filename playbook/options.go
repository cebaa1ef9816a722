package playbook

import (
	"github.com/mensylisir/xmansible/engine"
	"github.com/mensylisir/xmansible/logger"
)

// Option configures a Runner.
type Option func(*Runner)

// WithEngine replaces the ansible-playbook engine.
func WithEngine(e engine.Engine) Option {
	return func(r *Runner) {
		r.engine = e
	}
}

// WithBinary sets the ansible-playbook program used by the default engine.
func WithBinary(path string) Option {
	return func(r *Runner) {
		r.binary = path
	}
}

// WithStrictPlaybooks makes a missing playbook fail the run before the
// engine is started. By default it is only logged.
func WithStrictPlaybooks() Option {
	return func(r *Runner) {
		r.strict = true
	}
}

// WithForwardExtraVars passes the extra variables given to Run to the
// engine. By default they are accepted and dropped.
func WithForwardExtraVars() Option {
	return func(r *Runner) {
		r.forwardExtraVars = true
	}
}

// WithInventorySources adds inventory sources placed before the generated
// hosts file.
func WithInventorySources(sources ...string) Option {
	return func(r *Runner) {
		r.sources = append(r.sources, sources...)
	}
}

// WithLogger sets the logger. The global logger.Log is used otherwise.
func WithLogger(l *logger.XMLog) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// WithTmpDir sets where per-run files are written.
func WithTmpDir(dir string) Option {
	return func(r *Runner) {
		r.tmpDir = dir
	}
}
