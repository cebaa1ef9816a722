package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mensylisir/xmansible/callback"
	"github.com/mensylisir/xmansible/common"
	"github.com/mensylisir/xmansible/config"
	"github.com/mensylisir/xmansible/ip"
	"github.com/mensylisir/xmansible/logger"
	"github.com/mensylisir/xmansible/playbook"
	"github.com/mensylisir/xmansible/util"
)

type runOptions struct {
	hosts            []string
	configPath       string
	inventory        []string
	extraVars        []string
	forks            int
	strict           bool
	forwardExtraVars bool
	binary           string
}

// runOutput is what the run command prints on stdout.
type runOutput struct {
	Sources    []string                  `yaml:"sources"`
	LastResult callback.Result           `yaml:"last_result"`
	ErrorMsg   string                    `yaml:"error_msg,omitempty"`
	Summary    map[string]map[string]int `yaml:"summary,omitempty"`
	Listing    string                    `yaml:"listing,omitempty"`
}

func newRunCmd(root *rootOptions) *cobra.Command {
	o := &runOptions{}
	runCmd := &cobra.Command{
		Use:   "run [flags] playbook.yml...",
		Short: "Run playbooks against the given hosts",
		Example: `  xmansible run --hosts 10.0.0.1,10.0.0.2 site.yml
  xmansible run --hosts 10.0.0.0/29 --config opts.yaml --extra-vars version=1.2 site.yml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := o.run(ctx, cmd, args)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(runOutput{
				Sources:    report.Sources,
				LastResult: report.LastResult,
				ErrorMsg:   report.ErrorMsg,
				Summary:    report.Summary(),
				Listing:    report.Listing,
			})
			if err != nil {
				return errors.Wrap(err, "failed to render report")
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
			if !report.OK() {
				root.exitCode = common.ExitHostFailed
			}
			return nil
		},
	}

	flags := runCmd.Flags()
	flags.StringSliceVar(&o.hosts, "hosts", nil, "target hosts: names, IPs, CIDRs or ip1-ip2 ranges, comma separated")
	flags.StringVarP(&o.configPath, "config", "c", "", "options file (YAML)")
	flags.StringArrayVarP(&o.inventory, "inventory", "i", nil, "extra inventory source, placed before the generated hosts file")
	flags.StringArrayVarP(&o.extraVars, "extra-vars", "e", nil, "extra variable as key=value")
	flags.IntVarP(&o.forks, "forks", "f", config.DefaultForks, "parallel processes")
	flags.BoolVar(&o.strict, "strict", false, "fail when a playbook does not exist")
	flags.BoolVar(&o.forwardExtraVars, "forward-extra-vars", false, "pass extra variables to ansible-playbook")
	flags.StringVar(&o.binary, "binary", "", "ansible-playbook program (default $"+common.PlaybookBinaryEnv+" or "+common.DefaultPlaybookBinary+")")
	_ = runCmd.MarkFlagRequired("hosts")
	return runCmd
}

func (o *runOptions) run(ctx context.Context, cmd *cobra.Command, playbooks []string) (*playbook.Report, error) {
	hosts, err := ip.ExpandHosts(o.hosts)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --hosts")
	}
	if len(hosts) == 0 {
		return nil, errors.New("no hosts given")
	}

	opts := config.Default()
	if o.configPath != "" {
		if opts, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("forks") {
		opts.Forks = o.forks
	}

	pairs, err := util.ParseKeyValues(o.extraVars)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --extra-vars")
	}
	extraVars := make(map[string]interface{}, len(pairs))
	for k, v := range pairs {
		extraVars[k] = v
	}
	if len(pairs) > 0 {
		logger.Log.Debugf("extra vars: %s", strings.Join(util.SortedKeys(pairs), ", "))
	}

	runnerOpts := []playbook.Option{
		playbook.WithInventorySources(o.inventory...),
		playbook.WithLogger(logger.Log),
	}
	if o.binary != "" {
		runnerOpts = append(runnerOpts, playbook.WithBinary(o.binary))
	}
	if o.strict {
		runnerOpts = append(runnerOpts, playbook.WithStrictPlaybooks())
	}
	if o.forwardExtraVars {
		runnerOpts = append(runnerOpts, playbook.WithForwardExtraVars())
	}

	runner, err := playbook.New(hosts, opts, runnerOpts...)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx, playbooks, extraVars)
}
