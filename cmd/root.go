package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mensylisir/xmansible/common"
	"github.com/mensylisir/xmansible/logger"
)

type rootOptions struct {
	logDir  string
	verbose bool
	// exitCode is set by subcommands that finish without an error but must
	// still report failure to the shell.
	exitCode int
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	o := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   common.AppName,
		Short: "Run Ansible playbooks against a host list",
		Long: `xmansible writes the given hosts to a temporary inventory, runs
ansible-playbook with a fixed option set and reports every task result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.InitGlobalLogger(o.logDir, o.verbose, logrus.InfoLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&o.logDir, "log-dir", "", "also write logs to app.log in this directory")
	rootCmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newRunCmd(o))
	return rootCmd, o
}

// Execute runs the command line and exits the process with its status.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd, o := newRootCmd()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return common.ExitError
	}
	return o.exitCode
}
