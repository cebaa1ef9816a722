package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"

	"github.com/mensylisir/xmansible/util"
)

// Options is the execution configuration handed to the engine for a run.
type Options struct {
	ListTags        bool   `yaml:"listtags"`
	ListTasks       bool   `yaml:"listtasks"`
	ListHosts       bool   `yaml:"listhosts"`
	Syntax          bool   `yaml:"syntax"`
	Connection      string `yaml:"connection"`
	ModulePath      string `yaml:"module_path,omitempty"`
	Forks           int    `yaml:"forks"`
	RemoteUser      string `yaml:"remote_user"`
	PrivateKeyFile  string `yaml:"private_key_file"`
	SSHCommonArgs   string `yaml:"ssh_common_args,omitempty"`
	SSHExtraArgs    string `yaml:"ssh_extra_args,omitempty"`
	SFTPExtraArgs   string `yaml:"sftp_extra_args,omitempty"`
	SCPExtraArgs    string `yaml:"scp_extra_args,omitempty"`
	Become          bool   `yaml:"become"`
	BecomeMethod    string `yaml:"become_method"`
	BecomeUser      string `yaml:"become_user"`
	Verbosity       int    `yaml:"verbosity"`
	Check           bool   `yaml:"check"`
	HostKeyChecking bool   `yaml:"host_key_checking"`
	Diff            bool   `yaml:"diff"`
}

// Clone returns a copy that shares nothing with o.
func (o *Options) Clone() *Options {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}

// Validate checks the options for values the engine would reject.
func (o *Options) Validate() error {
	if o == nil {
		return errors.New("options are nil")
	}
	if o.Forks < 1 {
		return errors.Errorf("forks must be at least 1, got %d", o.Forks)
	}
	if strings.TrimSpace(o.Connection) == "" {
		return errors.New("connection must not be empty")
	}
	if o.Verbosity < 0 || o.Verbosity > MaxVerbosity {
		return errors.Errorf("verbosity must be between 0 and %d, got %d", MaxVerbosity, o.Verbosity)
	}
	if o.Become && strings.TrimSpace(o.BecomeMethod) == "" {
		return errors.New("become_method must be set when become is enabled")
	}
	if o.Connection == DefaultConnection && o.PrivateKeyFile != "" {
		if err := checkPrivateKey(o.PrivateKeyFile); err != nil {
			return err
		}
	}
	return nil
}

// checkPrivateKey parses the key at path. A missing file is accepted since
// ssh falls back to the agent and its own configuration; a file that exists
// but is not a private key is not.
func checkPrivateKey(path string) error {
	expanded, err := util.ExpandHome(path)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read private key '%s'", expanded)
	}
	if _, err := ssh.ParsePrivateKey(content); err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil
		}
		return errors.Wrapf(err, "failed to parse private key '%s'", expanded)
	}
	return nil
}

// Args renders the options as ansible-playbook flags. The order is fixed.
func (o *Options) Args() ([]string, error) {
	args := []string{
		"-f", strconv.Itoa(o.Forks),
		"-c", o.Connection,
	}
	if o.RemoteUser != "" {
		args = append(args, "-u", o.RemoteUser)
	}
	if o.PrivateKeyFile != "" {
		keyFile, err := util.ExpandHome(o.PrivateKeyFile)
		if err != nil {
			return nil, err
		}
		args = append(args, "--private-key", keyFile)
	}
	if o.ModulePath != "" {
		args = append(args, "-M", o.ModulePath)
	}

	for _, extra := range []struct {
		flag, value string
	}{
		{"--ssh-common-args", o.SSHCommonArgs},
		{"--ssh-extra-args", o.SSHExtraArgs},
		{"--sftp-extra-args", o.SFTPExtraArgs},
		{"--scp-extra-args", o.SCPExtraArgs},
	} {
		if extra.value != "" {
			args = append(args, extra.flag, extra.value)
		}
	}

	if o.Become {
		args = append(args, "-b")
		if o.BecomeMethod != "" {
			args = append(args, "--become-method", o.BecomeMethod)
		}
		if o.BecomeUser != "" {
			args = append(args, "--become-user", o.BecomeUser)
		}
	}
	if o.Verbosity > 0 {
		args = append(args, "-"+strings.Repeat("v", o.Verbosity))
	}
	if o.Check {
		args = append(args, "--check")
	}
	if o.Diff {
		args = append(args, "--diff")
	}
	if o.ListTags {
		args = append(args, "--list-tags")
	}
	if o.ListTasks {
		args = append(args, "--list-tasks")
	}
	if o.ListHosts {
		args = append(args, "--list-hosts")
	}
	if o.Syntax {
		args = append(args, "--syntax-check")
	}
	return args, nil
}

// Env renders the settings that ansible only takes from the environment.
func (o *Options) Env() []string {
	return []string{
		"ANSIBLE_HOST_KEY_CHECKING=" + pyBool(o.HostKeyChecking),
	}
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
