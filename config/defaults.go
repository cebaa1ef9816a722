package config

// Default values of the options record.
const (
	DefaultConnection     = "ssh"
	DefaultForks          = 10
	DefaultRemoteUser     = "root"
	DefaultPrivateKeyFile = "~/.ssh/id_rsa"
	DefaultBecomeMethod   = "sudo"
	DefaultBecomeUser     = "root"
	DefaultVerbosity      = 3

	MaxVerbosity = 6
)

// Default returns the options every run uses unless told otherwise.
func Default() *Options {
	return &Options{
		Connection:     DefaultConnection,
		Forks:          DefaultForks,
		RemoteUser:     DefaultRemoteUser,
		PrivateKeyFile: DefaultPrivateKeyFile,
		Become:         true,
		BecomeMethod:   DefaultBecomeMethod,
		BecomeUser:     DefaultBecomeUser,
		Verbosity:      DefaultVerbosity,
	}
}

// SetDefaults fills zero-valued string and numeric fields that must never be
// empty. Booleans are left alone: false is a valid choice.
func SetDefaults(o *Options) {
	if o.Connection == "" {
		o.Connection = DefaultConnection
	}
	if o.Forks == 0 {
		o.Forks = DefaultForks
	}
	if o.RemoteUser == "" {
		o.RemoteUser = DefaultRemoteUser
	}
	if o.Become && o.BecomeMethod == "" {
		o.BecomeMethod = DefaultBecomeMethod
	}
	if o.Become && o.BecomeUser == "" {
		o.BecomeUser = DefaultBecomeUser
	}
}
