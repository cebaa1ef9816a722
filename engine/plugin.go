package engine

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mensylisir/xmansible/common"
	"github.com/mensylisir/xmansible/file"
)

//go:embed xmansible_json.py
var callbackPlugin []byte

const (
	callbackPluginName    = "xmansible_json"
	callbackPluginsEnvKey = "ANSIBLE_CALLBACK_PLUGINS"
	// ignoredKey marks failed results the engine was told to ignore. Only
	// the callback plugin writes it.
	ignoredKey = "xmansible_ignore_errors"
)

// writeCallbackPlugin writes the stdout callback plugin into a new
// directory under dir and returns that directory. The caller removes it.
func writeCallbackPlugin(dir string) (string, error) {
	if dir == "" {
		dir = common.GetTmpDir()
	}
	if err := file.CreateDir(dir); err != nil {
		return "", errors.Wrap(err, "failed to create callback plugin directory")
	}
	pluginDir, err := os.MkdirTemp(dir, "callback-plugins-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create callback plugin directory")
	}
	path := filepath.Join(pluginDir, callbackPluginName+".py")
	if err := os.WriteFile(path, callbackPlugin, common.FileMode0644); err != nil {
		_ = os.RemoveAll(pluginDir)
		return "", errors.Wrapf(err, "failed to write callback plugin %s", path)
	}
	return pluginDir, nil
}

// callbackEnv makes the engine print the whole run as one JSON document
// through the plugin in pluginDir. Callback plugin paths already set in the
// environment are kept after it.
func callbackEnv(pluginDir string) []string {
	paths := pluginDir
	if existing := os.Getenv(callbackPluginsEnvKey); existing != "" {
		paths += string(os.PathListSeparator) + existing
	}
	return []string{
		"ANSIBLE_STDOUT_CALLBACK=" + callbackPluginName,
		callbackPluginsEnvKey + "=" + paths,
		"ANSIBLE_LOAD_CALLBACK_PLUGINS=1",
		"ANSIBLE_RETRY_FILES_ENABLED=False",
	}
}
