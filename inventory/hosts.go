package inventory

import (
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/mensylisir/xmansible/common"
	"github.com/mensylisir/xmansible/file"
)

const hostsFilePattern = "hosts-*"

// HostsFile is a temporary inventory file listing one host per line.
// It lives until Close is called.
type HostsFile struct {
	path      string
	closeOnce sync.Once
	closeErr  error
}

// WriteHostsFile writes hosts, in order and without validation, to a new
// file under common.GetTmpDir().
func WriteHostsFile(hosts []string) (*HostsFile, error) {
	return WriteHostsFileIn(common.GetTmpDir(), hosts)
}

// WriteHostsFileIn is WriteHostsFile with an explicit directory.
func WriteHostsFileIn(dir string, hosts []string) (*HostsFile, error) {
	var b strings.Builder
	for _, h := range hosts {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	path, err := file.WriteTempFile(dir, hostsFilePattern, []byte(b.String()), common.FileMode0600)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write hosts file")
	}
	return &HostsFile{path: path}, nil
}

// Path returns the file location.
func (h *HostsFile) Path() string {
	return h.path
}

// Close removes the file. Calling it again returns the first result.
func (h *HostsFile) Close() error {
	h.closeOnce.Do(func() {
		h.closeErr = file.RemoveIfExists(h.path)
	})
	return h.closeErr
}
