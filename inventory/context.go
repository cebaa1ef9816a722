package inventory

import (
	"github.com/mensylisir/xmansible/util"
)

// Context is the ordered list of inventory sources handed to the engine,
// each one becoming an -i flag.
type Context struct {
	Sources []string
}

// NewContext places the extra sources first and the generated hosts file
// last. Duplicates and empty entries are dropped.
func NewContext(extra []string, hostsFile string) *Context {
	sources := make([]string, 0, len(extra)+1)
	for _, s := range extra {
		if s != "" {
			sources = append(sources, s)
		}
	}
	if hostsFile != "" {
		sources = append(sources, hostsFile)
	}
	return &Context{Sources: util.UniqueStrings(sources)}
}

// Args renders the sources as engine flags.
func (c *Context) Args() []string {
	args := make([]string, 0, 2*len(c.Sources))
	for _, s := range c.Sources {
		args = append(args, "-i", s)
	}
	return args
}
