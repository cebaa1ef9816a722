package config

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Loader reads an options file.
type Loader struct {
	filePath string
}

// NewLoader creates a new options loader for the given file path.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load decodes the file over Default(), so keys absent from the file keep
// their default value. Unknown keys are rejected.
func (l *Loader) Load() (*Options, error) {
	if l.filePath == "" {
		return nil, errors.New("options file path is empty")
	}
	content, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read options file '%s'", l.filePath)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, errors.Errorf("options file '%s' is empty", l.filePath)
	}

	opts := Default()
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal options YAML from '%s'", l.filePath)
	}
	SetDefaults(opts)
	return opts, nil
}

// Load is shorthand for NewLoader(path).Load().
func Load(path string) (*Options, error) {
	return NewLoader(path).Load()
}
