// Package yaml loads blogsnap configuration files.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/adrg/xdg"
	"github.com/fwojciec/blogsnap"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the configuration path searched under the XDG config
// directories.
const ConfigFile = "blogsnap/config.yaml"

// LoadConfig reads the YAML file at path over a copy of base.
// Keys absent from the file keep their base values; lists replace the
// base lists. Unknown keys are rejected.
// Returns ENOTFOUND if the file does not exist.
func LoadConfig(path string, base *blogsnap.Config) (*blogsnap.Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, blogsnap.Errorf(blogsnap.ENOTFOUND, "config file %s not found", path)
	} else if err != nil {
		return nil, err
	}

	cfg := *base
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, blogsnap.Errorf(blogsnap.EINVALID, "config file %s: %v", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindConfig returns path if it is set, otherwise the first
// blogsnap/config.yaml found in the XDG config directories.
// Returns an empty string when there is no file to load.
func FindConfig(path string) string {
	if path != "" {
		return path
	}
	found, err := xdg.SearchConfigFile(ConfigFile)
	if err != nil {
		return ""
	}
	return found
}
