package config

import (
	homedir "github.com/mitchellh/go-homedir"

	"github.com/sidkik/dirbackup/pkg/errors"
)

const (
	// DefaultOptionsPath is where the options file is read from when no
	// path is given. It's fine for it not to exist.
	DefaultOptionsPath = "~/.dirbackup.yaml"

	// InitialOptionsVersion is the version assumed for options files that
	// don't specify one.
	InitialOptionsVersion = "v1alpha1"

	// SupportedOptionsVersion is the options file version understood by
	// this binary.
	SupportedOptionsVersion = "v1alpha1"
)

// Options tune how the backup loop runs. The directories, interval and log
// file always come from the command line.
type Options struct {
	Version string `json:"version,omitempty"`

	// Watch starts a pass as soon as the source directory changes, in
	// addition to the regular interval.
	Watch bool `json:"watch,omitempty"`

	// KeepGoing logs failed passes and retries on the next interval instead
	// of exiting.
	KeepGoing bool `json:"keepGoing,omitempty"`

	// Verbose enables debug logging.
	Verbose bool `json:"verbose,omitempty"`

	// Passes stops the process after the given number of passes. Zero runs
	// forever.
	Passes int `json:"passes,omitempty"`
}

// homedirExpand will be overridden in mock tests
var homedirExpand = homedir.Expand

// ParseOptions reads the options file at `path`. If `path` is empty, the
// file at DefaultOptionsPath is used if it exists, and the default Options
// are returned otherwise.
func ParseOptions(path string) (Options, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultOptionsPath
	}

	path, err := homedirExpand(path)
	if err != nil {
		return Options{}, errors.WithContext(err, "expand options path")
	}

	opts, err := readOptions(path)
	if err != nil {
		if _, ok := err.(errors.FileNotFound); ok {
			if !explicit {
				return Options{Version: SupportedOptionsVersion}, nil
			}
			return Options{}, errors.NewFriendlyError(
				"The options file %q doesn't exist.", path)
		}
		return Options{}, errors.WithContext(err, "parse")
	}
	return opts, nil
}
