package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	"github.com/spf13/afero"

	"github.com/sidkik/dirbackup/pkg/errors"
)

// optionsParseError is returned when the options file isn't valid YAML, or
// contains keys or values that Options doesn't accept.
type optionsParseError struct {
	path string
	err  error
}

func (err optionsParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", err.path, err.err)
}

func (err optionsParseError) FriendlyMessage() string {
	return fmt.Sprintf("Failed to read the options file %q.\n"+
		"Check for misspelled keys and values of the wrong type.\n\n"+
		"The parser reported: %s", err.path, err.err)
}

// versionMismatchError is returned for options files written for a
// different version of the format.
type versionMismatchError struct {
	path, actual string
}

func (err versionMismatchError) Error() string {
	return err.FriendlyMessage()
}

func (err versionMismatchError) FriendlyMessage() string {
	return fmt.Sprintf("The options file %q has version %q, but this "+
		"version of dirbackup only reads version %q.",
		err.path, err.actual, SupportedOptionsVersion)
}

// readOptions decodes the options file at `path`. Files without a version
// are treated as InitialOptionsVersion.
func readOptions(path string) (Options, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return Options{}, errors.FileNotFound{Path: path}
		}
		return Options{}, errors.WithContext(err, "read file")
	}

	// Check the version on its own first, so that a file for another
	// version reports the version rather than whichever key it trips on.
	var header struct {
		Version string `json:"version"`
	}
	if err := yaml.Unmarshal(raw, &header); err != nil {
		return Options{}, optionsParseError{path, err}
	}
	if header.Version == "" {
		header.Version = InitialOptionsVersion
	}
	if header.Version != SupportedOptionsVersion {
		return Options{}, versionMismatchError{path, header.Version}
	}

	opts := Options{Version: header.Version}
	if err := yaml.UnmarshalStrict(raw, &opts, yaml.DisallowUnknownFields); err != nil {
		return Options{}, optionsParseError{path, err}
	}
	return opts, nil
}
