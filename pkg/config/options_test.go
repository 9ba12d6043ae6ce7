package config

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/sidkik/dirbackup/pkg/errors"
)

func TestParseOptions(t *testing.T) {
	out := "/home/user/.dirbackup.yaml"

	tests := []struct {
		name      string
		input     []byte
		expConfig Options
		expError  error

		expErrorContains string
	}{
		{
			name:      "Empty version",
			input:     []byte("watch: true\nkeepGoing: true\n"),
			expConfig: Options{Version: InitialOptionsVersion, Watch: true, KeepGoing: true},
		},
		{
			name: "All fields",
			input: []byte(fmt.Sprintf(
				"version: %s\nwatch: true\nkeepGoing: false\nverbose: true\npasses: 3\n",
				SupportedOptionsVersion)),
			expConfig: Options{
				Version: SupportedOptionsVersion,
				Watch:   true,
				Verbose: true,
				Passes:  3,
			},
		},
		{
			name:  "Incorrect version",
			input: []byte("version: incorrect_version\n"),
			expError: errors.WithContext(versionMismatchError{
				path:   out,
				actual: "incorrect_version",
			}, "parse"),
		},
		{
			name:             "Wrong type",
			input:            []byte("passes: lots\n"),
			expErrorContains: "cannot unmarshal string",
		},
		{
			name: "Extra fields",
			input: []byte(fmt.Sprintf(
				"version: %s\nextra: fields", SupportedOptionsVersion)),
			expError: errors.WithContext(optionsParseError{
				path: out,
				err: errors.New("error unmarshaling JSON: while decoding JSON: " +
					`json: unknown field "extra"`),
			}, "parse"),
		},
	}

	homedirExpand = func(_ string) (string, error) {
		return out, nil
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			fs = afero.NewMemMapFs()
			assert.NoError(t, afero.WriteFile(fs, out, test.input, 0644))

			config, err := ParseOptions("")
			assert.Equal(t, test.expConfig, config)
			switch {
			case test.expError != nil:
				assert.EqualError(t, err, test.expError.Error())
			case test.expErrorContains != "":
				assert.IsType(t, optionsParseError{}, errors.RootCause(err))
				assert.Contains(t, err.Error(), test.expErrorContains)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseOptionsMissing(t *testing.T) {
	fs = afero.NewMemMapFs()
	homedirExpand = func(path string) (string, error) {
		return path, nil
	}

	// The default file is optional.
	opts, err := ParseOptions("")
	assert.NoError(t, err)
	assert.Equal(t, Options{Version: SupportedOptionsVersion}, opts)

	// But a file that was asked for explicitly must exist.
	_, err = ParseOptions("/etc/dirbackup.yaml")
	assert.Equal(t, errors.NewFriendlyError(
		"The options file %q doesn't exist.", "/etc/dirbackup.yaml"), err)
}

func TestVersionMismatchMessage(t *testing.T) {
	err := versionMismatchError{path: "/etc/dirbackup.yaml", actual: "v2"}
	assert.Equal(t, err.Error(), errors.GetPrintableMessage(err))
	assert.Contains(t, err.FriendlyMessage(), SupportedOptionsVersion)
}
