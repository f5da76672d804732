// Copyright 2021 Tetrate
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	rootcmd "github.com/tetratelabs/procctl/pkg/cmd"
	"github.com/tetratelabs/procctl/pkg/globals"
	"github.com/tetratelabs/procctl/pkg/process"
	cmdutil "github.com/tetratelabs/procctl/pkg/util/cmd"
)

func TestProcctlValidateArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		config      string
		expectedErr string
	}{
		{
			name:        "--shell not absolute",
			args:        []string{"--shell", "bash", "version"},
			expectedErr: `"bash" is not an absolute path to a shell`,
		},
		{
			name:        "--grace-period not a duration",
			args:        []string{"--grace-period", "soon", "version"},
			expectedErr: `"soon" is not a valid grace period`,
		},
		{
			name:        "--grace-period negative",
			args:        []string{"--grace-period", "-1s", "version"},
			expectedErr: `"-1s" is not a valid grace period`,
		},
		{
			name:        "invalid config",
			args:        []string{"version"},
			config:      "gracePeriod: -1s\n",
			expectedErr: `invalid configuration file "%s": gracePeriod -1s is negative`,
		},
	}

	for _, test := range tests {
		test := test // pin! see https://github.com/kyoh86/scopelint for why

		t.Run(test.name, func(t *testing.T) {
			o := &globals.GlobalOpts{ConfigFile: requireConfigFile(t, test.config)}
			c, stdout, stderr := newRootCommand(o)
			c.SetArgs(test.args)
			err := cmdutil.Execute(c)

			expectedErr := test.expectedErr
			if test.config != "" {
				expectedErr = fmt.Sprintf(test.expectedErr, o.ConfigFile)
			}
			// Verify the command failed with the expected error
			require.EqualError(t, err, expectedErr, `expected an error running [%v]`, c)
			require.Empty(t, stdout.String(), `expected no stdout running [%v]`, c)
			expectedStderr := fmt.Sprintf("Error: %s\n\nRun 'procctl version --help' for usage.\n", expectedErr)
			require.Equal(t, expectedStderr, stderr.String(), `unexpected stderr running [%v]`, c)
		})
	}
}

func TestProcctlConfigNotRegularFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name       string
		configFile string
	}{
		{name: "directory", configFile: dir},
		{name: "missing", configFile: filepath.Join(dir, "missing.yaml")},
	}

	for _, test := range tests {
		test := test // pin! see https://github.com/kyoh86/scopelint for why

		t.Run(test.name, func(t *testing.T) {
			c, stdout, stderr := newRootCommand(&globals.GlobalOpts{})
			c.SetArgs([]string{"--config", test.configFile, "version"})
			err := cmdutil.Execute(c)

			expectedErr := fmt.Sprintf("configuration file %q is missing or not a regular file", test.configFile)
			require.EqualError(t, err, expectedErr)
			require.Empty(t, stdout.String())
			require.Equal(t, "Error: "+expectedErr+"\n\nRun 'procctl version --help' for usage.\n", stderr.String())
		})
	}
}

func TestProcctlGlobalOpts(t *testing.T) {
	type testCase struct {
		name                string
		args                []string
		config              string
		setup               func(t *testing.T)
		expectedShell       string
		expectedGracePeriod time.Duration
	}

	tests := []testCase{
		{
			name:                "defaults",
			args:                []string{"version"},
			expectedShell:       globals.DefaultShell,
			expectedGracePeriod: process.DefaultGracePeriod,
		},
		{
			name:                "config file",
			args:                []string{"version"},
			config:              "shell: /bin/bash\ngracePeriod: 2s\n",
			expectedShell:       "/bin/bash",
			expectedGracePeriod: 2 * time.Second,
		},
		{
			name:   "env overrides config file",
			args:   []string{"version"},
			config: "shell: /bin/bash\ngracePeriod: 2s\n",
			setup: func(t *testing.T) {
				t.Setenv("PROCCTL_SHELL", "/bin/zsh")
				t.Setenv("PROCCTL_GRACE_PERIOD", "5s")
			},
			expectedShell:       "/bin/zsh",
			expectedGracePeriod: 5 * time.Second,
		},
		{
			name:   "args override env",
			args:   []string{"--shell", "/bin/dash", "--grace-period", "100ms", "version"},
			config: "shell: /bin/bash\n",
			setup: func(t *testing.T) {
				t.Setenv("PROCCTL_SHELL", "/bin/zsh")
			},
			expectedShell:       "/bin/dash",
			expectedGracePeriod: 100 * time.Millisecond,
		},
	}

	for _, test := range tests {
		test := test // pin! see https://github.com/kyoh86/scopelint for why

		t.Run(test.name, func(t *testing.T) {
			if test.setup != nil {
				test.setup(t)
			}

			o := &globals.GlobalOpts{ConfigFile: requireConfigFile(t, test.config)}
			c, stdout, stderr := newRootCommand(o)
			c.SetArgs(test.args)
			err := cmdutil.Execute(c)

			require.NoError(t, err, `expected no error running [%v]`, c)
			require.NotEmpty(t, stdout.String(), `expected stdout running [%v]`, c)
			require.Empty(t, stderr.String(), `expected no stderr running [%v]`, c)

			require.Equal(t, test.expectedShell, o.Shell)
			require.Equal(t, test.expectedGracePeriod, o.GracePeriod)
		})
	}
}

func TestProcctlVersion(t *testing.T) {
	o := &globals.GlobalOpts{ConfigFile: requireConfigFile(t, "")}
	c, stdout, stderr := newRootCommand(o)
	c.SetArgs([]string{"version"})
	err := cmdutil.Execute(c)

	require.NoError(t, err)
	require.Equal(t, "procctl version dev\n", stdout.String())
	require.Empty(t, stderr.String())
}

// runProcctl runs procctl with an empty configuration file, unless config is given.
func runProcctl(t *testing.T, config string, args ...string) (stdout, stderr string, err error) {
	o := &globals.GlobalOpts{ConfigFile: requireConfigFile(t, config)}
	c, outBuf, errBuf := newRootCommand(o)
	c.SetArgs(args)
	err = cmdutil.Execute(c)
	return outBuf.String(), errBuf.String(), err
}

func newRootCommand(o *globals.GlobalOpts) (c *cobra.Command, stdout, stderr *bytes.Buffer) {
	stdout = new(bytes.Buffer)
	stderr = new(bytes.Buffer)
	c = rootcmd.NewRoot(o)
	c.SetOut(stdout)
	c.SetErr(stderr)
	return c, stdout, stderr
}

// requireConfigFile writes content to a new configuration file, so that tests don't read the one in $HOME.
func requireConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), globals.DefaultConfigName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}
