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

package cmd

import (
	osexec "os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tetratelabs/procctl/pkg/environ"
	commonerrors "github.com/tetratelabs/procctl/pkg/errors"
	"github.com/tetratelabs/procctl/pkg/globals"
	"github.com/tetratelabs/procctl/pkg/thisprocess"
)

// replace is swapped in tests, as a successful call never returns.
var replace = thisprocess.ReplaceWithEnv

// NewExecCmd returns command that replaces procctl with another executable
func NewExecCmd(o *globals.GlobalOpts) *cobra.Command {
	var env []string
	cmd := &cobra.Command{
		Use:   "exec [flags] -- <path> [args...]",
		Short: "Replace procctl with another executable",
		Long: `Replace the procctl process with another executable, keeping its process id.
The environment is the one of procctl, plus the configuration file and --env additions.`,
		Example: `  # Become "env", printing the resulting environment
  procctl exec -e GREETING=hello -- env`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			childEnv, err := mergeEnv(o, env)
			if err != nil {
				return err
			}
			if childEnv == nil {
				childEnv = environ.Snapshot()
			}
			path := args[0]
			if !strings.Contains(path, "/") {
				if path, err = osexec.LookPath(path); err != nil {
					return commonerrors.NewValidationError(err.Error())
				}
			}
			return replace(childEnv, path, args[1:]...)
		},
	}
	cmd.Flags().StringArrayVarP(&env, "env", "e", nil, "add NAME=VALUE to the environment of the new image")
	return cmd
}
