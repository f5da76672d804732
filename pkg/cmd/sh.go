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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tetratelabs/procctl/pkg/globals"
	"github.com/tetratelabs/procctl/pkg/thisprocess"
	"github.com/tetratelabs/procctl/pkg/util/exec"
)

// NewShCmd returns command that runs a shell command line
func NewShCmd(o *globals.GlobalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "sh <command>",
		Short: "Run a command line with the shell",
		Long: `Run a command line with "$SHELL -c", where $SHELL is --shell. Standard streams are inherited.
The exit status of procctl mirrors the one of the shell.`,
		Example: `  procctl sh 'echo $HOME'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")
			thisprocess.Shell = o.Shell
			code, err := thisprocess.Execute(command)
			if err != nil {
				if errors.Is(err, thisprocess.ErrShellNotExecutable) && code.Valid() {
					return exec.NewRunError(fmt.Sprintf("%q", command), code, err)
				}
				return err
			}
			if !code.Success() {
				return exec.NewRunError(fmt.Sprintf("%q", command), code, errors.New(code.String()))
			}
			return nil
		},
	}
}
